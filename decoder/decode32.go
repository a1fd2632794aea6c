package decoder

// Decode32 decodes a 32-bit RISC-V instruction word. Callers must have
// already established that the word's low two bits are 11.
func Decode32(word uint32) (Instruction, error) {
	in := Instruction{Raw: word}

	opcode := word & 0x7f
	rd := (word >> 7) & 0x1f
	funct3 := (word >> 12) & 0x7
	rs1 := (word >> 15) & 0x1f
	rs2 := (word >> 20) & 0x1f
	funct7 := (word >> 25) & 0x7f

	switch opcode {
	case 0x37: // LUI
		in.Op = OpLUI
		in.Rd = rd
		in.Imm = int64(int32(word & 0xfffff000))
		return in, nil

	case 0x17: // AUIPC
		in.Op = OpAUIPC
		in.Rd = rd
		in.Imm = int64(int32(word & 0xfffff000))
		return in, nil

	case 0x6f: // JAL
		imm := (uint64(word>>31&0x1) << 20) |
			(uint64(word>>12&0xff) << 12) |
			(uint64(word>>20&0x1) << 11) |
			(uint64(word>>21&0x3ff) << 1)
		in.Op = OpJAL
		in.Rd = rd
		in.Imm = signExtend(imm, 20)
		return in, nil

	case 0x67: // JALR
		if funct3 != 0 {
			return in, &DecodeError{Raw: word, Width: 4, Msg: "JALR funct3 must be 0"}
		}
		in.Op = OpJALR
		in.Rd = rd
		in.Rs1 = rs1
		in.Imm = iImm(word)
		return in, nil

	case 0x63: // BRANCH
		op, err := branchOp(funct3)
		if err != nil {
			return in, &DecodeError{Raw: word, Width: 4, Msg: err.Error()}
		}
		in.Op = op
		in.Rs1 = rs1
		in.Rs2 = rs2
		in.Imm = bImm(word)
		return in, nil

	case 0x03: // LOAD
		op, err := loadOp(funct3)
		if err != nil {
			return in, &DecodeError{Raw: word, Width: 4, Msg: err.Error()}
		}
		in.Op = op
		in.Rd = rd
		in.Rs1 = rs1
		in.Imm = iImm(word)
		return in, nil

	case 0x23: // STORE
		op, err := storeOp(funct3)
		if err != nil {
			return in, &DecodeError{Raw: word, Width: 4, Msg: err.Error()}
		}
		in.Op = op
		in.Rs1 = rs1
		in.Rs2 = rs2
		in.Imm = sImm(word)
		return in, nil

	case 0x13: // OP-IMM
		return decodeOpImm(in, word, funct3, rd, rs1)

	case 0x1b: // OP-IMM-32
		return decodeOpImm32(in, word, funct3, rd, rs1)

	case 0x33: // OP
		return decodeOp(in, funct3, funct7, rd, rs1, rs2)

	case 0x3b: // OP-32
		return decodeOp32(in, funct3, funct7, rd, rs1, rs2)

	case 0x0f: // MISC-MEM
		if funct3 != 0 {
			return in, &DecodeError{Raw: word, Width: 4, Msg: "only FENCE is supported in MISC-MEM"}
		}
		in.Op = OpFence
		return in, nil

	case 0x73: // SYSTEM
		return decodeSystem(in, word, funct3, rd, rs1)

	case 0x2f: // AMO
		return decodeAmo(in, word, funct3, funct7, rd, rs1, rs2)

	default:
		return in, &DecodeError{Raw: word, Width: 4, Msg: "unrecognized opcode"}
	}
}

func iImm(word uint32) int64 {
	return signExtend(uint64(word>>20&0xfff), 11)
}

func sImm(word uint32) int64 {
	v := uint64(word>>25&0x7f)<<5 | uint64(word>>7&0x1f)
	return signExtend(v, 11)
}

func bImm(word uint32) int64 {
	v := uint64(word>>31&0x1)<<12 | uint64(word>>7&0x1)<<11 |
		uint64(word>>25&0x3f)<<5 | uint64(word>>8&0xf)<<1
	return signExtend(v, 12)
}

func branchOp(funct3 uint32) (Op, error) {
	switch funct3 {
	case 0x0:
		return OpBeq, nil
	case 0x1:
		return OpBne, nil
	case 0x4:
		return OpBlt, nil
	case 0x5:
		return OpBge, nil
	case 0x6:
		return OpBltu, nil
	case 0x7:
		return OpBgeu, nil
	default:
		return OpInvalid, errUnrecognizedFunct3
	}
}

func loadOp(funct3 uint32) (Op, error) {
	switch funct3 {
	case 0x0:
		return OpLB, nil
	case 0x1:
		return OpLH, nil
	case 0x2:
		return OpLW, nil
	case 0x3:
		return OpLD, nil
	case 0x4:
		return OpLBU, nil
	case 0x5:
		return OpLHU, nil
	case 0x6:
		return OpLWU, nil
	default:
		return OpInvalid, errUnrecognizedFunct3
	}
}

func storeOp(funct3 uint32) (Op, error) {
	switch funct3 {
	case 0x0:
		return OpSB, nil
	case 0x1:
		return OpSH, nil
	case 0x2:
		return OpSW, nil
	case 0x3:
		return OpSD, nil
	default:
		return OpInvalid, errUnrecognizedFunct3
	}
}

func decodeOpImm(in Instruction, word uint32, funct3, rd, rs1 uint32) (Instruction, error) {
	in.Rd, in.Rs1 = rd, rs1
	switch funct3 {
	case 0x0:
		in.Op = OpAddI
		in.Imm = iImm(word)
	case 0x2:
		in.Op = OpSltI
		in.Imm = iImm(word)
	case 0x3:
		in.Op = OpSltIU
		in.Imm = iImm(word)
	case 0x4:
		in.Op = OpXorI
		in.Imm = iImm(word)
	case 0x6:
		in.Op = OpOrI
		in.Imm = iImm(word)
	case 0x7:
		in.Op = OpAndI
		in.Imm = iImm(word)
	case 0x1:
		if word>>26 != 0 {
			return in, &DecodeError{Raw: word, Width: 4, Msg: "SLLI requires funct6=0"}
		}
		in.Op = OpSllI
		in.Imm = int64(word >> 20 & 0x3f)
	case 0x5:
		switch word >> 26 {
		case 0x00:
			in.Op = OpSrlI
		case 0x10:
			in.Op = OpSraI
		default:
			return in, &DecodeError{Raw: word, Width: 4, Msg: "SRLI/SRAI requires funct6 in {0, 16}"}
		}
		in.Imm = int64(word >> 20 & 0x3f)
	}
	return in, nil
}

func decodeOpImm32(in Instruction, word uint32, funct3, rd, rs1 uint32) (Instruction, error) {
	in.Rd, in.Rs1 = rd, rs1
	switch funct3 {
	case 0x0:
		in.Op = OpAddIW
		in.Imm = iImm(word)
	case 0x1:
		if word>>25 != 0 {
			return in, &DecodeError{Raw: word, Width: 4, Msg: "SLLIW requires funct7=0"}
		}
		in.Op = OpSllIW
		in.Imm = int64(word >> 20 & 0x1f)
	case 0x5:
		switch word >> 25 {
		case 0x00:
			in.Op = OpSrlIW
		case 0x20:
			in.Op = OpSraIW
		default:
			return in, &DecodeError{Raw: word, Width: 4, Msg: "SRLIW/SRAIW requires funct7 in {0, 0x20}"}
		}
		in.Imm = int64(word >> 20 & 0x1f)
	default:
		return in, &DecodeError{Raw: word, Width: 4, Msg: "unrecognized OP-IMM-32 funct3"}
	}
	return in, nil
}

func decodeOp(in Instruction, funct3, funct7, rd, rs1, rs2 uint32) (Instruction, error) {
	in.Rd, in.Rs1, in.Rs2 = rd, rs1, rs2
	switch funct7 {
	case 0x00:
		switch funct3 {
		case 0x0:
			in.Op = OpAdd
		case 0x1:
			in.Op = OpSll
		case 0x2:
			in.Op = OpSlt
		case 0x3:
			in.Op = OpSltU
		case 0x4:
			in.Op = OpXor
		case 0x5:
			in.Op = OpSrl
		case 0x6:
			in.Op = OpOr
		case 0x7:
			in.Op = OpAnd
		default:
			return in, &DecodeError{Raw: in.Raw, Width: 4, Msg: "unrecognized OP funct3"}
		}
	case 0x20:
		switch funct3 {
		case 0x0:
			in.Op = OpSub
		case 0x5:
			in.Op = OpSra
		default:
			return in, &DecodeError{Raw: in.Raw, Width: 4, Msg: "unrecognized OP funct3 for funct7=0x20"}
		}
	case 0x01: // M extension
		switch funct3 {
		case 0x0:
			in.Op = OpMul
		case 0x1:
			in.Op = OpMulH
		case 0x2:
			in.Op = OpMulHSU
		case 0x3:
			in.Op = OpMulHU
		case 0x4:
			in.Op = OpDiv
		case 0x5:
			in.Op = OpDivU
		case 0x6:
			in.Op = OpRem
		case 0x7:
			in.Op = OpRemU
		}
	default:
		return in, &DecodeError{Raw: in.Raw, Width: 4, Msg: "unrecognized OP funct7"}
	}
	return in, nil
}

func decodeOp32(in Instruction, funct3, funct7, rd, rs1, rs2 uint32) (Instruction, error) {
	in.Rd, in.Rs1, in.Rs2 = rd, rs1, rs2
	switch funct7 {
	case 0x00:
		switch funct3 {
		case 0x0:
			in.Op = OpAddW
		case 0x1:
			in.Op = OpSllW
		case 0x5:
			in.Op = OpSrlW
		default:
			return in, &DecodeError{Raw: in.Raw, Width: 4, Msg: "unrecognized OP-32 funct3"}
		}
	case 0x20:
		switch funct3 {
		case 0x0:
			in.Op = OpSubW
		case 0x5:
			in.Op = OpSraW
		default:
			return in, &DecodeError{Raw: in.Raw, Width: 4, Msg: "unrecognized OP-32 funct3 for funct7=0x20"}
		}
	case 0x01: // M extension word forms
		switch funct3 {
		case 0x0:
			in.Op = OpMulW
		case 0x4:
			in.Op = OpDivW
		case 0x5:
			in.Op = OpDivUW
		case 0x6:
			in.Op = OpRemW
		case 0x7:
			in.Op = OpRemUW
		default:
			return in, &DecodeError{Raw: in.Raw, Width: 4, Msg: "unrecognized OP-32 M-extension funct3"}
		}
	default:
		return in, &DecodeError{Raw: in.Raw, Width: 4, Msg: "unrecognized OP-32 funct7"}
	}
	return in, nil
}

func decodeSystem(in Instruction, word uint32, funct3, rd, rs1 uint32) (Instruction, error) {
	switch funct3 {
	case 0x0:
		if rd != 0 || rs1 != 0 {
			return in, &DecodeError{Raw: word, Width: 4, Msg: "ECALL/EBREAK/MRET/WFI require rd=rs1=0"}
		}
		switch word >> 20 {
		case 0x000:
			in.Op = OpECall
		case 0x001:
			in.Op = OpEBreak
		case 0x302:
			in.Op = OpMret
		case 0x105:
			in.Op = OpWfi
		default:
			return in, &DecodeError{Raw: word, Width: 4, Msg: "unrecognized SYSTEM immediate"}
		}
		return in, nil
	case 0x1, 0x2, 0x3, 0x5, 0x6, 0x7:
		in.Rd = rd
		in.Csr = uint16(word >> 20)
		switch funct3 {
		case 0x1:
			in.Op, in.CsrOp = OpCsrrw, CsrOpRW
			in.Rs1 = rs1
		case 0x2:
			in.Op, in.CsrOp = OpCsrrs, CsrOpRS
			in.Rs1 = rs1
		case 0x3:
			in.Op, in.CsrOp = OpCsrrc, CsrOpRC
			in.Rs1 = rs1
		case 0x5:
			in.Op, in.CsrOp = OpCsrrw, CsrOpRW
			in.CsrIsImm = true
			in.Imm = int64(rs1)
		case 0x6:
			in.Op, in.CsrOp = OpCsrrs, CsrOpRS
			in.CsrIsImm = true
			in.Imm = int64(rs1)
		case 0x7:
			in.Op, in.CsrOp = OpCsrrc, CsrOpRC
			in.CsrIsImm = true
			in.Imm = int64(rs1)
		}
		return in, nil
	default:
		return in, &DecodeError{Raw: word, Width: 4, Msg: "unrecognized SYSTEM funct3"}
	}
}

func decodeAmo(in Instruction, word uint32, funct3, funct7, rd, rs1, rs2 uint32) (Instruction, error) {
	in.Rd, in.Rs1, in.Rs2 = rd, rs1, rs2
	in.Rl = funct7&0x1 != 0
	in.Aq = funct7&0x2 != 0
	funct5 := funct7 >> 2

	isWord := funct3 == 0x2
	isDouble := funct3 == 0x3
	if !isWord && !isDouble {
		return in, &DecodeError{Raw: word, Width: 4, Msg: "AMO funct3 must select W or D width"}
	}

	switch funct5 {
	case 0x02: // LR
		if rs2 != 0 {
			return in, &DecodeError{Raw: word, Width: 4, Msg: "LR requires rs2=0"}
		}
		in.Op = map[bool]Op{true: OpLRW, false: OpLRD}[isWord]
	case 0x03:
		in.Op = map[bool]Op{true: OpSCW, false: OpSCD}[isWord]
	case 0x01:
		in.Op = map[bool]Op{true: OpAmoSwapW, false: OpAmoSwapD}[isWord]
	case 0x00:
		in.Op = map[bool]Op{true: OpAmoAddW, false: OpAmoAddD}[isWord]
	case 0x04:
		in.Op = map[bool]Op{true: OpAmoXorW, false: OpAmoXorD}[isWord]
	case 0x0c:
		in.Op = map[bool]Op{true: OpAmoAndW, false: OpAmoAndD}[isWord]
	case 0x08:
		in.Op = map[bool]Op{true: OpAmoOrW, false: OpAmoOrD}[isWord]
	case 0x10:
		in.Op = map[bool]Op{true: OpAmoMinW, false: OpAmoMinD}[isWord]
	case 0x14:
		in.Op = map[bool]Op{true: OpAmoMaxW, false: OpAmoMaxD}[isWord]
	case 0x18:
		in.Op = map[bool]Op{true: OpAmoMinUW, false: OpAmoMinUD}[isWord]
	case 0x1c:
		in.Op = map[bool]Op{true: OpAmoMaxUW, false: OpAmoMaxUD}[isWord]
	default:
		return in, &DecodeError{Raw: word, Width: 4, Msg: "unrecognized AMO funct5"}
	}
	return in, nil
}
