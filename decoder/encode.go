package decoder

// Encode re-assembles a 32-bit word from a decoded Instruction, for the
// subset of opcodes with a well-defined inverse. It exists for round-trip
// testing (decode then re-encode reproduces the original word modulo
// don't-care bits), not for general use by the interpreter.
func Encode(in Instruction) (uint32, bool) {
	switch in.Op {
	case OpLUI:
		return uint32(in.Imm)&0xfffff000 | 0x37 | in.Rd<<7, true
	case OpAUIPC:
		return uint32(in.Imm)&0xfffff000 | 0x17 | in.Rd<<7, true
	case OpJAL:
		u := uint32(in.Imm)
		word := (u>>20&0x1)<<31 | (u>>1&0x3ff)<<21 | (u>>11&0x1)<<20 | (u>>12&0xff)<<12 | in.Rd<<7 | 0x6f
		return word, true
	case OpJALR:
		return encodeI(in.Imm, in.Rs1, 0, in.Rd, 0x67), true
	case OpBeq:
		return encodeB(in.Imm, in.Rs1, in.Rs2, 0x0), true
	case OpBne:
		return encodeB(in.Imm, in.Rs1, in.Rs2, 0x1), true
	case OpBlt:
		return encodeB(in.Imm, in.Rs1, in.Rs2, 0x4), true
	case OpBge:
		return encodeB(in.Imm, in.Rs1, in.Rs2, 0x5), true
	case OpBltu:
		return encodeB(in.Imm, in.Rs1, in.Rs2, 0x6), true
	case OpBgeu:
		return encodeB(in.Imm, in.Rs1, in.Rs2, 0x7), true
	case OpLB:
		return encodeI(in.Imm, in.Rs1, 0x0, in.Rd, 0x03), true
	case OpLH:
		return encodeI(in.Imm, in.Rs1, 0x1, in.Rd, 0x03), true
	case OpLW:
		return encodeI(in.Imm, in.Rs1, 0x2, in.Rd, 0x03), true
	case OpLD:
		return encodeI(in.Imm, in.Rs1, 0x3, in.Rd, 0x03), true
	case OpLBU:
		return encodeI(in.Imm, in.Rs1, 0x4, in.Rd, 0x03), true
	case OpLHU:
		return encodeI(in.Imm, in.Rs1, 0x5, in.Rd, 0x03), true
	case OpLWU:
		return encodeI(in.Imm, in.Rs1, 0x6, in.Rd, 0x03), true
	case OpSB:
		return encodeS(in.Imm, in.Rs1, in.Rs2, 0x0), true
	case OpSH:
		return encodeS(in.Imm, in.Rs1, in.Rs2, 0x1), true
	case OpSW:
		return encodeS(in.Imm, in.Rs1, in.Rs2, 0x2), true
	case OpSD:
		return encodeS(in.Imm, in.Rs1, in.Rs2, 0x3), true
	case OpAddI:
		return encodeI(in.Imm, in.Rs1, 0x0, in.Rd, 0x13), true
	case OpSltI:
		return encodeI(in.Imm, in.Rs1, 0x2, in.Rd, 0x13), true
	case OpSltIU:
		return encodeI(in.Imm, in.Rs1, 0x3, in.Rd, 0x13), true
	case OpXorI:
		return encodeI(in.Imm, in.Rs1, 0x4, in.Rd, 0x13), true
	case OpOrI:
		return encodeI(in.Imm, in.Rs1, 0x6, in.Rd, 0x13), true
	case OpAndI:
		return encodeI(in.Imm, in.Rs1, 0x7, in.Rd, 0x13), true
	case OpSllI:
		return encodeI(in.Imm&0x3f, in.Rs1, 0x1, in.Rd, 0x13), true
	case OpSrlI:
		return encodeI(in.Imm&0x3f, in.Rs1, 0x5, in.Rd, 0x13), true
	case OpSraI:
		return encodeI(in.Imm&0x3f|0x400, in.Rs1, 0x5, in.Rd, 0x13), true
	case OpAdd:
		return encodeR(0x00, in.Rs2, in.Rs1, 0x0, in.Rd, 0x33), true
	case OpSub:
		return encodeR(0x20, in.Rs2, in.Rs1, 0x0, in.Rd, 0x33), true
	case OpSll:
		return encodeR(0x00, in.Rs2, in.Rs1, 0x1, in.Rd, 0x33), true
	case OpSlt:
		return encodeR(0x00, in.Rs2, in.Rs1, 0x2, in.Rd, 0x33), true
	case OpSltU:
		return encodeR(0x00, in.Rs2, in.Rs1, 0x3, in.Rd, 0x33), true
	case OpXor:
		return encodeR(0x00, in.Rs2, in.Rs1, 0x4, in.Rd, 0x33), true
	case OpSrl:
		return encodeR(0x00, in.Rs2, in.Rs1, 0x5, in.Rd, 0x33), true
	case OpSra:
		return encodeR(0x20, in.Rs2, in.Rs1, 0x5, in.Rd, 0x33), true
	case OpOr:
		return encodeR(0x00, in.Rs2, in.Rs1, 0x6, in.Rd, 0x33), true
	case OpAnd:
		return encodeR(0x00, in.Rs2, in.Rs1, 0x7, in.Rd, 0x33), true
	case OpECall:
		return 0x00000073, true
	case OpEBreak:
		return 0x00100073, true
	case OpFence:
		return 0x0000000f, true
	case OpMret:
		return 0x30200073, true
	case OpWfi:
		return 0x10500073, true
	default:
		return 0, false
	}
}

func encodeR(funct7, rs2, rs1, funct3, rd, opcode uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeI(imm int64, rs1, funct3, rd, opcode uint32) uint32 {
	return uint32(imm)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeS(imm int64, rs1, rs2, funct3 uint32) uint32 {
	u := uint32(imm)
	return (u>>5&0x7f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u&0x1f)<<7 | 0x23
}

func encodeB(imm int64, rs1, rs2, funct3 uint32) uint32 {
	u := uint32(imm)
	return (u>>12&0x1)<<31 | (u>>5&0x3f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u>>1&0xf)<<8 | (u>>11&0x1)<<7 | 0x63
}
