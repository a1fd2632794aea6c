package vm

import "github.com/rvhart/riscv64/decoder"

// execLUI and execAUIPC load a sign-extended 20-bit upper immediate,
// optionally adding PC.
func execLUI(h *Hart, in decoder.Instruction) {
	h.SetX(in.Rd, uint64(in.Imm))
}

func execAUIPC(h *Hart, in decoder.Instruction, pc uint64) {
	h.SetX(in.Rd, pc+uint64(in.Imm))
}

// execImmALU64 covers the 64-bit immediate ALU group: Add/Slt/Sltu/Xor/
// Or/And/Sll/Srl/Sra. Shift amount is the low 6 bits of the immediate.
func execImmALU64(h *Hart, in decoder.Instruction) {
	a := h.GetX(in.Rs1)
	imm := uint64(in.Imm)
	shamt := uint(imm & 0x3f)
	var result uint64
	switch in.Op {
	case decoder.OpAddI:
		result = a + imm
	case decoder.OpSltI:
		result = boolToU64(asSigned(a) < in.Imm)
	case decoder.OpSltIU:
		result = boolToU64(a < imm)
	case decoder.OpXorI:
		result = a ^ imm
	case decoder.OpOrI:
		result = a | imm
	case decoder.OpAndI:
		result = a & imm
	case decoder.OpSllI:
		result = a << shamt
	case decoder.OpSrlI:
		result = a >> shamt
	case decoder.OpSraI:
		result = uint64(asSigned(a) >> shamt)
	}
	h.SetX(in.Rd, result)
}

// execImmALU32 covers the 32-bit (word) immediate ALU group: AddIW/SllIW/
// SrlIW/SraIW. Shift amount is 5 bits; the result sign-extends from 32 to
// 64 bits.
func execImmALU32(h *Hart, in decoder.Instruction) {
	a := loWord(h.GetX(in.Rs1))
	shamt := uint(in.Imm & 0x1f)
	var result uint32
	switch in.Op {
	case decoder.OpAddIW:
		result = a + uint32(in.Imm)
	case decoder.OpSllIW:
		result = a << shamt
	case decoder.OpSrlIW:
		result = a >> shamt
	case decoder.OpSraIW:
		result = uint32(int32(a) >> shamt)
	}
	h.SetX(in.Rd, signExtend32(result))
}

// execRegALU64 covers the 64-bit register ALU group, including Sub.
func execRegALU64(h *Hart, in decoder.Instruction) {
	a, b := h.GetX(in.Rs1), h.GetX(in.Rs2)
	shamt := uint(b & 0x3f)
	var result uint64
	switch in.Op {
	case decoder.OpAdd:
		result = a + b
	case decoder.OpSub:
		result = a - b
	case decoder.OpSll:
		result = a << shamt
	case decoder.OpSlt:
		result = boolToU64(asSigned(a) < asSigned(b))
	case decoder.OpSltU:
		result = boolToU64(a < b)
	case decoder.OpXor:
		result = a ^ b
	case decoder.OpSrl:
		result = a >> shamt
	case decoder.OpSra:
		result = uint64(asSigned(a) >> shamt)
	case decoder.OpOr:
		result = a | b
	case decoder.OpAnd:
		result = a & b
	}
	h.SetX(in.Rd, result)
}

// execRegALU32 covers the 32-bit (word) register ALU group.
func execRegALU32(h *Hart, in decoder.Instruction) {
	a, b := loWord(h.GetX(in.Rs1)), loWord(h.GetX(in.Rs2))
	shamt := uint(b & 0x1f)
	var result uint32
	switch in.Op {
	case decoder.OpAddW:
		result = a + b
	case decoder.OpSubW:
		result = a - b
	case decoder.OpSllW:
		result = a << shamt
	case decoder.OpSrlW:
		result = a >> shamt
	case decoder.OpSraW:
		result = uint32(int32(a) >> shamt)
	}
	h.SetX(in.Rd, signExtend32(result))
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
