package vm

import "github.com/rvhart/riscv64/decoder"

// execJAL computes the jump target as pc + offset, writes the return
// address (pc + 2 or 4) to rd, and reports a misaligned-fetch trap if the
// target is not 2-byte aligned.
func execJAL(h *Hart, in decoder.Instruction, pc uint64) *trapSignal {
	target := pc + uint64(in.Imm)
	if target&0x1 != 0 {
		return &trapSignal{cause: CauseInstrAddrMisaligned, tval: 0}
	}
	h.SetX(in.Rd, pc+returnOffset(in))
	h.PC = target
	return nil
}

// execJALR computes the target from rs1 + offset with bit 0 cleared.
func execJALR(h *Hart, in decoder.Instruction, pc uint64) *trapSignal {
	target := (h.GetX(in.Rs1) + uint64(in.Imm)) &^ 1
	if target&0x1 != 0 {
		return &trapSignal{cause: CauseInstrAddrMisaligned, tval: 0}
	}
	h.SetX(in.Rd, pc+returnOffset(in))
	h.PC = target
	return nil
}

func returnOffset(in decoder.Instruction) uint64 {
	if in.Compressed {
		return 2
	}
	return 4
}

// execBranch evaluates the named condition and, if taken, redirects PC to
// pc + offset.
func execBranch(h *Hart, in decoder.Instruction, pc uint64) {
	a, b := h.GetX(in.Rs1), h.GetX(in.Rs2)
	var taken bool
	switch in.Op {
	case decoder.OpBeq:
		taken = a == b
	case decoder.OpBne:
		taken = a != b
	case decoder.OpBlt:
		taken = asSigned(a) < asSigned(b)
	case decoder.OpBge:
		taken = asSigned(a) >= asSigned(b)
	case decoder.OpBltu:
		taken = a < b
	case decoder.OpBgeu:
		taken = a >= b
	}
	if taken {
		h.PC = pc + uint64(in.Imm)
	}
}
