package vm

import "github.com/rvhart/riscv64/decoder"

// execECall raises ECallU or ECallM depending on current privilege and
// decrements minstret so the trapping instruction is not counted as
// retired once the cycle driver's unconditional increment runs.
func execECall(h *Hart) *trapSignal {
	cause := CauseECallU
	if h.Privilege == PrivilegeMachine {
		cause = CauseECallM
	}
	h.Csr.RawSet(CsrMinstret, h.Csr.RawGet(CsrMinstret)-1)
	return &trapSignal{cause: cause, tval: 0}
}

// execEBreak raises Breakpoint and likewise decrements minstret.
func execEBreak(h *Hart, pc uint64) *trapSignal {
	h.Csr.RawSet(CsrMinstret, h.Csr.RawGet(CsrMinstret)-1)
	return &trapSignal{cause: CauseBreakpoint, tval: pc}
}

// execCsr dispatches the Zicsr RW/RS/RC forms. On success the old CSR
// value is written to rd; on an illegal or absent CSR the instruction
// traps.
func execCsr(h *Hart, in decoder.Instruction) *trapSignal {
	old, ok := h.Csr.Get(in.Csr, h.Privilege)
	if !ok {
		return &trapSignal{cause: CauseIllegalInstruction, tval: uint64(in.Raw)}
	}

	var source uint64
	if in.CsrIsImm {
		source = uint64(in.Imm)
	} else {
		source = h.GetX(in.Rs1)
	}

	write := true
	if in.CsrOp == decoder.CsrOpRW && ((in.CsrIsImm && in.Imm == 0) || (!in.CsrIsImm && in.Rs1 == 0)) {
		write = false
	}

	var newVal uint64
	switch in.CsrOp {
	case decoder.CsrOpRW:
		newVal = source
	case decoder.CsrOpRS:
		newVal = old | source
	case decoder.CsrOpRC:
		newVal = old &^ source
	}

	if !h.Csr.Set(in.Csr, newVal, write, h.Privilege) {
		return &trapSignal{cause: CauseIllegalInstruction, tval: uint64(in.Raw)}
	}

	if !(in.CsrOp == decoder.CsrOpRW && in.Rd == 0) {
		h.SetX(in.Rd, old)
	}
	return nil
}
