package vm

import (
	"fmt"

	"github.com/rvhart/riscv64/decoder"
)

// trapSignal is how an instruction handler reports a pending synchronous
// exception back to Step, which then runs the trap pipeline using the PC
// of the faulting instruction rather than the (possibly already advanced)
// PC.
type trapSignal struct {
	cause TrapCause
	tval  uint64
}

// Executor drives one hart against one bus, one instruction at a time.
// Trace and Stats are optional observers: when set, Step reports the
// instruction it just retired to each without otherwise changing behavior.
type Executor struct {
	Hart  *Hart
	Bus   *Bus
	Trace *ExecutionTrace
	Stats *PerformanceStatistics
}

func NewExecutor(h *Hart, bus *Bus) *Executor {
	return &Executor{Hart: h, Bus: bus}
}

// fetch reads either a 16-bit or 32-bit instruction word at pc, reporting
// which it read and its width for the advance/mtval calculation.
func (e *Executor) fetch(pc uint64) (word uint32, width uint64, fetchFault bool) {
	lo, err := e.Bus.Load(pc, 2)
	if err != nil {
		return 0, 0, true
	}
	if !decoder.IsCompressed(uint16(lo)) {
		hi, err := e.Bus.Load(pc+2, 2)
		if err != nil {
			return 0, 0, true
		}
		return uint32(lo) | uint32(hi)<<16, 4, false
	}
	return uint32(lo), 2, false
}

// Step executes exactly one instruction, following the cycle driver
// algorithm: fetch, decode, execute, count, and apply any pending trap
// using the instruction's own PC.
func (e *Executor) Step() error {
	h := e.Hart
	h.ForceZero()
	faultPC := h.PC

	word, width, fetchFault := e.fetch(faultPC)
	if fetchFault {
		h.EnterTrap(faultPC, CauseInstrAccessFault, 0)
		return nil
	}

	var inst decoder.Instruction
	var decErr error
	if width == 2 {
		inst, decErr = decoder.Decode16(uint16(word))
	} else {
		inst, decErr = decoder.Decode32(word)
	}

	var trap *trapSignal
	var pcSet bool
	if decErr != nil {
		trap = &trapSignal{cause: CauseIllegalInstruction, tval: uint64(word)}
	} else {
		trap, pcSet = e.execute(inst, faultPC)
	}

	if !h.Csr.McountinhibitCY() {
		h.Csr.RawSet(CsrMcycle, h.Csr.RawGet(CsrMcycle)+1)
	}
	if !h.Csr.McountinhibitIR() {
		h.Csr.RawSet(CsrMinstret, h.Csr.RawGet(CsrMinstret)+1)
	}
	e.Bus.Tick()

	if e.Stats != nil && e.Stats.Enabled && decErr == nil {
		e.Stats.RecordInstruction(inst.Op.String(), faultPC)
		if isBranchOp(inst.Op) {
			e.Stats.RecordBranch(pcSet)
		}
	}
	if e.Trace != nil && e.Trace.Enabled && decErr == nil {
		e.Trace.RecordInstruction(h, faultPC, disassemble(inst))
	}

	if trap != nil {
		h.EnterTrap(faultPC, trap.cause, trap.tval)
		return nil
	}

	if !pcSet {
		h.PC = faultPC + width
	}
	return nil
}

func isBranchOp(op decoder.Op) bool {
	switch op {
	case decoder.OpBeq, decoder.OpBne, decoder.OpBlt, decoder.OpBge, decoder.OpBltu, decoder.OpBgeu:
		return true
	}
	return false
}

// disassemble renders a compact, register-oriented form of in for trace
// output. It is not a full disassembler: operand order follows asm syntax
// but CSR names and immediate formatting are kept minimal.
func disassemble(in decoder.Instruction) string {
	switch in.Op {
	case decoder.OpLUI, decoder.OpAUIPC:
		return fmt.Sprintf("%s x%d, %#x", in.Op, in.Rd, in.Imm)
	case decoder.OpJAL:
		return fmt.Sprintf("%s x%d, %d", in.Op, in.Rd, in.Imm)
	case decoder.OpJALR:
		return fmt.Sprintf("%s x%d, %d(x%d)", in.Op, in.Rd, in.Imm, in.Rs1)
	case decoder.OpBeq, decoder.OpBne, decoder.OpBlt, decoder.OpBge, decoder.OpBltu, decoder.OpBgeu:
		return fmt.Sprintf("%s x%d, x%d, %d", in.Op, in.Rs1, in.Rs2, in.Imm)
	case decoder.OpLB, decoder.OpLH, decoder.OpLW, decoder.OpLD, decoder.OpLBU, decoder.OpLHU, decoder.OpLWU:
		return fmt.Sprintf("%s x%d, %d(x%d)", in.Op, in.Rd, in.Imm, in.Rs1)
	case decoder.OpSB, decoder.OpSH, decoder.OpSW, decoder.OpSD:
		return fmt.Sprintf("%s x%d, %d(x%d)", in.Op, in.Rs2, in.Imm, in.Rs1)
	case decoder.OpCsrrw, decoder.OpCsrrs, decoder.OpCsrrc:
		if in.CsrIsImm {
			return fmt.Sprintf("%s x%d, %#x, %d", in.Op, in.Rd, in.Csr, in.Imm)
		}
		return fmt.Sprintf("%s x%d, %#x, x%d", in.Op, in.Rd, in.Csr, in.Rs1)
	case decoder.OpFence, decoder.OpECall, decoder.OpEBreak, decoder.OpMret, decoder.OpWfi:
		return in.Op.String()
	case decoder.OpAddI, decoder.OpSltI, decoder.OpSltIU, decoder.OpXorI, decoder.OpOrI, decoder.OpAndI,
		decoder.OpSllI, decoder.OpSrlI, decoder.OpSraI, decoder.OpAddIW, decoder.OpSllIW, decoder.OpSrlIW, decoder.OpSraIW:
		return fmt.Sprintf("%s x%d, x%d, %d", in.Op, in.Rd, in.Rs1, in.Imm)
	default:
		return fmt.Sprintf("%s x%d, x%d, x%d", in.Op, in.Rd, in.Rs1, in.Rs2)
	}
}

// Run steps the hart until maxCycles instructions have retired (0 means
// unbounded) or until shouldStop reports the simulation should stop.
func (e *Executor) Run(maxCycles uint64, shouldStop func() bool) error {
	for maxCycles == 0 || e.Hart.Instret < maxCycles {
		if shouldStop != nil && shouldStop() {
			return nil
		}
		if err := e.Step(); err != nil {
			return err
		}
		e.Hart.Instret = e.Hart.Csr.RawGet(CsrMinstret)
		e.Hart.Cycles = e.Hart.Csr.RawGet(CsrMcycle)
		if e.Stats != nil && e.Stats.Enabled {
			e.Stats.TotalCycles = e.Hart.Cycles
		}
	}
	return nil
}

// execute performs the effect of a decoded instruction. pcSet reports
// whether the handler already redirected PC (jumps, taken branches, MRET);
// Step advances PC by the fetch width only when it is false.
func (e *Executor) execute(in decoder.Instruction, pc uint64) (trap *trapSignal, pcSet bool) {
	h, bus := e.Hart, e.Bus

	switch in.Op {
	case decoder.OpLUI:
		execLUI(h, in)
	case decoder.OpAUIPC:
		execAUIPC(h, in, pc)
	case decoder.OpJAL:
		if trap = execJAL(h, in, pc); trap == nil {
			pcSet = true
		}
	case decoder.OpJALR:
		if trap = execJALR(h, in, pc); trap == nil {
			pcSet = true
		}

	case decoder.OpBeq, decoder.OpBne, decoder.OpBlt, decoder.OpBge, decoder.OpBltu, decoder.OpBgeu:
		before := h.PC
		execBranch(h, in, pc)
		pcSet = h.PC != before

	case decoder.OpLB, decoder.OpLH, decoder.OpLW, decoder.OpLD, decoder.OpLBU, decoder.OpLHU, decoder.OpLWU:
		trap = execLoad(h, bus, in, e.Stats)
	case decoder.OpSB, decoder.OpSH, decoder.OpSW, decoder.OpSD:
		trap = execStore(h, bus, in, e.Stats)

	case decoder.OpAddI, decoder.OpSltI, decoder.OpSltIU, decoder.OpXorI, decoder.OpOrI,
		decoder.OpAndI, decoder.OpSllI, decoder.OpSrlI, decoder.OpSraI:
		execImmALU64(h, in)
	case decoder.OpAddIW, decoder.OpSllIW, decoder.OpSrlIW, decoder.OpSraIW:
		execImmALU32(h, in)
	case decoder.OpAdd, decoder.OpSub, decoder.OpSll, decoder.OpSlt, decoder.OpSltU,
		decoder.OpXor, decoder.OpSrl, decoder.OpSra, decoder.OpOr, decoder.OpAnd:
		execRegALU64(h, in)
	case decoder.OpAddW, decoder.OpSubW, decoder.OpSllW, decoder.OpSrlW, decoder.OpSraW:
		execRegALU32(h, in)

	case decoder.OpMul, decoder.OpMulH, decoder.OpMulHU, decoder.OpMulHSU,
		decoder.OpDiv, decoder.OpDivU, decoder.OpRem, decoder.OpRemU:
		execMulDiv64(h, in)
	case decoder.OpMulW, decoder.OpDivW, decoder.OpDivUW, decoder.OpRemW, decoder.OpRemUW:
		execMulDiv32(h, in)

	case decoder.OpLRW, decoder.OpLRD:
		trap = execLR(h, bus, in)
	case decoder.OpSCW, decoder.OpSCD:
		trap = execSC(h, bus, in)
	case decoder.OpAmoSwapW, decoder.OpAmoAddW, decoder.OpAmoXorW, decoder.OpAmoAndW, decoder.OpAmoOrW,
		decoder.OpAmoMinW, decoder.OpAmoMaxW, decoder.OpAmoMinUW, decoder.OpAmoMaxUW,
		decoder.OpAmoSwapD, decoder.OpAmoAddD, decoder.OpAmoXorD, decoder.OpAmoAndD, decoder.OpAmoOrD,
		decoder.OpAmoMinD, decoder.OpAmoMaxD, decoder.OpAmoMinUD, decoder.OpAmoMaxUD:
		trap = execAMO(h, bus, in)

	case decoder.OpFence:
		// no effect: single-hart, in-order interpreter.
	case decoder.OpECall:
		trap = execECall(h)
	case decoder.OpEBreak:
		trap = execEBreak(h, pc)

	case decoder.OpCsrrw, decoder.OpCsrrs, decoder.OpCsrrc:
		trap = execCsr(h, in)

	case decoder.OpMret:
		h.MRET()
		pcSet = true
	case decoder.OpWfi:
		h.Waiting = true

	default:
		trap = &trapSignal{cause: CauseIllegalInstruction, tval: uint64(in.Raw)}
	}
	return trap, pcSet
}
