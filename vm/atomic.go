package vm

import "github.com/rvhart/riscv64/decoder"

// execLR implements LR.W/LR.D: read memory at rs1, sign-extending a word
// result to 64 bits, deposit into rd, and set the reservation on the
// accessed address tagged with the access width.
func execLR(h *Hart, bus *Bus, in decoder.Instruction) *trapSignal {
	addr := h.GetX(in.Rs1)
	width := reservationWord
	size := 4
	if in.Op == decoder.OpLRD {
		width = reservationDouble
		size = 8
	}
	raw, err := bus.Load(addr, size)
	if err != nil {
		return &trapSignal{cause: CauseLoadAccessFault, tval: 0}
	}
	var value uint64
	if size == 4 {
		value = signExtend32(uint32(raw))
	} else {
		value = raw
	}
	h.SetX(in.Rd, value)
	h.Reservation.set(addr, width)
	return nil
}

// execSC implements SC.W/SC.D: the store succeeds only if the reservation
// matches both address and width. rd receives 0 on success, 1 on failure.
func execSC(h *Hart, bus *Bus, in decoder.Instruction) *trapSignal {
	addr := h.GetX(in.Rs1)
	width := reservationWord
	size := 4
	if in.Op == decoder.OpSCD {
		width = reservationDouble
		size = 8
	}
	if !h.Reservation.check(addr, width) {
		h.SetX(in.Rd, 1)
		return nil
	}
	val := h.GetX(in.Rs2)
	if size == 4 {
		val = uint64(loWord(val))
	}
	if err := bus.Store(addr, size, val); err != nil {
		return &trapSignal{cause: CauseStoreAccessFault, tval: 0}
	}
	h.Reservation.clear()
	h.SetX(in.Rd, 0)
	return nil
}

// execAMO implements the AMO*.W/D operators: load-modify-store in one
// step, depositing the pre-modification value (sign-extended for W) into
// rd.
func execAMO(h *Hart, bus *Bus, in decoder.Instruction) *trapSignal {
	addr := h.GetX(in.Rs1)
	size := amoSize(in.Op)

	old, err := bus.Load(addr, size)
	if err != nil {
		return &trapSignal{cause: CauseLoadAccessFault, tval: 0}
	}

	var rdValue, stored uint64
	if size == 4 {
		rdValue = signExtend32(uint32(old))
		stored = uint64(amoCompute32(in.Op, uint32(old), loWord(h.GetX(in.Rs2))))
	} else {
		rdValue = old
		stored = amoCompute64(in.Op, old, h.GetX(in.Rs2))
	}

	if err := bus.Store(addr, size, stored); err != nil {
		return &trapSignal{cause: CauseStoreAccessFault, tval: 0}
	}
	h.SetX(in.Rd, rdValue)
	return nil
}

func amoSize(op decoder.Op) int {
	switch op {
	case decoder.OpAmoSwapD, decoder.OpAmoAddD, decoder.OpAmoXorD, decoder.OpAmoAndD,
		decoder.OpAmoOrD, decoder.OpAmoMinD, decoder.OpAmoMaxD, decoder.OpAmoMinUD, decoder.OpAmoMaxUD:
		return 8
	default:
		return 4
	}
}

func amoCompute32(op decoder.Op, old, operand uint32) uint32 {
	switch op {
	case decoder.OpAmoSwapW:
		return operand
	case decoder.OpAmoAddW:
		return old + operand
	case decoder.OpAmoXorW:
		return old ^ operand
	case decoder.OpAmoAndW:
		return old & operand
	case decoder.OpAmoOrW:
		return old | operand
	case decoder.OpAmoMinW:
		if int32(old) < int32(operand) {
			return old
		}
		return operand
	case decoder.OpAmoMaxW:
		if int32(old) > int32(operand) {
			return old
		}
		return operand
	case decoder.OpAmoMinUW:
		if old < operand {
			return old
		}
		return operand
	case decoder.OpAmoMaxUW:
		if old > operand {
			return old
		}
		return operand
	}
	return old
}

func amoCompute64(op decoder.Op, old, operand uint64) uint64 {
	switch op {
	case decoder.OpAmoSwapD:
		return operand
	case decoder.OpAmoAddD:
		return old + operand
	case decoder.OpAmoXorD:
		return old ^ operand
	case decoder.OpAmoAndD:
		return old & operand
	case decoder.OpAmoOrD:
		return old | operand
	case decoder.OpAmoMinD:
		if asSigned(old) < asSigned(operand) {
			return old
		}
		return operand
	case decoder.OpAmoMaxD:
		if asSigned(old) > asSigned(operand) {
			return old
		}
		return operand
	case decoder.OpAmoMinUD:
		if old < operand {
			return old
		}
		return operand
	case decoder.OpAmoMaxUD:
		if old > operand {
			return old
		}
		return operand
	}
	return old
}
