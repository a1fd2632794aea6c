package vm

import "github.com/rvhart/riscv64/decoder"

// execLoad computes effective address rs1 + imm, reads the named width
// from the bus, and sign- or zero-extends the result into rd. A bus
// LoadFault becomes a LoadAccessFault trap. stats may be nil.
func execLoad(h *Hart, bus *Bus, in decoder.Instruction, stats *PerformanceStatistics) *trapSignal {
	addr := h.GetX(in.Rs1) + uint64(in.Imm)

	var size int
	switch in.Op {
	case decoder.OpLB, decoder.OpLBU:
		size = 1
	case decoder.OpLH, decoder.OpLHU:
		size = 2
	case decoder.OpLW, decoder.OpLWU:
		size = 4
	case decoder.OpLD:
		size = 8
	}

	raw, err := bus.Load(addr, size)
	if err != nil {
		return &trapSignal{cause: CauseLoadAccessFault, tval: 0}
	}
	if stats != nil {
		stats.RecordMemoryRead(uint64(size))
	}

	var value uint64
	switch in.Op {
	case decoder.OpLB:
		value = signExtend8(uint8(raw))
	case decoder.OpLBU:
		value = raw
	case decoder.OpLH:
		value = signExtend16(uint16(raw))
	case decoder.OpLHU:
		value = raw
	case decoder.OpLW:
		value = signExtend32(uint32(raw))
	case decoder.OpLWU:
		value = zeroExtend32(uint32(raw))
	case decoder.OpLD:
		value = raw
	}
	h.SetX(in.Rd, value)
	return nil
}

// execStore computes effective address rs1 + imm and writes the named
// width from rs2. A bus StoreFault becomes a StoreAccessFault trap. stats
// may be nil.
func execStore(h *Hart, bus *Bus, in decoder.Instruction, stats *PerformanceStatistics) *trapSignal {
	addr := h.GetX(in.Rs1) + uint64(in.Imm)
	val := h.GetX(in.Rs2)

	var size int
	switch in.Op {
	case decoder.OpSB:
		size = 1
	case decoder.OpSH:
		size = 2
	case decoder.OpSW:
		size = 4
	case decoder.OpSD:
		size = 8
	}

	if err := bus.Store(addr, size, val); err != nil {
		return &trapSignal{cause: CauseStoreAccessFault, tval: 0}
	}
	if stats != nil {
		stats.RecordMemoryWrite(uint64(size))
	}
	return nil
}
