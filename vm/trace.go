package vm

import (
	"fmt"
	"io"
	"strings"
)

// TraceEntry is a single recorded instruction execution.
type TraceEntry struct {
	Sequence        uint64
	PC              uint64
	Disassembly     string
	RegisterChanges map[string]uint64
	CsrChanges      map[string]uint64
}

// ExecutionTrace records a bounded, filterable log of instruction
// execution for offline inspection. It only ever observes hart state after
// a Step; it never influences it.
type ExecutionTrace struct {
	Enabled     bool
	Writer      io.Writer
	FilterRegs  map[string]bool
	IncludeCSRs bool
	MaxEntries  int

	entries       []TraceEntry
	lastRegs      map[string]uint64
	lastCsrs      map[string]uint64
}

func NewExecutionTrace(writer io.Writer) *ExecutionTrace {
	return &ExecutionTrace{
		Enabled:    true,
		Writer:     writer,
		FilterRegs: make(map[string]bool),
		MaxEntries: 100000,
		entries:    make([]TraceEntry, 0, 1000),
		lastRegs:   make(map[string]uint64),
		lastCsrs:   make(map[string]uint64),
	}
}

// SetFilterRegisters restricts change tracking to the named registers
// (e.g. "x1", "x2", "pc"); an empty list tracks everything.
func (t *ExecutionTrace) SetFilterRegisters(regs []string) {
	t.FilterRegs = make(map[string]bool, len(regs))
	for _, r := range regs {
		t.FilterRegs[strings.ToLower(r)] = true
	}
}

var traceCsrNames = map[uint16]string{
	CsrMstatus: "mstatus",
	CsrMepc:    "mepc",
	CsrMcause:  "mcause",
	CsrMtval:   "mtval",
}

// RecordInstruction appends a trace entry for the instruction that just
// retired at faultPC, diffing the register file and (if enabled) the CSRs
// against the last recorded snapshot.
func (t *ExecutionTrace) RecordInstruction(h *Hart, faultPC uint64, disasm string) {
	if !t.Enabled {
		return
	}
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}

	entry := TraceEntry{
		Sequence:        h.Csr.RawGet(CsrMinstret),
		PC:              faultPC,
		Disassembly:     disasm,
		RegisterChanges: make(map[string]uint64),
	}

	for i := 0; i < RegisterCount; i++ {
		name := fmt.Sprintf("x%d", i)
		if len(t.FilterRegs) > 0 && !t.FilterRegs[name] {
			continue
		}
		v := h.GetX(uint32(i))
		if old, ok := t.lastRegs[name]; !ok || old != v {
			entry.RegisterChanges[name] = v
			t.lastRegs[name] = v
		}
	}
	if len(t.FilterRegs) == 0 || t.FilterRegs["pc"] {
		if old, ok := t.lastRegs["pc"]; !ok || old != h.PC {
			entry.RegisterChanges["pc"] = h.PC
			t.lastRegs["pc"] = h.PC
		}
	}

	if t.IncludeCSRs {
		entry.CsrChanges = make(map[string]uint64)
		for idx, name := range traceCsrNames {
			v := h.Csr.RawGet(idx)
			if old, ok := t.lastCsrs[name]; !ok || old != v {
				entry.CsrChanges[name] = v
				t.lastCsrs[name] = v
			}
		}
	}

	t.entries = append(t.entries, entry)
}

// Flush writes every recorded entry to Writer and returns the first error
// encountered.
func (t *ExecutionTrace) Flush() error {
	if t.Writer == nil {
		return nil
	}
	for _, entry := range t.entries {
		if err := t.writeEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

func (t *ExecutionTrace) writeEntry(entry TraceEntry) error {
	line := fmt.Sprintf("[%08d] 0x%016x: %-32s", entry.Sequence, entry.PC, entry.Disassembly)

	if len(entry.RegisterChanges) > 0 {
		changes := make([]string, 0, len(entry.RegisterChanges))
		for name, value := range entry.RegisterChanges {
			changes = append(changes, fmt.Sprintf("%s=%#016x", name, value))
		}
		line += " | " + strings.Join(changes, " ")
	} else {
		line += " | (no changes)"
	}

	if len(entry.CsrChanges) > 0 {
		changes := make([]string, 0, len(entry.CsrChanges))
		for name, value := range entry.CsrChanges {
			changes = append(changes, fmt.Sprintf("%s=%#016x", name, value))
		}
		line += " | " + strings.Join(changes, " ")
	}

	line += "\n"
	_, err := t.Writer.Write([]byte(line))
	return err
}

func (t *ExecutionTrace) GetEntries() []TraceEntry { return t.entries }

func (t *ExecutionTrace) Clear() {
	t.entries = t.entries[:0]
	t.lastRegs = make(map[string]uint64)
	t.lastCsrs = make(map[string]uint64)
}
