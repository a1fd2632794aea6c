package vm

import (
	"bytes"
	"strings"
	"testing"
)

func TestExecutionTrace_RecordsOnlyChangedRegisters(t *testing.T) {
	var buf bytes.Buffer
	tr := NewExecutionTrace(&buf)
	h := NewHart()
	h.SetX(5, 42)

	tr.RecordInstruction(h, RAMBase, "addi x5, x0, 42")
	if err := tr.Flush(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "x5=") {
		t.Errorf("expected x5 change in trace, got %q", out)
	}
}

func TestExecutionTrace_RespectsMaxEntries(t *testing.T) {
	tr := NewExecutionTrace(nil)
	tr.MaxEntries = 1
	h := NewHart()
	tr.RecordInstruction(h, RAMBase, "nop")
	tr.RecordInstruction(h, RAMBase+4, "nop")
	if len(tr.GetEntries()) != 1 {
		t.Errorf("got %d entries, want 1", len(tr.GetEntries()))
	}
}

func TestPerformanceStatistics_TracksTopInstructions(t *testing.T) {
	s := NewPerformanceStatistics()
	s.Start()
	s.RecordInstruction("addi", RAMBase)
	s.RecordInstruction("addi", RAMBase+4)
	s.RecordInstruction("jal", RAMBase+8)

	top := s.GetTopInstructions(1)
	if len(top) != 1 || top[0].Mnemonic != "addi" || top[0].Count != 2 {
		t.Errorf("got %+v", top)
	}
}

func TestPerformanceStatistics_ExportJSON(t *testing.T) {
	s := NewPerformanceStatistics()
	s.Start()
	s.RecordInstruction("addi", RAMBase)
	var buf bytes.Buffer
	if err := s.ExportJSON(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "total_instructions") {
		t.Errorf("missing expected field in JSON output: %s", buf.String())
	}
}
