package vm

import (
	"testing"

	"github.com/rvhart/riscv64/decoder"
)

func TestExecBranch_AllSixComparisons(t *testing.T) {
	cases := []struct {
		op      decoder.Op
		a, b    uint64
		taken   bool
	}{
		{decoder.OpBeq, 5, 5, true},
		{decoder.OpBeq, 5, 6, false},
		{decoder.OpBne, 5, 6, true},
		{decoder.OpBne, 5, 5, false},
		{decoder.OpBlt, ^uint64(0), 1, true},   // -1 < 1 signed
		{decoder.OpBlt, 1, ^uint64(0), false},
		{decoder.OpBge, 1, ^uint64(0), true},
		{decoder.OpBltu, ^uint64(0), 1, false}, // all-ones is huge unsigned
		{decoder.OpBgeu, ^uint64(0), 1, true},
	}
	for _, c := range cases {
		h := NewHart()
		h.SetX(1, c.a)
		h.SetX(2, c.b)
		before := h.PC
		execBranch(h, decoder.Instruction{Op: c.op, Rs1: 1, Rs2: 2, Imm: 16}, before)
		gotTaken := h.PC != before
		if gotTaken != c.taken {
			t.Errorf("%v(%#x,%#x): taken=%v, want %v", c.op, c.a, c.b, gotTaken, c.taken)
		}
	}
}

func TestExecJAL_WritesReturnAddressAndTarget(t *testing.T) {
	h := NewHart()
	pc := uint64(RAMBase)
	trap := execJAL(h, decoder.Instruction{Op: decoder.OpJAL, Rd: 1, Imm: 32}, pc)
	if trap != nil {
		t.Fatalf("unexpected trap: %+v", trap)
	}
	if h.GetX(1) != pc+4 {
		t.Errorf("return address=%#x, want %#x", h.GetX(1), pc+4)
	}
	if h.PC != pc+32 {
		t.Errorf("PC=%#x, want %#x", h.PC, pc+32)
	}
}

func TestExecJAL_CompressedReturnOffsetIsTwo(t *testing.T) {
	h := NewHart()
	pc := uint64(RAMBase)
	execJAL(h, decoder.Instruction{Op: decoder.OpJAL, Rd: 1, Imm: 32, Compressed: true}, pc)
	if h.GetX(1) != pc+2 {
		t.Errorf("return address=%#x, want %#x", h.GetX(1), pc+2)
	}
}

func TestExecJALR_ClearsBitZeroOfTarget(t *testing.T) {
	h := NewHart()
	h.SetX(1, RAMBase+1)
	trap := execJALR(h, decoder.Instruction{Op: decoder.OpJALR, Rd: 0, Rs1: 1, Imm: 0}, RAMBase)
	if trap != nil {
		t.Fatalf("unexpected trap: %+v", trap)
	}
	if h.PC != RAMBase {
		t.Errorf("PC=%#x, want bit 0 cleared to %#x", h.PC, uint64(RAMBase))
	}
}
