package vm

import (
	"math"
	"testing"

	"github.com/rvhart/riscv64/decoder"
)

func TestExecMulDiv64_DivByZero(t *testing.T) {
	h := NewHart()
	h.SetX(1, uint64(7))
	h.SetX(2, 0)
	execMulDiv64(h, decoder.Instruction{Op: decoder.OpDiv, Rd: 3, Rs1: 1, Rs2: 2})
	if asSigned(h.GetX(3)) != -1 {
		t.Errorf("DIV by zero = %d, want -1", asSigned(h.GetX(3)))
	}

	execMulDiv64(h, decoder.Instruction{Op: decoder.OpDivU, Rd: 3, Rs1: 1, Rs2: 2})
	if h.GetX(3) != math.MaxUint64 {
		t.Errorf("DIVU by zero = %#x, want all-ones", h.GetX(3))
	}

	execMulDiv64(h, decoder.Instruction{Op: decoder.OpRem, Rd: 3, Rs1: 1, Rs2: 2})
	if h.GetX(3) != 7 {
		t.Errorf("REM by zero = %d, want dividend 7", h.GetX(3))
	}
}

func TestExecMulDiv64_SignedOverflow(t *testing.T) {
	h := NewHart()
	h.SetX(1, uint64(1)<<63) // math.MinInt64
	h.SetX(2, ^uint64(0))    // -1
	execMulDiv64(h, decoder.Instruction{Op: decoder.OpDiv, Rd: 3, Rs1: 1, Rs2: 2})
	if asSigned(h.GetX(3)) != math.MinInt64 {
		t.Errorf("DIV overflow = %d, want INT64_MIN", asSigned(h.GetX(3)))
	}

	execMulDiv64(h, decoder.Instruction{Op: decoder.OpRem, Rd: 3, Rs1: 1, Rs2: 2})
	if h.GetX(3) != 0 {
		t.Errorf("REM overflow = %d, want 0", h.GetX(3))
	}
}

func TestExecMulDiv32_SignedOverflow(t *testing.T) {
	h := NewHart()
	h.SetX(1, signExtend32(0x8000_0000)) // math.MinInt32
	h.SetX(2, signExtend32(0xFFFF_FFFF)) // -1
	execMulDiv32(h, decoder.Instruction{Op: decoder.OpDivW, Rd: 3, Rs1: 1, Rs2: 2})
	if asSigned(h.GetX(3)) != math.MinInt32 {
		t.Errorf("DIVW overflow = %d, want INT32_MIN sign-extended", asSigned(h.GetX(3)))
	}
}

func TestExecMulDiv64_MulHVariants(t *testing.T) {
	h := NewHart()
	h.SetX(1, ^uint64(1)) // -2
	h.SetX(2, uint64(int64(3)))
	execMulDiv64(h, decoder.Instruction{Op: decoder.OpMulH, Rd: 3, Rs1: 1, Rs2: 2})
	if asSigned(h.GetX(3)) != -1 {
		t.Errorf("MULH(-2,3) high = %d, want -1 (product -6 fits low word)", asSigned(h.GetX(3)))
	}
}
