package vm

import (
	"math"
	"math/bits"

	"github.com/rvhart/riscv64/decoder"
)

// execMulDiv64 covers the 64-bit M-extension operations. DIV/REM follow
// the ISA's divide-by-zero and signed-overflow special cases rather than
// trapping.
func execMulDiv64(h *Hart, in decoder.Instruction) {
	a, b := h.GetX(in.Rs1), h.GetX(in.Rs2)
	var result uint64
	switch in.Op {
	case decoder.OpMul:
		result = a * b
	case decoder.OpMulH:
		result = signedMulHigh(asSigned(a), asSigned(b))
	case decoder.OpMulHU:
		hi, _ := bits.Mul64(a, b)
		result = hi
	case decoder.OpMulHSU:
		result = signedUnsignedMulHigh(asSigned(a), b)
	case decoder.OpDiv:
		result = uint64(sdiv64(asSigned(a), asSigned(b)))
	case decoder.OpDivU:
		result = udiv64(a, b)
	case decoder.OpRem:
		result = uint64(srem64(asSigned(a), asSigned(b)))
	case decoder.OpRemU:
		result = urem64(a, b)
	}
	h.SetX(in.Rd, result)
}

// execMulDiv32 covers the word-width M-extension forms, which operate on
// the low 32 bits of each operand and sign-extend their result.
func execMulDiv32(h *Hart, in decoder.Instruction) {
	a, b := asSigned32(h.GetX(in.Rs1)), asSigned32(h.GetX(in.Rs2))
	var result int32
	switch in.Op {
	case decoder.OpMulW:
		result = a * b
	case decoder.OpDivW:
		result = sdiv32(a, b)
	case decoder.OpDivUW:
		result = int32(udiv32(uint32(a), uint32(b)))
	case decoder.OpRemW:
		result = srem32(a, b)
	case decoder.OpRemUW:
		result = int32(urem32(uint32(a), uint32(b)))
	}
	h.SetX(in.Rd, signExtend32(uint32(result)))
}

func signedMulHigh(a, b int64) uint64 {
	hi, _ := bits.Mul64(uint64(a), uint64(b))
	// Correct the unsigned high product for the sign of each operand.
	if a < 0 {
		hi -= uint64(b)
	}
	if b < 0 {
		hi -= uint64(a)
	}
	return hi
}

func signedUnsignedMulHigh(a int64, b uint64) uint64 {
	hi, _ := bits.Mul64(uint64(a), b)
	if a < 0 {
		hi -= b
	}
	return hi
}

func sdiv64(a, b int64) int64 {
	if b == 0 {
		return -1
	}
	if a == math.MinInt64 && b == -1 {
		return math.MinInt64
	}
	return a / b
}

func udiv64(a, b uint64) uint64 {
	if b == 0 {
		return math.MaxUint64
	}
	return a / b
}

func srem64(a, b int64) int64 {
	if b == 0 {
		return a
	}
	if a == math.MinInt64 && b == -1 {
		return 0
	}
	return a % b
}

func urem64(a, b uint64) uint64 {
	if b == 0 {
		return a
	}
	return a % b
}

func sdiv32(a, b int32) int32 {
	if b == 0 {
		return -1
	}
	if a == math.MinInt32 && b == -1 {
		return math.MinInt32
	}
	return a / b
}

func udiv32(a, b uint32) uint32 {
	if b == 0 {
		return math.MaxUint32
	}
	return a / b
}

func srem32(a, b int32) int32 {
	if b == 0 {
		return a
	}
	if a == math.MinInt32 && b == -1 {
		return 0
	}
	return a % b
}

func urem32(a, b uint32) uint32 {
	if b == 0 {
		return a
	}
	return a % b
}
