package vm

// signExtend32 sign-extends the low 32 bits of v to a full 64-bit value, as
// every *W instruction's result must be before it is written to rd.
func signExtend32(v uint32) uint64 {
	return uint64(int64(int32(v)))
}

// signExtend16 sign-extends a 16-bit load result to 64 bits.
func signExtend16(v uint16) uint64 {
	return uint64(int64(int16(v)))
}

// signExtend8 sign-extends an 8-bit load result to 64 bits.
func signExtend8(v uint8) uint64 {
	return uint64(int64(int8(v)))
}

// zeroExtend32 zero-extends the low 32 bits of v to 64 bits, used by LWU
// and by *W shift/compare operands that read rs1/rs2 as unsigned words.
func zeroExtend32(v uint32) uint64 {
	return uint64(v)
}

// loWord truncates v to its low 32 bits, the input width every *W
// instruction operates on before its result is sign-extended back out.
func loWord(v uint64) uint32 {
	return uint32(v)
}

// asSigned reinterprets v's bits as a signed 64-bit value, for the signed
// comparison and division instructions.
func asSigned(v uint64) int64 {
	return int64(v)
}

// asSigned32 reinterprets the low 32 bits of v as a signed 32-bit value,
// for the *W arithmetic and comparison instructions.
func asSigned32(v uint64) int32 {
	return int32(uint32(v))
}
