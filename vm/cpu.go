package vm

// Hart represents the architectural state of a single RISC-V hardware
// thread: its integer registers, program counter, privilege level, and the
// LR/SC reservation cell.
type Hart struct {
	// X holds the 32 integer registers. X[0] is architecturally zero; it is
	// forced back to zero before each instruction rather than gated on
	// every write, per the spec's observation that this keeps the
	// interpreter branch-free.
	X [RegisterCount]uint64

	PC uint64

	Privilege Privilege

	// Waiting is set by WFI and cleared by the next interrupt. Interrupt
	// delivery is stubbed in this core, so WFI is effectively a hint.
	Waiting bool

	// Reservation encodes the LR/SC reservation set: bits 1:0 are a width
	// tag (0=none, 1=word, 2=doubleword), and the remaining bits hold the
	// aligned reservation address. See reservation.go.
	Reservation reservationCell

	// Cycles and Instret are copies of mcycle/minstret that Run refreshes
	// after each Step; the live counters are the CSR file's slots.
	Cycles  uint64
	Instret uint64

	Csr CsrFile
}

// NewHart returns a Hart with all registers zeroed, privilege Machine, and
// a CSR file at its reset values.
func NewHart() *Hart {
	h := &Hart{
		Privilege: PrivilegeMachine,
	}
	h.Csr.Reset()
	return h
}

// Reset returns the hart to its power-on state, preserving no register or
// CSR contents.
func (h *Hart) Reset() {
	h.X = [RegisterCount]uint64{}
	h.PC = 0
	h.Privilege = PrivilegeMachine
	h.Waiting = false
	h.Reservation.clear()
	h.Cycles = 0
	h.Instret = 0
	h.Csr.Reset()
}

// GetX returns the value of integer register i. Register 0 always reads as
// zero.
func (h *Hart) GetX(i uint32) uint64 {
	if i == 0 {
		return 0
	}
	return h.X[i]
}

// SetX writes the value of integer register i. Writes to register 0 are
// permitted (the architecture allows them) but have no observable effect,
// since ForceZero runs before the next instruction reads it.
func (h *Hart) SetX(i uint32, v uint64) {
	h.X[i] = v
}

// ForceZero re-establishes the x0-is-zero invariant. The cycle driver calls
// this before fetching each instruction.
func (h *Hart) ForceZero() {
	h.X[0] = 0
}
