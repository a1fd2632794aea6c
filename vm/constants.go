package vm

// Memory map
const (
	RAMBase = 0x8000_0000

	ClintBase = 0x0200_0000
	ClintSize = 0x0000_c000
)

// Privilege levels. Supervisor mode and above are out of scope; the hart is
// architecturally never in any state other than these two.
type Privilege int

const (
	PrivilegeUser Privilege = iota
	PrivilegeMachine
)

// Trap causes, as stored in mcause for synchronous exceptions.
type TrapCause uint64

const (
	CauseInstrAddrMisaligned TrapCause = 0
	CauseInstrAccessFault    TrapCause = 1
	CauseIllegalInstruction  TrapCause = 2
	CauseBreakpoint          TrapCause = 3
	CauseLoadAccessFault     TrapCause = 5
	CauseStoreAccessFault    TrapCause = 7
	CauseECallU              TrapCause = 8
	CauseECallM              TrapCause = 11
)

// RegisterCount is the number of general-purpose integer registers,
// including the architecturally-zero x0.
const RegisterCount = 32

// DefaultMaxCycles is the default instruction limit: zero, which Run treats
// as unbounded.
const DefaultMaxCycles = 0
