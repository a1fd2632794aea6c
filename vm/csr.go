package vm

// CSR addresses recognized by this core. Unlisted indices are "absent" and
// cause the issuing Zicsr instruction to raise IllegalInstruction.
const (
	CsrMstatus       uint16 = 0x300
	CsrMisa          uint16 = 0x301
	CsrMie           uint16 = 0x304
	CsrMtvec         uint16 = 0x305
	CsrMcounteren    uint16 = 0x306
	CsrMcountinhibit uint16 = 0x320
	CsrMscratch      uint16 = 0x340
	CsrMepc          uint16 = 0x341
	CsrMcause        uint16 = 0x342
	CsrMtval         uint16 = 0x343
	CsrMip           uint16 = 0x344
	CsrMenvcfg       uint16 = 0x30A
	CsrMseccfg       uint16 = 0x747
	CsrMcycle        uint16 = 0xB00
	CsrMinstret      uint16 = 0xB02

	CsrCycle   uint16 = 0xC00
	CsrTime    uint16 = 0xC01
	CsrInstret uint16 = 0xC02
)

// mstatusWPRIMask marks the WPRI (reserved) bit positions of mstatus; a
// write forces every one of them to zero.
const mstatusWPRIMask = 0x7fff_ffc0_ff80_0015

// mstatusPinnedZero covers the fields this core hardwires to zero: UBE, VS,
// XS, MPRV, SUM, MXR, TVM, TW, TSR, SXL, SBE and MBE.
const mstatusPinnedZero uint64 = 1<<6 | 0x3<<9 | 0x3<<15 | 1<<17 | 1<<18 | 1<<19 | 1<<20 | 1<<21 | 1<<22 | 0x3<<34 | 1<<36 | 1<<37

const (
	mstatusMIE  = 1 << 3
	mstatusMPIE = 1 << 7
	mstatusSPP  = 1 << 8
	mstatusMPPShift = 11
	mstatusMPPMask  = 0x3 << mstatusMPPShift
	mstatusFSShift  = 13
	mstatusFSMask   = 0x3 << mstatusFSShift
	mstatusUXLShift = 32
	mstatusUXLMask  = uint64(0x3) << mstatusUXLShift
)

// misaReset encodes MXL=2 (64-bit) and extension bits I, M, A, C, U; no F,
// D, or S.
const misaReset uint64 = (uint64(2) << 62) | (1 << ('I' - 'A')) | (1 << ('M' - 'A')) | (1 << ('A' - 'A')) | (1 << ('C' - 'A')) | (1 << ('U' - 'A'))

// legalizer sanitizes a proposed CSR write into a value that satisfies the
// CSR's WARL/WPRI constraints, given the register's current contents.
// Encoding the per-CSR rule as data keeps adding a CSR a one-line change
// instead of a growing conditional chain.
type legalizer func(old, newVal uint64) uint64

func legalizeMstatus(old, newVal uint64) uint64 {
	v := newVal &^ mstatusWPRIMask
	v &^= mstatusSPP | mstatusPinnedZero

	mpp := (v & mstatusMPPMask) >> mstatusMPPShift
	if mpp != 0 && mpp != 0x3 {
		v = (v &^ mstatusMPPMask) | (old & mstatusMPPMask)
	}

	v = (v &^ mstatusUXLMask) | (uint64(2) << mstatusUXLShift)
	v |= mstatusFSMask
	return v
}

func legalizeMtvec(old, newVal uint64) uint64 {
	return newVal &^ 0x3
}

func legalizeMepc(old, newVal uint64) uint64 {
	return newVal &^ 0x1
}

func legalizeMip(old, newVal uint64) uint64 {
	return (old & 0xffff) | (newVal &^ 0xffff)
}

func legalizeMie(old, newVal uint64) uint64 {
	return newVal &^ 0xd555
}

func identityLegalize(old, newVal uint64) uint64 { return newVal }

func readOnlyZero(old, newVal uint64) uint64 { return old }

type csrSlot struct {
	value    uint64
	legalize legalizer
	writable bool
}

// CsrFile is the machine-mode CSR register set. Each entry's write
// behaviour is data (a legalizer function), not a branch in the Zicsr
// dispatch path.
type CsrFile struct {
	slots       map[uint16]*csrSlot
	mtimeSource func() uint64
}

// SetMtimeSource wires the CLINT's live mtime counter into CSR 0xC01
// (`time`), which otherwise has no value of its own to read. A nil source
// (the default) reads as 0.
func (c *CsrFile) SetMtimeSource(source func() uint64) {
	c.mtimeSource = source
}

func (c *CsrFile) mtime() uint64 {
	if c.mtimeSource == nil {
		return 0
	}
	return c.mtimeSource()
}

func (c *CsrFile) Reset() {
	c.slots = map[uint16]*csrSlot{
		CsrMstatus:       {legalize: legalizeMstatus, writable: true},
		CsrMisa:          {value: misaReset, legalize: readOnlyZero, writable: true},
		CsrMie:           {legalize: legalizeMie, writable: true},
		CsrMtvec:         {legalize: legalizeMtvec, writable: true},
		CsrMcounteren:    {legalize: identityLegalize, writable: true},
		CsrMcountinhibit: {legalize: identityLegalize, writable: true},
		CsrMscratch:      {legalize: identityLegalize, writable: true},
		CsrMepc:          {legalize: legalizeMepc, writable: true},
		CsrMcause:        {legalize: identityLegalize, writable: true},
		CsrMtval:         {legalize: identityLegalize, writable: true},
		CsrMip:           {legalize: legalizeMip, writable: true},
		CsrMenvcfg:       {legalize: identityLegalize, writable: true},
		CsrMseccfg:       {legalize: identityLegalize, writable: true},
		CsrMcycle:        {legalize: identityLegalize, writable: true},
		CsrMinstret:      {legalize: identityLegalize, writable: true},
	}
}

// isPerfCounterOrEvent reports the ranges 0xB04..0xB1F and 0x323..0x33F,
// which read as 0 without occupying a slot.
func isPerfCounterOrEvent(index uint16) bool {
	return (index >= 0xB04 && index <= 0xB1F) || (index >= 0x323 && index <= 0x33F)
}

// isMachineInfo reports the read-only identifier range 0xF11..0xF15.
func isMachineInfo(index uint16) bool {
	return index >= 0xF11 && index <= 0xF15
}

// Get implements the read side of the CSR file for the current privilege.
// ok is false for an absent index, which the caller must turn into
// IllegalInstruction.
func (c *CsrFile) Get(index uint16, priv Privilege) (value uint64, ok bool) {
	if priv != PrivilegeMachine {
		return c.getUserView(index)
	}

	if index == CsrMip || index == CsrMie {
		return 0, true
	}
	if index == CsrTime {
		return c.mtime(), true
	}
	if isPerfCounterOrEvent(index) || isMachineInfo(index) {
		return 0, true
	}
	slot, present := c.slots[index]
	if !present {
		return 0, false
	}
	return slot.value, true
}

// getUserView implements the counter-aliasing rules available to User mode,
// gated by mcounteren.
func (c *CsrFile) getUserView(index uint16) (uint64, bool) {
	mcounteren := c.slots[CsrMcounteren].value
	switch {
	case index == CsrCycle:
		if mcounteren&(1<<0) == 0 {
			return 0, false
		}
		return c.slots[CsrMcycle].value, true
	case index == CsrTime:
		if mcounteren&(1<<1) == 0 {
			return 0, false
		}
		return c.mtime(), true
	case index == CsrInstret:
		if mcounteren&(1<<2) == 0 {
			return 0, false
		}
		return c.slots[CsrMinstret].value, true
	case index >= 0xC03 && index <= 0xC1F:
		bit := uint(index - 0xC00)
		if mcounteren&(1<<bit) == 0 {
			return 0, false
		}
		return c.slots[CsrMinstret].value, true
	}
	return 0, false
}

// Set implements the write side of the CSR file. write=false models a
// read-only Zicsr form and always succeeds without effect. ok is false when
// the index is absent or the write is privileged out of reach, which the
// caller turns into IllegalInstruction.
func (c *CsrFile) Set(index uint16, value uint64, write bool, priv Privilege) (ok bool) {
	if !write {
		return true
	}
	if priv != PrivilegeMachine {
		return false
	}
	slot, present := c.slots[index]
	if !present {
		return false
	}
	if !slot.writable {
		return false
	}
	slot.value = slot.legalize(slot.value, value)
	return true
}

// RawGet and RawSet give the interpreter machine-mode-privileged, always-
// present access to a handful of CSRs it manipulates directly (trap entry,
// MRET, counters) without going through the Zicsr legality path.
func (c *CsrFile) RawGet(index uint16) uint64 {
	if slot, ok := c.slots[index]; ok {
		return slot.value
	}
	return 0
}

func (c *CsrFile) RawSet(index uint16, value uint64) {
	if slot, ok := c.slots[index]; ok {
		slot.value = value
	}
}

func (c *CsrFile) MstatusMIE() bool  { return c.RawGet(CsrMstatus)&mstatusMIE != 0 }
func (c *CsrFile) MstatusMPIE() bool { return c.RawGet(CsrMstatus)&mstatusMPIE != 0 }
func (c *CsrFile) MstatusMPP() Privilege {
	mpp := (c.RawGet(CsrMstatus) & mstatusMPPMask) >> mstatusMPPShift
	if mpp == 0x3 {
		return PrivilegeMachine
	}
	return PrivilegeUser
}

func (c *CsrFile) setMstatusBit(mask uint64, set bool) {
	v := c.RawGet(CsrMstatus)
	if set {
		v |= mask
	} else {
		v &^= mask
	}
	c.RawSet(CsrMstatus, v)
}

func (c *CsrFile) SetMstatusMIE(v bool)  { c.setMstatusBit(mstatusMIE, v) }
func (c *CsrFile) SetMstatusMPIE(v bool) { c.setMstatusBit(mstatusMPIE, v) }

func (c *CsrFile) SetMstatusMPP(p Privilege) {
	v := c.RawGet(CsrMstatus) &^ mstatusMPPMask
	if p == PrivilegeMachine {
		v |= mstatusMPPMask
	}
	c.RawSet(CsrMstatus, v)
}

func (c *CsrFile) McountinhibitCY() bool { return c.RawGet(CsrMcountinhibit)&(1<<0) != 0 }
func (c *CsrFile) McountinhibitIR() bool { return c.RawGet(CsrMcountinhibit)&(1<<2) != 0 }
