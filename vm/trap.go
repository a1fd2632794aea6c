package vm

// EnterTrap performs the synchronous-exception entry sequence: it latches
// mepc/mcause/mtval, saves the interrupt-enable state into mstatus.MPIE,
// clears mstatus.MIE, raises privilege to Machine, and redirects PC to
// mtvec. faultPC is the address of the instruction that raised; Step
// passes it explicitly and applies the trap before it would advance PC.
func (h *Hart) EnterTrap(faultPC uint64, cause TrapCause, tval uint64) {
	csr := &h.Csr
	csr.RawSet(CsrMepc, faultPC)
	csr.RawSet(CsrMcause, uint64(cause))
	csr.RawSet(CsrMtval, tval)
	csr.SetMstatusMPP(h.Privilege)
	csr.SetMstatusMPIE(csr.MstatusMIE())
	csr.SetMstatusMIE(false)
	h.Privilege = PrivilegeMachine
	h.PC = csr.RawGet(CsrMtvec)
	h.Reservation.clear()
}

// MRET reverses EnterTrap: PC returns to mepc, MIE is restored from MPIE,
// privilege returns to the saved MPP, MPIE is set, and MPP resets to User
// (the only other mode this core recognizes).
func (h *Hart) MRET() {
	csr := &h.Csr
	h.PC = csr.RawGet(CsrMepc)
	csr.SetMstatusMIE(csr.MstatusMPIE())
	h.Privilege = csr.MstatusMPP()
	csr.SetMstatusMPIE(true)
	csr.SetMstatusMPP(PrivilegeUser)
	h.Reservation.clear()
}
