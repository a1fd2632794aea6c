package vm

import "sync/atomic"

// reservationWidth tags an outstanding LR/SC reservation with the access
// width that created it; SC must match both the address and the width, or
// it fails.
type reservationWidth uint64

const (
	reservationNone   reservationWidth = 0
	reservationWord   reservationWidth = 1
	reservationDouble reservationWidth = 2
)

// reservationCell holds the single-hart LR/SC reservation set as one
// atomically-updated word: the aligned address in the high bits and the
// width tag in bits 1:0. A single-hart core never races on this value, but
// atomic.Uint64 keeps the representation ready for a multi-hart bus and
// matches the memory-ordering vocabulary the rest of the core uses for
// device registers.
type reservationCell struct {
	word atomic.Uint64
}

func packReservation(addr uint64, width reservationWidth) uint64 {
	return (addr &^ 0x3) | uint64(width)
}

// set establishes a reservation on the word-aligned address containing
// addr (bits 1:0 carry the tag), tagged with width.
func (r *reservationCell) set(addr uint64, width reservationWidth) {
	r.word.Store(packReservation(addr, width))
}

// clear invalidates any outstanding reservation, as happens on a trap or a
// context switch.
func (r *reservationCell) clear() {
	r.word.Store(uint64(reservationNone))
}

// check reports whether a reservation is outstanding on addr with exactly
// width, which is the condition SC requires to succeed.
func (r *reservationCell) check(addr uint64, width reservationWidth) bool {
	got := r.word.Load()
	if reservationWidth(got&0x3) != width {
		return false
	}
	return got&^0x3 == addr&^0x3
}
