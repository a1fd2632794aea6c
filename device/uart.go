package device

import "io"

// UartTxOffset is the single write-only transmit register offset used by
// guest programs for character output, in the style of a 16550's THR.
const UartTxOffset = 0x00

// Uart is a one-register, write-only console device: writing a byte to its
// transmit register copies that byte to Out. The register has no read
// semantics, so a load against it is rejected by its Registers() entry
// before Read is ever reached.
type Uart struct {
	base uint64
	size uint64
	Out  io.Writer
}

func NewUart(base uint64, out io.Writer) *Uart {
	return &Uart{base: base, size: 0x8, Out: out}
}

func (u *Uart) Base() uint64 { return u.base }
func (u *Uart) Size() uint64 { return u.size }

func (u *Uart) Registers() []Register {
	return []Register{
		{Name: "tx", Offset: UartTxOffset, Size: 1, Perm: PermWrite},
	}
}

// Read is unreachable in normal operation: tx is the device's only register
// and carries PermWrite alone, so the bus rejects every load before calling
// this. It exists to satisfy the Device interface.
func (u *Uart) Read(addr uint64, size int) ([]byte, error) {
	return nil, &ErrPermission{Device: "uart", Register: "tx", Write: false}
}

func (u *Uart) Write(addr uint64, data []byte) error {
	if addr-u.base != UartTxOffset {
		return &ErrUnsupportedSize{Device: "uart", Size: len(data)}
	}
	_, err := u.Out.Write(data[:1])
	return err
}
