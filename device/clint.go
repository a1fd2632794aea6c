package device

import "sync/atomic"

// Clint register offsets, relative to Base().
const (
	ClintMsipOffset     = 0x0000
	ClintMtimecmpOffset = 0x4000
	ClintMtimeOffset    = 0x8000
)

// Clint is a minimal core-local interruptor: a free-running mtime counter
// and the mtimecmp register that would normally drive a timer interrupt.
// Interrupt delivery is stubbed in this core, so Clint only provides the
// three registers (msip, mtimecmp, mtime) software may read and write; it never raises
// anything itself.
type Clint struct {
	base     uint64
	size     uint64
	mtime    atomic.Uint64
	mtimecmp atomic.Uint64
	msip     atomic.Uint32
}

func NewClint(base, size uint64) *Clint {
	return &Clint{base: base, size: size}
}

func (c *Clint) Base() uint64 { return c.base }
func (c *Clint) Size() uint64 { return c.size }

func (c *Clint) Registers() []Register {
	return []Register{
		{Name: "msip", Offset: ClintMsipOffset, Size: 4, Perm: PermRW},
		{Name: "mtimecmp", Offset: ClintMtimecmpOffset, Size: 8, Perm: PermRW},
		{Name: "mtime", Offset: ClintMtimeOffset, Size: 8, Perm: PermRW},
	}
}

// Tick advances mtime by one, as the driver loop does once per executed
// instruction.
func (c *Clint) Tick() {
	c.mtime.Add(1)
}

// Mtime returns the current free-running timer value. It is safe to call
// concurrently with Tick/Read/Write and is how the CSR file's `time` shadow
// (CSR 0xC01) gets a live value instead of reading a second, unsynchronized
// counter.
func (c *Clint) Mtime() uint64 {
	return c.mtime.Load()
}

func (c *Clint) Read(addr uint64, size int) ([]byte, error) {
	off := addr - c.base
	var v uint64
	switch off {
	case ClintMsipOffset:
		v = uint64(c.msip.Load())
	case ClintMtimecmpOffset:
		v = c.mtimecmp.Load()
	case ClintMtimeOffset:
		v = c.mtime.Load()
	default:
		return nil, &ErrUnsupportedSize{Device: "clint", Size: size}
	}
	return EncodeLE(v, size), nil
}

func (c *Clint) Write(addr uint64, data []byte) error {
	off := addr - c.base
	v := DecodeLE(data)
	switch off {
	case ClintMsipOffset:
		c.msip.Store(uint32(v) & 0x1)
	case ClintMtimecmpOffset:
		c.mtimecmp.Store(v)
	case ClintMtimeOffset:
		c.mtime.Store(v)
	default:
		return &ErrUnsupportedSize{Device: "clint", Size: len(data)}
	}
	return nil
}
