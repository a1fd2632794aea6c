package vm

import (
	"errors"
	"fmt"

	"github.com/rvhart/riscv64/device"
)

// ErrLoadFault and ErrStoreFault classify a bus access that could not be
// serviced: address outside RAM and outside every registered device, a
// device access that doesn't line up with one of its registers, or one that
// hits a register at the wrong permission (a load against a write-only
// register, a store against a read-only one). The driver turns either into
// the matching access-fault trap.
var (
	ErrLoadFault  = errors.New("load access fault")
	ErrStoreFault = errors.New("store access fault")
)

// Ticker is implemented by devices that advance internal state once per
// retired instruction, such as the CLINT's free-running mtime counter.
type Ticker interface {
	Tick()
}

// Bus is the hart's view of the address space: a single RAM region
// starting at RAMBase, plus an arbitrary number of memory-mapped devices.
// All multi-byte accesses are little-endian, matching RV64's mandated byte
// order.
type Bus struct {
	ram     []byte
	ramBase uint64
	devices []device.Device
	tickers []Ticker
}

// NewBus allocates a RAM region of ramSize bytes based at RAMBase.
func NewBus(ramSize uint64) *Bus {
	return &Bus{
		ram:     make([]byte, ramSize),
		ramBase: RAMBase,
	}
}

// RegisterDevice adds d to the bus's device list. Devices are consulted
// before RAM, in registration order; overlapping regions are a
// configuration error the caller is responsible for avoiding. Devices that
// implement Ticker are also driven once per Bus.Tick call.
func (b *Bus) RegisterDevice(d device.Device) {
	b.devices = append(b.devices, d)
	if t, ok := d.(Ticker); ok {
		b.tickers = append(b.tickers, t)
	}
}

// Tick advances every registered device that implements Ticker. The
// executor calls this once per retired instruction so device-local clocks
// (CLINT mtime) progress at the same rate instret does.
func (b *Bus) Tick() {
	for _, t := range b.tickers {
		t.Tick()
	}
}

func (b *Bus) deviceFor(addr uint64, size int) device.Device {
	for _, d := range b.devices {
		if addr >= d.Base() && addr+uint64(size) <= d.Base()+d.Size() {
			return d
		}
	}
	return nil
}

func (b *Bus) ramOffset(addr uint64, size int) (int, bool) {
	if addr < b.ramBase {
		return 0, false
	}
	off := addr - b.ramBase
	if off+uint64(size) > uint64(len(b.ram)) {
		return 0, false
	}
	return int(off), true
}

// Load reads size bytes (1, 2, 4, or 8) at addr and returns them as an
// unsigned value in the low bits; the caller applies sign extension per the
// instruction's semantics.
func (b *Bus) Load(addr uint64, size int) (uint64, error) {
	if d := b.deviceFor(addr, size); d != nil {
		reg, ok := device.FindRegister(d.Base(), d.Registers(), addr, size)
		if !ok {
			return 0, fmt.Errorf("%w: no register at %#x/%d", ErrLoadFault, addr, size)
		}
		if reg.Perm&device.PermRead == 0 {
			return 0, fmt.Errorf("%w: %s", ErrLoadFault, &device.ErrPermission{Device: fmt.Sprintf("%T", d), Register: reg.Name, Write: false})
		}
		data, err := d.Read(addr, size)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrLoadFault, err)
		}
		return device.DecodeLE(data), nil
	}
	off, ok := b.ramOffset(addr, size)
	if !ok {
		return 0, fmt.Errorf("%w: address %#x", ErrLoadFault, addr)
	}
	var v uint64
	for i := size - 1; i >= 0; i-- {
		v = v<<8 | uint64(b.ram[off+i])
	}
	return v, nil
}

// Store writes the low size bytes of value at addr.
func (b *Bus) Store(addr uint64, size int, value uint64) error {
	if d := b.deviceFor(addr, size); d != nil {
		reg, ok := device.FindRegister(d.Base(), d.Registers(), addr, size)
		if !ok {
			return fmt.Errorf("%w: no register at %#x/%d", ErrStoreFault, addr, size)
		}
		if reg.Perm&device.PermWrite == 0 {
			return fmt.Errorf("%w: %s", ErrStoreFault, &device.ErrPermission{Device: fmt.Sprintf("%T", d), Register: reg.Name, Write: true})
		}
		if err := d.Write(addr, device.EncodeLE(value, size)); err != nil {
			return fmt.Errorf("%w: %s", ErrStoreFault, err)
		}
		return nil
	}
	off, ok := b.ramOffset(addr, size)
	if !ok {
		return fmt.Errorf("%w: address %#x", ErrStoreFault, addr)
	}
	for i := 0; i < size; i++ {
		b.ram[off+i] = byte(value >> (8 * uint(i)))
	}
	return nil
}

// LoadImage copies data into RAM starting at addr, as the ELF loader does
// for each LOAD segment. It bypasses device routing: a load segment never
// targets a device region.
func (b *Bus) LoadImage(addr uint64, data []byte) error {
	if _, ok := b.ramOffset(addr, len(data)); !ok {
		return fmt.Errorf("%w: image at %#x (len %d) does not fit in RAM", ErrStoreFault, addr, len(data))
	}
	start := addr - b.ramBase
	copy(b.ram[start:], data)
	return nil
}
