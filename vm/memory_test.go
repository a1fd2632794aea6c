package vm

import (
	"testing"

	"github.com/rvhart/riscv64/device"
)

type fakeRWDevice struct {
	base uint64
	val  uint64
}

func (f *fakeRWDevice) Base() uint64 { return f.base }
func (f *fakeRWDevice) Size() uint64 { return 8 }
func (f *fakeRWDevice) Registers() []device.Register {
	return []device.Register{{Name: "v", Offset: 0, Size: 8, Perm: device.PermRW}}
}
func (f *fakeRWDevice) Read(addr uint64, size int) ([]byte, error) {
	return device.EncodeLE(f.val, size), nil
}
func (f *fakeRWDevice) Write(addr uint64, data []byte) error {
	f.val = device.DecodeLE(data)
	return nil
}

type fakeWriteOnlyDevice struct {
	base uint64
}

func (f *fakeWriteOnlyDevice) Base() uint64 { return f.base }
func (f *fakeWriteOnlyDevice) Size() uint64 { return 8 }
func (f *fakeWriteOnlyDevice) Registers() []device.Register {
	return []device.Register{{Name: "w", Offset: 0, Size: 1, Perm: device.PermWrite}}
}
func (f *fakeWriteOnlyDevice) Read(addr uint64, size int) ([]byte, error) {
	return nil, &device.ErrPermission{Device: "fake", Register: "w", Write: false}
}
func (f *fakeWriteOnlyDevice) Write(addr uint64, data []byte) error { return nil }

func TestBus_DeviceRoundTripsThroughRegisterTable(t *testing.T) {
	b := NewBus(4096)
	d := &fakeRWDevice{base: 0x1000_0000}
	b.RegisterDevice(d)

	if err := b.Store(0x1000_0000, 8, 0xCAFEBABE); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := b.Load(0x1000_0000, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0xCAFEBABE {
		t.Errorf("got %#x, want 0xCAFEBABE", got)
	}
}

func TestBus_LoadAgainstWriteOnlyRegisterFaults(t *testing.T) {
	b := NewBus(4096)
	b.RegisterDevice(&fakeWriteOnlyDevice{base: 0x1000_0000})

	if _, err := b.Load(0x1000_0000, 1); err == nil {
		t.Fatal("expected load against write-only register to fault")
	}
}

func TestBus_DeviceAccessAtWrongWidthFaults(t *testing.T) {
	b := NewBus(4096)
	b.RegisterDevice(&fakeRWDevice{base: 0x1000_0000})

	if _, err := b.Load(0x1000_0000, 4); err == nil {
		t.Fatal("expected 4-byte load against an 8-byte-only register to fault")
	}
}

func TestBus_StoreLoadRoundTrip(t *testing.T) {
	b := NewBus(4096)
	if err := b.Store(RAMBase+8, 8, 0x0102030405060708); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := b.Load(RAMBase+8, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0x0102030405060708 {
		t.Errorf("got %#x", got)
	}
}

func TestBus_LoadOutOfRangeFaults(t *testing.T) {
	b := NewBus(4096)
	_, err := b.Load(RAMBase+1<<20, 4)
	if err == nil {
		t.Fatal("expected load fault")
	}
}

func TestBus_StoreBelowRAMBaseFaults(t *testing.T) {
	b := NewBus(4096)
	if err := b.Store(0, 4, 1); err == nil {
		t.Fatal("expected store fault for address below RAM base")
	}
}

func TestBus_LoadImagePlacesBytes(t *testing.T) {
	b := NewBus(4096)
	if err := b.LoadImage(RAMBase, []byte{0xAA, 0xBB, 0xCC}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := b.Load(RAMBase, 1)
	if got != 0xAA {
		t.Errorf("got %#x", got)
	}
}
