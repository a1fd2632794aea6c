package device

// HostExit is a single read/write register test harnesses use to end a
// simulation from inside the guest: writing a nonzero value requests exit
// with that value as the code. A compliance-test binary typically writes
// (test_number << 1) | 1 on failure, or 1 on success.
type HostExit struct {
	base     uint64
	size     uint64
	value    uint64
	Exited   bool
	ExitCode uint64
}

func NewHostExit(base uint64) *HostExit {
	return &HostExit{base: base, size: 0x8}
}

func (h *HostExit) Base() uint64 { return h.base }
func (h *HostExit) Size() uint64 { return h.size }

func (h *HostExit) Registers() []Register {
	return []Register{
		{Name: "exit", Offset: 0, Size: 8, Perm: PermRW},
	}
}

func (h *HostExit) Read(addr uint64, size int) ([]byte, error) {
	if addr-h.base != 0 {
		return nil, &ErrUnsupportedSize{Device: "hostexit", Size: size}
	}
	return EncodeLE(h.value, size), nil
}

func (h *HostExit) Write(addr uint64, data []byte) error {
	if addr-h.base != 0 {
		return &ErrUnsupportedSize{Device: "hostexit", Size: len(data)}
	}
	v := DecodeLE(data)
	h.value = v
	if v != 0 {
		h.Exited = true
		h.ExitCode = v
	}
	return nil
}
