// Package loader reads an RV64 ELF executable and copies its loadable
// segments into a hart's memory bus.
package loader

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"

	"github.com/rvhart/riscv64/vm"
)

// Image is the result of loading an ELF executable: the address the hart
// should start fetching from, and a resolver seeded from the file's symbol
// table for locating compliance-harness symbols like tohost.
type Image struct {
	EntryPoint uint64
	Symbols    *vm.SymbolResolver
}

// Load reads an RV64 little-endian ELF executable from r, copies every
// PT_LOAD segment into bus at its physical address, and returns the entry
// point and a symbol table.
func Load(r io.ReaderAt, bus *vm.Bus) (*Image, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("open elf: %w", err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS64 {
		return nil, fmt.Errorf("unsupported ELF class %v (want ELFCLASS64)", f.Class)
	}
	if f.Data != elf.ELFDATA2LSB {
		return nil, fmt.Errorf("unsupported ELF data encoding %v (want little-endian)", f.Data)
	}
	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("unsupported ELF machine %v (want EM_RISCV)", f.Machine)
	}
	if f.Type != elf.ET_EXEC {
		return nil, fmt.Errorf("unsupported ELF type %v (want ET_EXEC)", f.Type)
	}

	var loaded int
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		if prog.Filesz == 0 {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(data, 0); err != nil {
			return nil, fmt.Errorf("read PT_LOAD segment @%#x: %w", prog.Paddr, err)
		}
		if err := bus.LoadImage(prog.Paddr, data); err != nil {
			return nil, fmt.Errorf("place PT_LOAD segment @%#x: %w", prog.Paddr, err)
		}
		loaded++
	}
	if loaded == 0 {
		return nil, errors.New("ELF executable has no loadable segments")
	}

	symbols := make(map[string]uint64)
	if syms, err := f.Symbols(); err == nil {
		for _, sym := range syms {
			if sym.Name == "" {
				continue
			}
			symbols[sym.Name] = sym.Value
		}
	}

	return &Image{
		EntryPoint: f.Entry,
		Symbols:    vm.NewSymbolResolver(symbols),
	}, nil
}
