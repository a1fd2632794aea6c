package vm

import (
	"fmt"
	"sort"
)

// SymbolResolver maps ELF symbol addresses to names for trace annotation
// and for locating the harness symbols (tohost, begin_signature,
// end_signature) a compliance test binary exports.
type SymbolResolver struct {
	symbols         map[string]uint64
	addressToSymbol map[uint64]string
	sortedAddresses []uint64
}

// NewSymbolResolver builds a resolver from a name->address table, typically
// every named entry of the ELF symbol table.
func NewSymbolResolver(symbols map[string]uint64) *SymbolResolver {
	if symbols == nil {
		symbols = make(map[string]uint64)
	}

	addressToSymbol := make(map[uint64]string, len(symbols))
	for name, addr := range symbols {
		addressToSymbol[addr] = name
	}

	sortedAddresses := make([]uint64, 0, len(addressToSymbol))
	for addr := range addressToSymbol {
		sortedAddresses = append(sortedAddresses, addr)
	}
	sort.Slice(sortedAddresses, func(i, j int) bool { return sortedAddresses[i] < sortedAddresses[j] })

	return &SymbolResolver{
		symbols:         symbols,
		addressToSymbol: addressToSymbol,
		sortedAddresses: sortedAddresses,
	}
}

// LookupSymbol returns the address of a named symbol, e.g. "tohost".
func (sr *SymbolResolver) LookupSymbol(name string) (uint64, bool) {
	addr, ok := sr.symbols[name]
	return addr, ok
}

// ResolveAddress finds the nearest symbol at or before address and the
// offset into it, for annotating a trace line.
func (sr *SymbolResolver) ResolveAddress(address uint64) (name string, offset uint64, found bool) {
	if name, ok := sr.addressToSymbol[address]; ok {
		return name, 0, true
	}
	if len(sr.sortedAddresses) == 0 {
		return "", 0, false
	}
	idx := sort.Search(len(sr.sortedAddresses), func(i int) bool {
		return sr.sortedAddresses[i] > address
	})
	if idx == 0 {
		return "", 0, false
	}
	nearest := sr.sortedAddresses[idx-1]
	return sr.addressToSymbol[nearest], address - nearest, true
}

// FormatAddress renders "symbol+offset (0x...)" when a symbol is known, or
// the bare hex address otherwise.
func (sr *SymbolResolver) FormatAddress(address uint64) string {
	name, offset, found := sr.ResolveAddress(address)
	if !found {
		return fmt.Sprintf("0x%016x", address)
	}
	if offset == 0 {
		return fmt.Sprintf("%s (0x%016x)", name, address)
	}
	return fmt.Sprintf("%s+%d (0x%016x)", name, offset, address)
}
