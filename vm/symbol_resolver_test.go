package vm

import "testing"

func TestSymbolResolver_ExactAndOffsetLookup(t *testing.T) {
	r := NewSymbolResolver(map[string]uint64{
		"main":   RAMBase,
		"tohost": RAMBase + 0x2000,
	})
	name, offset, found := r.ResolveAddress(RAMBase + 8)
	if !found || name != "main" || offset != 8 {
		t.Errorf("got name=%q offset=%d found=%v", name, offset, found)
	}

	addr, ok := r.LookupSymbol("tohost")
	if !ok || addr != RAMBase+0x2000 {
		t.Errorf("LookupSymbol(tohost)=%#x,%v", addr, ok)
	}
}

func TestSymbolResolver_BeforeAnySymbolNotFound(t *testing.T) {
	r := NewSymbolResolver(map[string]uint64{"main": RAMBase + 0x100})
	_, _, found := r.ResolveAddress(RAMBase)
	if found {
		t.Error("expected no symbol before the first known address")
	}
}
