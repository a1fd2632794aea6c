package decoder

import "testing"

func TestRoundTrip_BaseInstructions(t *testing.T) {
	cases := []Instruction{
		{Op: OpAddI, Rd: 5, Rs1: 6, Imm: 42},
		{Op: OpAddI, Rd: 5, Rs1: 6, Imm: -42},
		{Op: OpLUI, Rd: 3, Imm: 0x12345000},
		{Op: OpAUIPC, Rd: 1, Imm: 0x1000},
		{Op: OpJAL, Rd: 1, Imm: 0x7fe},
		{Op: OpJALR, Rd: 1, Rs1: 2, Imm: -4},
		{Op: OpBeq, Rs1: 1, Rs2: 2, Imm: 16},
		{Op: OpBne, Rs1: 1, Rs2: 2, Imm: -16},
		{Op: OpLW, Rd: 3, Rs1: 4, Imm: 8},
		{Op: OpSD, Rs1: 4, Rs2: 5, Imm: -8},
		{Op: OpAdd, Rd: 1, Rs1: 2, Rs2: 3},
		{Op: OpSub, Rd: 1, Rs1: 2, Rs2: 3},
		{Op: OpSllI, Rd: 1, Rs1: 2, Imm: 5},
		{Op: OpSraI, Rd: 1, Rs1: 2, Imm: 5},
		{Op: OpECall},
		{Op: OpEBreak},
		{Op: OpMret},
		{Op: OpWfi},
		{Op: OpFence},
	}

	for _, want := range cases {
		word, ok := Encode(want)
		if !ok {
			t.Fatalf("Encode reported no inverse for %+v", want)
		}
		got, err := Decode32(word)
		if err != nil {
			t.Fatalf("Decode32(%#x) for %+v: %v", word, want, err)
		}
		if got.Op != want.Op || got.Rd != want.Rd || got.Rs1 != want.Rs1 || got.Rs2 != want.Rs2 || got.Imm != want.Imm {
			t.Errorf("round trip mismatch: want %+v, got %+v (word=%#x)", want, got, word)
		}

		word2, _ := Encode(got)
		if word2 != word {
			t.Errorf("re-encoding decoded form did not reproduce word: %#x vs %#x", word2, word)
		}
	}
}
