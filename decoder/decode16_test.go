package decoder

import "testing"

func TestDecode16_Addi(t *testing.T) {
	// c.addi x10, 1 (0x0505): rd/rs1=10 -> 01010, imm bit5=0, imm[4:0]=00001
	in, err := Decode16(0x0505)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if in.Op != OpAddI || in.Rd != 10 || in.Rs1 != 10 || in.Imm != 1 {
		t.Errorf("got %+v", in)
	}
}

func TestDecode16_IsCompressed(t *testing.T) {
	if !IsCompressed(0x0505) {
		t.Error("expected 0x0505 to be compressed")
	}
	if IsCompressed(0xFFFF) {
		t.Error("low bits 11 must not be classified as compressed")
	}
}

func TestDecode16_AllZeroReserved(t *testing.T) {
	_, err := Decode16(0)
	if err == nil {
		t.Fatal("expected decode error for all-zero word")
	}
}

func TestDecode16_CMV(t *testing.T) {
	// c.mv x5, x6: funct3(15:13)=100, bit12=0, rd=00101, rs2=00110, quadrant=10
	half := uint16(0x4)<<13 | uint16(5)<<7 | uint16(6)<<2 | 0x2
	in, err := Decode16(half)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpAdd || in.Rd != 5 || in.Rs1 != 0 || in.Rs2 != 6 {
		t.Errorf("got %+v", in)
	}
}

func TestDecode16_CJR(t *testing.T) {
	// c.jr x5: funct3=100, bit12=0, rd=00101, rs2=00000, quadrant=10
	half := uint16(0x4)<<13 | uint16(5)<<7 | 0x2
	in, err := Decode16(half)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpJALR || in.Rd != 0 || in.Rs1 != 5 || !in.Compressed {
		t.Errorf("got %+v", in)
	}
}

func TestDecode16_CJALR(t *testing.T) {
	// c.jalr x5: funct3=100, bit12=1, rd=00101, rs2=00000, quadrant=10
	half := uint16(0x4)<<13 | uint16(1)<<12 | uint16(5)<<7 | 0x2
	in, err := Decode16(half)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpJALR || in.Rd != 1 || in.Rs1 != 5 || !in.Compressed {
		t.Errorf("got %+v", in)
	}
}

func TestDecode16_CEBreak(t *testing.T) {
	half := uint16(0x4)<<13 | uint16(1)<<12 | 0x2
	in, err := Decode16(half)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpEBreak {
		t.Errorf("got %+v", in)
	}
}

func TestDecode16_CSrliShamtBit5FromBit12(t *testing.T) {
	// c.srli x8, 32: quadrant=01 funct3=100, op-select(11:10)=00, rd'=x8,
	// shamt[5]=bit12=1, shamt[4:0]=0 -> shamt=32.
	half := uint16(0x4)<<13 | uint16(1)<<12 | uint16(0x1)
	in, err := Decode16(half)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpSrlI || in.Rd != 8 || in.Rs1 != 8 || in.Imm != 32 {
		t.Errorf("got %+v, want c.srli x8, 32", in)
	}
}

func TestDecode16_CSraiShamtBit5FromBit12(t *testing.T) {
	// c.srai x8, 32: same as above with op-select(11:10)=01.
	half := uint16(0x4)<<13 | uint16(1)<<12 | uint16(0x1)<<10 | uint16(0x1)
	in, err := Decode16(half)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpSraI || in.Rd != 8 || in.Rs1 != 8 || in.Imm != 32 {
		t.Errorf("got %+v, want c.srai x8, 32", in)
	}
}

func TestDecode16_CAndiSignExtends(t *testing.T) {
	// c.andi x8, -1: op-select(11:10)=10, bit12=1 (sign), imm[4:0]=0x1f.
	half := uint16(0x4)<<13 | uint16(1)<<12 | uint16(0x2)<<10 | uint16(0x1f)<<2 | uint16(0x1)
	in, err := Decode16(half)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpAndI || in.Rd != 8 || in.Rs1 != 8 || in.Imm != -1 {
		t.Errorf("got %+v, want c.andi x8, -1", in)
	}
}

func TestDecode16_CSub(t *testing.T) {
	half := uint16(0x4)<<13 | uint16(0x3)<<10 | uint16(0x1)<<2 | uint16(0x1)
	in, err := Decode16(half)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpSub || in.Rd != 8 || in.Rs1 != 8 || in.Rs2 != 9 {
		t.Errorf("got %+v, want c.sub x8, x8, x9", in)
	}
}

func TestDecode16_CXor(t *testing.T) {
	half := uint16(0x4)<<13 | uint16(0x3)<<10 | uint16(0x1)<<5 | uint16(0x1)<<2 | uint16(0x1)
	in, err := Decode16(half)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpXor || in.Rd != 8 || in.Rs1 != 8 || in.Rs2 != 9 {
		t.Errorf("got %+v, want c.xor x8, x8, x9", in)
	}
}

func TestDecode16_COr(t *testing.T) {
	half := uint16(0x4)<<13 | uint16(0x3)<<10 | uint16(0x2)<<5 | uint16(0x1)<<2 | uint16(0x1)
	in, err := Decode16(half)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpOr || in.Rd != 8 || in.Rs1 != 8 || in.Rs2 != 9 {
		t.Errorf("got %+v, want c.or x8, x8, x9", in)
	}
}

func TestDecode16_CAnd(t *testing.T) {
	half := uint16(0x4)<<13 | uint16(0x3)<<10 | uint16(0x3)<<5 | uint16(0x1)<<2 | uint16(0x1)
	in, err := Decode16(half)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpAnd || in.Rd != 8 || in.Rs1 != 8 || in.Rs2 != 9 {
		t.Errorf("got %+v, want c.and x8, x8, x9", in)
	}
}

func TestDecode16_CLiEncodesImmediate(t *testing.T) {
	// c.li x10, -1: funct3=010 quadrant=01, imm bit5=1 (bit12), imm[4:0]=all ones
	half := uint16(0x2)<<13 | uint16(1)<<12 | uint16(10)<<7 | uint16(0x1f)<<2 | 0x1
	in, err := Decode16(half)
	if err != nil {
		t.Fatal(err)
	}
	if in.Op != OpAddI || in.Rd != 10 || in.Rs1 != 0 || in.Imm != -1 {
		t.Errorf("got %+v", in)
	}
}
