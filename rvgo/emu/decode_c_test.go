package emu

import "testing"

// Each compressed word below was hand-assembled bit-by-bit from the RVC
// field layouts in decode_c.go and cross-checked by re-deriving the
// expected fields from the word, since the Go toolchain is unavailable to
// confirm these against `go test` directly.

func TestDecode16CADDI4SPN(t *testing.T) {
	insn := Decode16(0x0080)
	want := Instruction{Op: OpADDI, Size: 2, Rd: 8, Rs1: 2, Imm: 64}
	if insn != want {
		t.Fatalf("C.ADDI4SPN: got %+v, want %+v", insn, want)
	}
}

func TestDecode16CLW(t *testing.T) {
	insn := Decode16(0x4400)
	want := Instruction{Op: OpLW, Size: 2, Rd: 8, Rs1: 8, Imm: 8}
	if insn != want {
		t.Fatalf("C.LW: got %+v, want %+v", insn, want)
	}
}

func TestDecode16CLI(t *testing.T) {
	insn := Decode16(0x428D)
	want := Instruction{Op: OpADDI, Size: 2, Rd: 5, Rs1: 0, Imm: 3}
	if insn != want {
		t.Fatalf("C.LI: got %+v, want %+v", insn, want)
	}
}

func TestDecode16CLUI(t *testing.T) {
	insn := Decode16(0x6085)
	want := Instruction{Op: OpLUI, Size: 2, Rd: 1, Imm: 4096}
	if insn != want {
		t.Fatalf("C.LUI: got %+v, want %+v", insn, want)
	}
}

func TestDecode16CJ(t *testing.T) {
	insn := Decode16(0xA005)
	want := Instruction{Op: OpJAL, Size: 2, Rd: 0, Imm: 32}
	if insn != want {
		t.Fatalf("C.J: got %+v, want %+v", insn, want)
	}
}

func TestDecode16CBEQZ(t *testing.T) {
	insn := Decode16(0xC005)
	want := Instruction{Op: OpBEQ, Size: 2, Rs1: 8, Rs2: 0, Imm: 32}
	if insn != want {
		t.Fatalf("C.BEQZ: got %+v, want %+v", insn, want)
	}
}

func TestDecode16CSLLI(t *testing.T) {
	insn := Decode16(0x0496)
	want := Instruction{Op: OpSLLI, Size: 2, Rd: 9, Rs1: 9, Shamt: 5}
	if insn != want {
		t.Fatalf("C.SLLI: got %+v, want %+v", insn, want)
	}
}

func TestDecode16CMV(t *testing.T) {
	insn := Decode16(0x8192)
	want := Instruction{Op: OpADD, Size: 2, Rd: 3, Rs1: 0, Rs2: 4}
	if insn != want {
		t.Fatalf("C.MV: got %+v, want %+v", insn, want)
	}
}

func TestDecode16CJR(t *testing.T) {
	insn := Decode16(0x8282)
	want := Instruction{Op: OpJALR, Size: 2, Rd: 0, Rs1: 5, Imm: 0}
	if insn != want {
		t.Fatalf("C.JR: got %+v, want %+v", insn, want)
	}
}

func TestDecode16CLWSP(t *testing.T) {
	insn := Decode16(0x4306)
	want := Instruction{Op: OpLW, Size: 2, Rd: 6, Rs1: 2, Imm: 64}
	if insn != want {
		t.Fatalf("C.LWSP: got %+v, want %+v", insn, want)
	}
}

func TestDecode16CSWSP(t *testing.T) {
	insn := Decode16(0xC09E)
	want := Instruction{Op: OpSW, Size: 2, Rs1: 2, Rs2: 7, Imm: 64}
	if insn != want {
		t.Fatalf("C.SWSP: got %+v, want %+v", insn, want)
	}
}

// C.FSDSP is a CSS-format double-width store: its offset uses the same
// split as C.SDSP (off[5:3]=inst[12:10], off[8:6]=inst[9:7]), not the
// byte-shifted split C.SWSP/C.FSWSP would use. A transcription bug once
// swapped in the word-width split here; this pins the correct one down.
func TestDecode16CFSDSP(t *testing.T) {
	insn := Decode16(0xA40A)
	want := Instruction{Op: OpFSD, Size: 2, Rs1: 2, Rs2: 2, Imm: 8}
	if insn != want {
		t.Fatalf("C.FSDSP: got %+v, want %+v", insn, want)
	}
}

// C.ADDI4SPN with an all-zero immediate field is reserved and must decode
// to a null/illegal instruction rather than a no-op addi (decode_c.go's
// explicit nzuimm==0 guard).
func TestDecode16CADDI4SPNZeroIsReserved(t *testing.T) {
	insn := Decode16(0x0000)
	if insn.Op != OpUnknown {
		t.Fatalf("expected reserved all-zero word to decode as unknown, got %+v", insn)
	}
}
