package emu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecodeIsPure checks invariant 4 (spec.md §8): equal words decode to
// equal disassembly, independent of any external state.
func TestDecodeIsPure(t *testing.T) {
	words32 := []uint32{0x00000033, 0x00c58633, 0x40000033}
	for _, w := range words32 {
		a := Decode32(w).Disasm()
		b := Decode32(w).Disasm()
		require.Equal(t, a, b)
	}
	words16 := []uint16{0x0001, 0x4505}
	for _, w := range words16 {
		require.Equal(t, Decode16(w).Disasm(), Decode16(w).Disasm())
	}
}

func TestDecode32LuiAddi(t *testing.T) {
	// lui x5, 0x12345
	lui := Decode32(0x123452B7)
	require.Equal(t, OpLUI, lui.Op)
	require.EqualValues(t, 5, lui.Rd)
	require.EqualValues(t, 0x12345000, lui.Imm)

	// addi x5, x5, 0x67
	addi := Decode32(0x06728293)
	require.Equal(t, OpADDI, addi.Op)
	require.EqualValues(t, 5, addi.Rd)
	require.EqualValues(t, 5, addi.Rs1)
	require.EqualValues(t, 0x67, addi.Imm)
}

func TestDecode32BranchImmSignExtends(t *testing.T) {
	// beq x1, x2, +8
	insn := Decode32(0x00208463)
	require.Equal(t, OpBEQ, insn.Op)
	require.EqualValues(t, 1, insn.Rs1)
	require.EqualValues(t, 2, insn.Rs2)
	require.EqualValues(t, 8, insn.Imm)
}

func TestDecode32UnknownOpcodeReturnsNullInstruction(t *testing.T) {
	insn := Decode32(0x0000007F) // opcode 0x7f is not assigned
	require.Equal(t, OpUnknown, insn.Op)
	require.EqualValues(t, 4, insn.Size)
}

// TestDecode32OpFPOutOfRangeSelectorsDoNotPanic pins down the OP-FP
// decode paths that index a small lookup array by rs2 or funct3: a
// malformed word whose selector falls outside the array must decode to
// a null instruction (spec.md §4.3), not panic (spec.md §7).
func TestDecode32OpFPOutOfRangeSelectorsDoNotPanic(t *testing.T) {
	// funct7=0x60 (FCVT.W.S family), rs2=31 is not one of the 4 defined
	// conversion targets.
	fcvt := Decode32(0xC1F00053)
	require.Equal(t, OpUnknown, fcvt.Op)

	// funct7=0x10 (FSGNJ.S family), funct3=7 is not one of the 3 defined
	// sign-injection variants.
	fsgnj := Decode32(0x20007053)
	require.Equal(t, OpUnknown, fsgnj.Op)

	// funct7=0x50 (compare family), funct3=7 is not one of FLE/FLT/FEQ.
	fcmp := Decode32(0xA0007053)
	require.Equal(t, OpUnknown, fcmp.Op)
}

func TestDecode32AMOADDW(t *testing.T) {
	// amoadd.w x3, x2, (x1), no aq/rl
	word := uint32(0x0020A1AF)
	insn := Decode32(word)
	require.Equal(t, OpAMOADDW, insn.Op)
	require.EqualValues(t, 3, insn.Rd)
	require.EqualValues(t, 1, insn.Rs1)
	require.EqualValues(t, 2, insn.Rs2)
}
