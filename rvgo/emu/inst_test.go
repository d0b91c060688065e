package emu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSrcsOmitsX0BaseExceptAlwaysRs1(t *testing.T) {
	add := Instruction{Op: OpADD, Rd: 3, Rs1: 0, Rs2: 4}
	require.Equal(t, []Dep{{RegInt, 4}}, add.Srcs(), "x0 source should not appear")

	load := Instruction{Op: OpLW, Rd: 3, Rs1: 0, Imm: 4}
	require.Equal(t, []Dep{{RegInt, 0}}, load.Srcs(), "loads always read rs1 even when it's x0")
}

func TestDstsOmitsX0Destination(t *testing.T) {
	addi := Instruction{Op: OpADDI, Rd: 0, Rs1: 1, Imm: 1}
	require.Nil(t, addi.Dsts())

	addi2 := Instruction{Op: OpADDI, Rd: 5, Rs1: 1, Imm: 1}
	require.Equal(t, []Dep{{RegInt, 5}}, addi2.Dsts())
}

func TestDstsStoreHasNoDestination(t *testing.T) {
	sw := Instruction{Op: OpSW, Rs1: 1, Rs2: 2, Imm: 0}
	require.Nil(t, sw.Dsts())
}

func TestDstsECALLWritesX10(t *testing.T) {
	ecall := Instruction{Op: OpECALL}
	require.Equal(t, []Dep{{RegInt, 10}}, ecall.Dsts())
}

func TestStdSrcIdentifiesStoreData(t *testing.T) {
	sw := Instruction{Op: OpSW, Rs1: 1, Rs2: 2, Imm: 0}
	dep, ok := sw.StdSrc()
	require.True(t, ok)
	require.Equal(t, Dep{RegInt, 2}, dep)

	add := Instruction{Op: OpADD, Rd: 1, Rs1: 2, Rs2: 3}
	_, ok = add.StdSrc()
	require.False(t, ok)
}

func TestDisasmKnownOps(t *testing.T) {
	addi := Instruction{Op: OpADDI, Rd: 5, Rs1: 0, Imm: 7}
	require.Contains(t, addi.Disasm(), "addi")

	unknown := nullInstruction(4)
	require.Equal(t, "unknown", unknown.Disasm())
}

func TestOpTypeClassification(t *testing.T) {
	require.Equal(t, OpMul, (Instruction{Op: OpMUL}).OpType())
	require.Equal(t, OpDiv, (Instruction{Op: OpDIVU}).OpType())
	require.Equal(t, OpBranch, (Instruction{Op: OpBNE}).OpType())
	require.Equal(t, OpAtomic, (Instruction{Op: OpAMOXORW}).OpType())
}
