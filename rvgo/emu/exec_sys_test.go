package emu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSRRWWritesAndReturnsOld(t *testing.T) {
	s := newTestState()
	s.CSR[0x340] = 0xAA
	s.SetReg(1, 0xBB)

	csrrw := Instruction{Op: OpCSRRW, Rd: 2, Rs1: 1, Imm: 0x340}
	require.NoError(t, csrrw.Execute(s))
	require.EqualValues(t, 0xAA, s.GetReg(2))
	require.EqualValues(t, 0xBB, s.GetCSR(0x340))
}

func TestCSRRSISetsBitsFromImmediate(t *testing.T) {
	s := newTestState()
	s.CSR[0x340] = 0x01

	csrrsi := Instruction{Op: OpCSRRSI, Rd: 1, Rs1: 0x06, Imm: 0x340}
	require.NoError(t, csrrsi.Execute(s))
	require.EqualValues(t, 0x07, s.GetCSR(0x340))
}

func TestFenceAndEbreakAreNoOps(t *testing.T) {
	s := newTestState()
	s.SetReg(1, 42)
	fence := Instruction{Op: OpFENCE, Size: 4}
	require.NoError(t, fence.Execute(s))
	require.EqualValues(t, 4, s.PC)
	require.EqualValues(t, 42, s.GetReg(1))

	ebreak := Instruction{Op: OpEBREAK, Size: 4}
	require.NoError(t, ebreak.Execute(s))
	require.EqualValues(t, 8, s.PC)
}

type recordingHost struct {
	calledWithX17 uint64
}

func (h *recordingHost) Syscall(s *State) error {
	h.calledWithX17 = s.GetReg(17)
	s.SetReg(10, 99)
	return nil
}
func (h *recordingHost) Exited() bool    { return false }
func (h *recordingHost) ExitCode() uint8 { return 0 }

func TestECALLDispatchesToHost(t *testing.T) {
	h := &recordingHost{}
	s := NewState(NewMemory(), h)
	s.SetReg(17, 64)

	ecall := Instruction{Op: OpECALL, Size: 4}
	require.NoError(t, ecall.Execute(s))
	require.EqualValues(t, 64, h.calledWithX17)
	require.EqualValues(t, 99, s.GetReg(10))
}
