package emu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVMStepReservedLowRangeStops(t *testing.T) {
	s := newTestState()
	s.PC = 4
	vm := NewVM(s)
	done, err := vm.Step()
	require.NoError(t, err)
	require.True(t, done)
}

func TestVMStepMaxStepsBudget(t *testing.T) {
	s := newTestState()
	s.PC = 0x1000
	s.Mem.AddBlock(0x1000, 16, nil) // all-zero halfwords decode as unknown and advance PC by 2
	vm := NewVM(s)
	vm.MaxSteps = 2

	done, err := vm.Step()
	require.NoError(t, err)
	require.False(t, done)
	done, err = vm.Step()
	require.NoError(t, err)
	require.False(t, done)
	done, err = vm.Step()
	require.NoError(t, err)
	require.True(t, done, "budget of 2 steps must stop the third")
}

type exitingHost struct{ exited bool }

func (h *exitingHost) Syscall(s *State) error { h.exited = true; return nil }
func (h *exitingHost) Exited() bool           { return h.exited }
func (h *exitingHost) ExitCode() uint8        { return 0 }

func TestVMStepHostExitedStops(t *testing.T) {
	h := &exitingHost{exited: true}
	s := NewState(NewMemory(), h)
	s.PC = 0x1000
	vm := NewVM(s)
	done, err := vm.Step()
	require.NoError(t, err)
	require.True(t, done)
}

func TestVMTraceFires(t *testing.T) {
	s := newTestState()
	s.PC = 0x1000
	s.Mem.AddBlock(0x1000, 4, nil)
	vm := NewVM(s)

	var tracedPC uint64
	var traced bool
	vm.Trace = func(pc uint64, insn uint32, disasm string) {
		tracedPC = pc
		traced = true
	}
	_, err := vm.Step()
	require.NoError(t, err)
	require.True(t, traced)
	require.EqualValues(t, 0x1000, tracedPC)
}
