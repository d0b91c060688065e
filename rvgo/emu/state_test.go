package emu

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/rvfun/rvsim/rvgo/riscv"
)

type nullHost struct{}

func (nullHost) Syscall(s *State) error { return nil }
func (nullHost) Exited() bool           { return false }
func (nullHost) ExitCode() uint8        { return 0 }

func newTestState() *State {
	return NewState(NewMemory(), nullHost{})
}

// TestX0HardwiredZero is invariant 1 (spec.md §8).
func TestX0HardwiredZero(t *testing.T) {
	s := newTestState()
	s.SetReg(0, 0xdeadbeef)
	require.EqualValues(t, 0, s.GetReg(0))
}

// TestFflagsFrmCrossFieldIndependence is invariant 2 (spec.md §8).
func TestFflagsFrmCrossFieldIndependence(t *testing.T) {
	s := newTestState()
	s.SetCSR(riscv.CsrFrm, 5)
	s.SetCSR(riscv.CsrFflags, 0x1f)

	require.EqualValues(t, 0x1f, s.GetCSR(riscv.CsrFflags))
	require.EqualValues(t, 5, s.GetCSR(riscv.CsrFrm))

	s.SetCSR(riscv.CsrFflags, 0x03)
	require.EqualValues(t, 0x03, s.GetCSR(riscv.CsrFflags))
	require.EqualValues(t, 5, s.GetCSR(riscv.CsrFrm), "writing fflags must not disturb frm")
}

// TestFloat32RoundTrip is invariant 7 (spec.md §8) for finite, non-NaN values.
func TestFloat32RoundTrip(t *testing.T) {
	s := newTestState()
	vals := []float32{0, 1, -1, 3.14159, -1e30, 1e-30}
	for _, v := range vals {
		s.SetFloat32(5, v)
		require.Equal(t, v, s.GetFloat32(5))
		require.EqualValues(t, 0xFFFFFFFF, s.GetFReg(5)>>32, "NaN-boxing must set upper 32 bits")
	}
}

func TestFloat64RoundTrip(t *testing.T) {
	s := newTestState()
	vals := []float64{0, 1, -1, 2.71828182845, -1e300}
	for _, v := range vals {
		s.SetFloat64(3, v)
		require.Equal(t, v, s.GetFloat64(3))
	}
}

// TestRegMemRoundTrip is invariant 8 (spec.md §8).
func TestRegMemRoundTrip(t *testing.T) {
	s := newTestState()
	s.Mem.AddBlock(0x2000, 8, nil)

	s.SetReg(7, 0x0102030405060708)
	s.Mem.Write(0x2000, 8, s.GetReg(7))
	require.EqualValues(t, s.GetReg(7), s.Mem.Read(0x2000, 8))
}

func TestCSRAbsentReadsZero(t *testing.T) {
	s := newTestState()
	require.EqualValues(t, 0, s.GetCSR(0x340))
}
