package emu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFPArithmeticSingle(t *testing.T) {
	s := newTestState()
	s.SetFloat32(1, 2.5)
	s.SetFloat32(2, 4.0)

	add := Instruction{Op: OpFADDS, Rd: 3, Rs1: 1, Rs2: 2}
	require.NoError(t, add.Execute(s))
	require.Equal(t, float32(6.5), s.GetFloat32(3))

	mul := Instruction{Op: OpFMULS, Rd: 4, Rs1: 1, Rs2: 2}
	require.NoError(t, mul.Execute(s))
	require.Equal(t, float32(10.0), s.GetFloat32(4))
}

func TestFPArithmeticDouble(t *testing.T) {
	s := newTestState()
	s.SetFloat64(1, 1.5)
	s.SetFloat64(2, 2.5)

	sub := Instruction{Op: OpFSUBD, Rd: 3, Rs1: 2, Rs2: 1}
	require.NoError(t, sub.Execute(s))
	require.Equal(t, 1.0, s.GetFloat64(3))
}

func TestFPCompare(t *testing.T) {
	s := newTestState()
	s.SetFloat32(1, 1.0)
	s.SetFloat32(2, 2.0)

	lt := Instruction{Op: OpFLTS, Rd: 5, Rs1: 1, Rs2: 2}
	require.NoError(t, lt.Execute(s))
	require.EqualValues(t, 1, s.GetReg(5))

	eq := Instruction{Op: OpFEQS, Rd: 6, Rs1: 1, Rs2: 2}
	require.NoError(t, eq.Execute(s))
	require.EqualValues(t, 0, s.GetReg(6))
}

func TestFPLoadStoreWord(t *testing.T) {
	s := newTestState()
	s.Mem.AddBlock(0x1000, 8, nil)
	s.SetFloat32(1, 3.25)
	s.SetReg(2, 0x1000)

	fsw := Instruction{Op: OpFSW, Rs1: 2, Rs2: 1, Imm: 0}
	require.NoError(t, fsw.Execute(s))

	flw := Instruction{Op: OpFLW, Rd: 3, Rs1: 2, Imm: 0}
	require.NoError(t, flw.Execute(s))
	require.Equal(t, float32(3.25), s.GetFloat32(3))
	require.EqualValues(t, 0xFFFFFFFF, s.GetFReg(3)>>32, "single-precision load must NaN-box")
}

func TestFPConvertRoundTrip(t *testing.T) {
	s := newTestState()
	neg42 := int64(-42)
	s.SetReg(1, uint64(neg42))

	cvt := Instruction{Op: OpFCVTDW, Rd: 1, Rs1: 1}
	require.NoError(t, cvt.Execute(s))
	require.Equal(t, -42.0, s.GetFloat64(1))

	back := Instruction{Op: OpFCVTWD, Rd: 2, Rs1: 1}
	require.NoError(t, back.Execute(s))
	require.EqualValues(t, uint64(neg42), s.GetReg(2))
}

func TestFClassZeroAndNegative(t *testing.T) {
	require.EqualValues(t, 1<<4, fclass32(0))
	require.EqualValues(t, 1<<3, fclass32(float32(mustNegZero())))
	require.EqualValues(t, 1<<1, fclass32(-5))
	require.EqualValues(t, 1<<6, fclass32(5))
}

func mustNegZero() float64 {
	var z float64
	return -z
}
