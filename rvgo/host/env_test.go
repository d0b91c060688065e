package host

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rvfun/rvsim/rvgo/emu"
)

func TestCompleteEnvArgvLayout(t *testing.T) {
	s, shim := newTestEnv(t)
	defer shim.Close()

	// newTestEnv already ran CompleteEnv(s, shim, "guest", nil, ""): argc==1
	// and x11 points at a 16-byte-aligned argv vector holding one pointer.
	require.EqualValues(t, 1, s.GetReg(10))

	sp := s.GetReg(11)
	require.Zero(t, sp%16, "sp must be 16-byte aligned")

	argc := s.Mem.Read(sp, 8)
	require.EqualValues(t, 1, argc)

	argv0 := s.Mem.Read(sp+8, 8)
	require.NotZero(t, argv0)

	// The string at argv0 is the NUL-terminated program name.
	var got []byte
	for i := uint64(0); ; i++ {
		b := byte(s.Mem.Read(argv0+i, 1))
		if b == 0 {
			break
		}
		got = append(got, b)
	}
	require.Equal(t, "guest", string(got))
}

func TestCompleteEnvMultipleArgsOrderedLowToHigh(t *testing.T) {
	mem := emu.NewMemory()
	shim := NewShim(mem, 999)
	s := emu.NewState(mem, shim)

	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(cwd) })

	require.NoError(t, CompleteEnv(s, shim, "prog", []string{"one", "two"}, ""))
	defer shim.Close()

	require.EqualValues(t, 3, s.GetReg(10))
	sp := s.GetReg(11)
	require.EqualValues(t, 3, mem.Read(sp, 8))

	readCStr := func(addr uint64) string {
		var out []byte
		for i := uint64(0); ; i++ {
			b := byte(mem.Read(addr+i, 1))
			if b == 0 {
				break
			}
			out = append(out, b)
		}
		return string(out)
	}

	ptr0 := mem.Read(sp+8, 8)
	ptr1 := mem.Read(sp+16, 8)
	ptr2 := mem.Read(sp+24, 8)
	require.Equal(t, "prog", readCStr(ptr0))
	require.Equal(t, "one", readCStr(ptr1))
	require.Equal(t, "two", readCStr(ptr2))
}

func TestCompleteEnvMmapBumpPastStackTop(t *testing.T) {
	s, shim := newTestEnv(t)
	defer shim.Close()
	_ = s

	require.GreaterOrEqual(t, shim.mmapBump, uint64(StackBase+StackSize))
	require.Zero(t, shim.mmapBump%mmapAlign)
}
