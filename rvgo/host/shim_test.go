package host

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rvfun/rvsim/rvgo/emu"
	"github.com/rvfun/rvsim/rvgo/riscv"
)

func TestSyscallExitSetsExitedAndCode(t *testing.T) {
	s, shim := newTestEnv(t)
	defer shim.Close()

	s.SetReg(17, riscv.SysExit)
	s.SetReg(10, 7)
	require.NoError(t, shim.Syscall(s))

	require.True(t, shim.Exited())
	require.EqualValues(t, 7, shim.ExitCode())
}

func TestSyscallExitGroupSameAsExit(t *testing.T) {
	s, shim := newTestEnv(t)
	defer shim.Close()

	s.SetReg(17, riscv.SysExitGroup)
	s.SetReg(10, 2)
	require.NoError(t, shim.Syscall(s))
	require.True(t, shim.Exited())
	require.EqualValues(t, 2, shim.ExitCode())
}

func TestSyscallUnknownNumberReturnsZeroAndLogs(t *testing.T) {
	s, shim := newTestEnv(t)
	defer shim.Close()

	var logged string
	shim.Log = func(format string, args ...any) { logged = format }

	s.SetReg(17, 999999)
	require.NoError(t, shim.Syscall(s))
	require.EqualValues(t, 0, s.GetReg(10))
	require.Contains(t, logged, "unknown syscall")
}

func TestSyscallGetuidFamilyReturnsFixedUID(t *testing.T) {
	s, shim := newTestEnv(t)
	defer shim.Close()

	for _, num := range []uint64{riscv.SysGetuid, riscv.SysGeteuid, riscv.SysGetgid, riscv.SysGetegid} {
		s.SetReg(17, num)
		require.NoError(t, shim.Syscall(s))
		require.EqualValues(t, 3, s.GetReg(10))
	}
}

func TestCloseReleasesStdoutStderrFiles(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(cwd) })

	mem := emu.NewMemory()
	shim := NewShim(mem, 42)
	s := emu.NewState(mem, shim)
	require.NoError(t, CompleteEnv(s, shim, "guest", nil, ""))

	shim.Close()

	// A closed stdout file must refuse further writes.
	_, err = shim.fds[1].WriteString("x")
	require.Error(t, err)

	require.FileExists(t, filepath.Join(dir, "stdout.42"))
}

func TestAllocFDAssignsSequentialDescriptors(t *testing.T) {
	dir := t.TempDir()
	mem := emu.NewMemory()
	shim := NewShim(mem, 1)

	f, err := os.Create(filepath.Join(dir, "extra"))
	require.NoError(t, err)
	defer f.Close()

	fd := shim.allocFD(f)
	require.EqualValues(t, 3, fd) // fds[0..2] reserved for stdin/stdout/stderr

	got, ok := shim.hostFD(fd)
	require.True(t, ok)
	require.Equal(t, f, got)
}

func TestHostFDRejectsOutOfRangeDescriptor(t *testing.T) {
	mem := emu.NewMemory()
	shim := NewShim(mem, 1)
	_, ok := shim.hostFD(99)
	require.False(t, ok)
}
