package host

import (
	"io"
	"os"

	"github.com/rvfun/rvsim/rvgo/emu"
	"github.com/rvfun/rvsim/rvgo/riscv"
)

// StackBase and StackSize fix the initial stack block's location and
// extent (spec.md §4.5 "Stack construction").
const (
	StackBase = 0x10000000
	StackSize = 4 << 20
)

// mmapAlign is the page size mmap growth is rounded up to (spec.md §4.5).
const mmapAlign = 4096

// Shim is the host side of the guest syscall ABI: it owns the guest file
// descriptor table, the heap and mmap watermarks, and the exit state, and
// implements emu.Host so State.ECALL can reach it without emu importing
// host (spec.md §3 "Host shim").
type Shim struct {
	Mem *emu.Memory

	// fds is indexed by guest FD; nil entries are closed. 0 is the
	// configured stdin file (nil when none is given); 1/2 are the per-PID
	// stdout/stderr redirect files (spec.md §4.5, §6 "Persisted state").
	fds []*os.File

	topOfHeap uint64
	mmapBump  uint64

	progName string
	pid      int

	exited   bool
	exitCode uint8

	// StdoutTee/StderrTee, when non-nil, receive a copy of every byte
	// written through fd 1/2 (spec.md §6 "-v" live output tee).
	StdoutTee, StderrTee io.Writer

	// Log receives one line per non-fatal syscall diagnostic (unknown
	// syscall number, bad FD); nil-safe default is a no-op.
	Log func(format string, args ...any)
}

// NewShim returns a Shim over mem with no file descriptors open yet;
// callers finish setup with CompleteEnv.
func NewShim(mem *emu.Memory, pid int) *Shim {
	return &Shim{
		Mem:      mem,
		fds:      make([]*os.File, 3),
		pid:      pid,
		Log:      func(string, ...any) {},
	}
}

// SeedHeap sets the initial sbrk watermark to just past the highest
// address loaded so far (called once after ELF load and stack setup).
func (h *Shim) SeedHeap() {
	h.topOfHeap = h.Mem.TopOfBlocks()
}

// Exited reports whether the guest has called exit/exit_group.
func (h *Shim) Exited() bool { return h.exited }

// ExitCode returns the guest's exit status, valid once Exited is true.
func (h *Shim) ExitCode() uint8 { return h.exitCode }

// Close releases the stdout/stderr redirect files (spec.md §5 "the shim
// must close its stdout/stderr redirect FDs on teardown").
func (h *Shim) Close() {
	for i := 1; i <= 2 && i < len(h.fds); i++ {
		if h.fds[i] != nil {
			h.fds[i].Close()
		}
	}
}

func (h *Shim) hostFD(guestFD uint64) (*os.File, bool) {
	if guestFD >= uint64(len(h.fds)) {
		return nil, false
	}
	f := h.fds[guestFD]
	return f, f != nil
}

func (h *Shim) allocFD(f *os.File) uint64 {
	h.fds = append(h.fds, f)
	return uint64(len(h.fds) - 1)
}

// Syscall dispatches on x17 per the RISC-V Linux syscall ABI (spec.md
// §4.4 "System" / §4.5 "Syscall handlers"), reading arguments from
// x10..x15 and writing the return value into x10.
func (h *Shim) Syscall(s *emu.State) error {
	num := s.GetReg(17)
	a0 := s.GetReg(10)
	a1 := s.GetReg(11)
	a2 := s.GetReg(12)
	a3 := s.GetReg(13)

	var ret uint64
	switch num {
	case riscv.SysWrite:
		ret = h.sysWrite(s, a0, a1, a2)
	case riscv.SysWritev:
		ret = h.sysWritev(s, a0, a1, a2)
	case riscv.SysRead:
		ret = h.sysRead(s, a0, a1, a2)
	case riscv.SysOpenat:
		ret = h.sysOpenat(s, a0, a1, a2, a3)
	case riscv.SysClose:
		ret = h.sysClose(a0)
	case riscv.SysFstat:
		ret = h.sysFstat(s, a0, a1)
	case riscv.SysReadlinkat:
		ret = h.sysReadlinkat(s, a1, a2, a3)
	case riscv.SysUname:
		ret = h.sysUname(s, a0)
	case riscv.SysGetuid, riscv.SysGeteuid, riscv.SysGetgid, riscv.SysGetegid:
		ret = 3
	case riscv.SysSbrk:
		ret = h.sysSbrk(a0)
	case riscv.SysMmap:
		ret = h.sysMmap(s, a0, a1, a2, a3, s.GetReg(14))
	case riscv.SysExit, riscv.SysExitGroup:
		h.exited = true
		h.exitCode = uint8(a0)
		h.Log("guest exit: status=%d", h.exitCode)
		return nil
	default:
		h.Log("unknown syscall number %d", num)
		ret = 0
	}
	s.SetReg(10, ret)
	return nil
}
