package host

import (
	"fmt"
	"os"

	"github.com/rvfun/rvsim/rvgo/emu"
	"github.com/rvfun/rvsim/rvgo/riscv"
)

const wordAlign = 16

// CompleteEnv allocates the initial stack, copies argv onto it, opens the
// guest's stdin/stdout/stderr, and sets x10/x11 to argc/SP (spec.md §4.5
// "Stack construction (completeEnv)"). progName becomes argv[0]; args
// become argv[1..]. stdinPath, if non-empty, is opened as guest stdin;
// otherwise fd 0 is left unset (nil) so reads on it return -1.
func CompleteEnv(s *emu.State, h *Shim, progName string, args []string, stdinPath string) error {
	h.progName = progName
	s.Mem.AddBlock(StackBase, StackSize, nil)

	argv := append([]string{progName}, args...)

	// Lay strings out descending from the top of the stack, each
	// null-terminated and 16-byte aligned afterward.
	top := uint64(StackBase + StackSize)
	ptrs := make([]uint64, len(argv))
	for i := len(argv) - 1; i >= 0; i-- {
		str := argv[i]
		n := uint64(len(str) + 1)
		aligned := (n + wordAlign - 1) &^ (wordAlign - 1)
		top -= aligned
		s.Mem.WriteBytes(top, append([]byte(str), 0))
		ptrs[i] = top
	}

	sp := top - uint64(8*(len(argv)+1))
	sp &^= (wordAlign - 1)

	s.Mem.Write(sp, 8, uint64(len(argv)))
	for i, p := range ptrs {
		s.Mem.Write(sp+8+uint64(i)*8, 8, p)
	}

	s.SetReg(10, uint64(len(argv)))
	s.SetReg(11, sp)

	if stdinPath != "" {
		f, err := os.Open(stdinPath)
		if err != nil {
			return fmt.Errorf("failed to open guest stdin %q: %w", stdinPath, err)
		}
		h.fds[riscv.FdStdin] = f
	} else {
		h.fds[riscv.FdStdin] = nil
	}

	outF, err := os.Create(fmt.Sprintf("stdout.%d", h.pid))
	if err != nil {
		return fmt.Errorf("failed to create stdout redirect: %w", err)
	}
	h.fds[riscv.FdStdout] = outF

	errF, err := os.Create(fmt.Sprintf("stderr.%d", h.pid))
	if err != nil {
		return fmt.Errorf("failed to create stderr redirect: %w", err)
	}
	h.fds[riscv.FdStderr] = errF

	h.mmapBump = (uint64(StackBase+StackSize) + mmapAlign - 1) &^ (mmapAlign - 1)
	return nil
}
