// Package host implements the Linux syscall ABI shim: ELF loading into
// guest memory, initial stack/argv construction (no auxv), and the guest
// syscall handlers a statically-linked binary needs (spec.md §4.5).
package host

import (
	"debug/elf"
	"fmt"
	"io"

	"github.com/rvfun/rvsim/rvgo/emu"
)

// riscvAttributesType is the RISC-V .riscv.attributes program header type,
// reusing the MIPS_ABIFLAGS slot; it carries no loadable bytes.
const riscvAttributesType = 0x70000003

// LoadELF validates f as a 64-bit ELF and copies every PT_LOAD segment
// into mem, returning the entry point (spec.md §4.5 "ELF load").
// Grounded on the teacher's rvgo/fast/elf.go LoadELF (program-header walk,
// zero-fill for Filesz < Memsz) and original_source/host_system.cpp's
// loadElf (magic/class validation, block-per-segment, top-of-mem
// tracking) — spec.md's contract is authoritative where they differ.
func LoadELF(f *elf.File, mem *emu.Memory) (entry uint64, err error) {
	if f.Class != elf.ELFCLASS64 {
		return 0, fmt.Errorf("unsupported ELF class %v: only 64-bit is supported", f.Class)
	}

	for i, prog := range f.Progs {
		if prog.Type == riscvAttributesType {
			continue
		}
		if prog.Type != elf.PT_LOAD {
			continue
		}

		size := prog.Memsz
		if prog.Filesz > size {
			size = prog.Filesz
		}
		if prog.Align > 1 {
			end := prog.Vaddr + size
			rem := end % prog.Align
			if rem != 0 {
				size += prog.Align - rem
			}
		}

		data := make([]byte, size)
		r := io.NewSectionReader(prog, 0, int64(prog.Filesz))
		if _, err := io.ReadFull(r, data[:prog.Filesz]); err != nil && err != io.EOF {
			return 0, fmt.Errorf("failed to read program segment %d: %w", i, err)
		}
		mem.AddBlock(prog.Vaddr, size, data)
	}

	return f.Entry, nil
}
