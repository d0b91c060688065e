// Command elfinspect prints the program header table of an ELF64 binary,
// the same fields original_source/elf_reader.cpp dumps (spec.md §6
// "ELF inspector").
package main

import (
	"debug/elf"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "elfinspect",
		Usage:     "dump the program header table of an ELF64 binary",
		ArgsUsage: "<elf file>",
		Action:    run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit("Usage: elfinspect <elf file>", 1)
	}
	path := c.Args().First()

	f, err := elf.Open(path)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to open %s: %w", path, err), 1)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS64 {
		return cli.Exit(fmt.Errorf("%s is not a 64-bit ELF", path), 1)
	}

	fmt.Printf("Opened %s\n", path)
	fmt.Printf("Found %d headers.\n", len(f.Progs))

	for i, prog := range f.Progs {
		fmt.Printf("%2d   %5s %08x %08x %08x %08x %08x %08x %08x\n",
			i, progTypeName(prog.Type),
			prog.Off, prog.Vaddr, prog.Paddr, prog.Align, prog.Filesz, prog.Memsz, uint32(prog.Flags))
	}
	return nil
}

// progTypeName mirrors elf_reader.cpp's hdrName, abbreviating each p_type
// to a 5-character field.
func progTypeName(t elf.ProgType) string {
	switch t {
	case elf.PT_LOAD:
		return " LOAD"
	case elf.PT_DYNAMIC:
		return "  DYN"
	case elf.PT_INTERP:
		return "INTRP"
	case elf.PT_NOTE:
		return " NOTE"
	case elf.PT_SHLIB:
		return "SHLIB"
	case elf.PT_PHDR:
		return " PHDR"
	case elf.PT_TLS:
		return "  TLS"
	case elf.PT_GNU_EH_FRAME:
		return "   EH"
	case elf.PT_GNU_STACK:
		return "STACK"
	case elf.PT_GNU_RELRO:
		return "RELRO"
	default:
		return "UNKNW"
	}
}
