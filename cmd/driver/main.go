// Command driver runs a statically-linked RV64GC ELF executable to
// completion or until its instruction budget elapses (spec.md §6 "CLI
// (driver)").
package main

import (
	"context"
	"debug/elf"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/rvfun/rvsim/rvgo/cmd"
	"github.com/rvfun/rvsim/rvgo/emu"
	"github.com/rvfun/rvsim/rvgo/host"
)

func main() {
	app := &cli.App{
		Name:      "driver",
		Usage:     "interpret a statically-linked RISC-V64 ELF binary",
		ArgsUsage: "<elf> [guest-args...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "d", Usage: "enable per-instruction trace"},
			&cli.BoolFlag{Name: "v", Usage: "enable verbose state tracing"},
			&cli.Uint64Flag{Name: "i", Usage: "instruction budget (0 = unbounded)"},
			&cli.StringFlag{Name: "stdin", Usage: "file to use as guest stdin"},
			&cli.StringFlag{Name: "cpuprofile", Usage: "write a CPU profile to this directory"},
		},
		Action: run,
	}

	ctx, cancel := cmd.WithInterrupt(context.Background())
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.String("cpuprofile") != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(c.String("cpuprofile"))).Stop()
	}

	args := c.Args().Slice()
	if len(args) < 1 {
		return cli.Exit("missing ELF path", 1)
	}
	elfPath := args[0]
	guestArgs := args[1:]

	level := slog.LevelWarn
	if c.Bool("d") || c.Bool("v") {
		level = slog.LevelInfo
	}
	logger := cmd.Logger(os.Stderr, level)

	f, err := elf.Open(elfPath)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to open ELF: %w", err), 1)
	}
	defer f.Close()

	mem := emu.NewMemory()
	entry, err := host.LoadELF(f, mem)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to load ELF: %w", err), 1)
	}

	shim := host.NewShim(mem, os.Getpid())
	shim.Log = func(format string, a ...any) { logger.Info(fmt.Sprintf(format, a...)) }
	mem.SetLogger(shim.Log)

	st := emu.NewState(mem, shim)
	st.PC = entry
	st.Debug = c.Bool("v")
	if st.Debug {
		st.TraceReg = func(r uint8, v uint64) {
			logger.Info("setReg", "reg", r, "val", cmd.HexU32(uint32(v)))
		}
		shim.StdoutTee = &cmd.LoggingWriter{Name: "guest std-out", Log: logger}
		shim.StderrTee = &cmd.LoggingWriter{Name: "guest std-err", Log: logger}
	}

	if err := host.CompleteEnv(st, shim, elfPath, guestArgs, c.String("stdin")); err != nil {
		return cli.Exit(err, 1)
	}
	shim.SeedHeap()
	defer shim.Close()

	vm := emu.NewVM(st)
	vm.MaxSteps = c.Uint64("i")
	if c.Bool("d") {
		vm.Trace = func(pc uint64, insn uint32, disasm string) {
			logger.Info("step", "pc", cmd.HexU32(uint32(pc)), "insn", cmd.HexU32(insn), "text", disasm)
		}
	}

	if err := vm.Run(); err != nil {
		return err
	}

	code := int(shim.ExitCode())
	if code != 0 {
		logger.Warn("guest exited with non-zero status", "code", code)
		return cli.Exit("", code)
	}
	return nil
}
