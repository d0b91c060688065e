// Command dfg reads a file of raw opcode words and prints the dataflow
// graph of the decoded instruction stream: one line per instruction with
// its producing instructions, and optionally a Graphviz .dot file
// (original_source/dfg.cpp, spec.md §6 "DFG tool").
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rvfun/rvsim/rvgo/dfg"
)

func main() {
	app := &cli.App{
		Name:      "dfg",
		Usage:     "print the dataflow graph of a decoded opcode stream",
		ArgsUsage: "-f <opcode-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "f", Usage: "file of one hex opcode per line", Required: true},
			&cli.BoolFlag{Name: "p", Usage: "also write dfg.dot"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	path := c.String("f")
	f, err := os.Open(path)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to open %s: %w", path, err), 1)
	}
	defer f.Close()

	words, err := dfg.ParseOpcodeFile(f)
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintf(os.Stderr, "read %d opcodes from %s\n", len(words), path)

	graph := dfg.Build(words)
	for _, n := range graph.Nodes {
		fmt.Println(dfg.FormatLine(n))
	}

	if c.Bool("p") {
		out, err := os.Create("dfg.dot")
		if err != nil {
			return cli.Exit(fmt.Errorf("failed to create dfg.dot: %w", err), 1)
		}
		defer out.Close()
		if err := graph.WriteDOT(out); err != nil {
			return cli.Exit(fmt.Errorf("failed to write dfg.dot: %w", err), 1)
		}
	}
	return nil
}
