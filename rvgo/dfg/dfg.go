// Package dfg builds a dataflow graph over a stream of decoded
// instructions: for each instruction, the most recent prior instruction
// that wrote each of its source registers. Grounded on
// original_source/dfg.cpp's prod_int/prod_fp producer maps.
package dfg

import "github.com/rvfun/rvsim/rvgo/emu"

// Node is one decoded instruction in the stream, 1-indexed to match the
// original tool's icount, with the indices of the instructions that most
// recently produced each of its source registers.
type Node struct {
	Index     int
	Disasm    string
	Producers []int
}

// Graph is the full dataflow graph of a decoded instruction stream.
type Graph struct {
	Nodes []Node
}

// Build decodes each word in order (bottom two bits == 3 selects the
// 32-bit decoder, else the 16-bit one, per spec.md §6 "DFG tool") and
// tracks, per register file, which instruction index last wrote each
// register, wiring that up as the producer list for every later consumer.
func Build(words []uint32) *Graph {
	prodInt := make(map[uint8]int)
	prodFP := make(map[uint8]int)

	g := &Graph{}
	for idx, w := range words {
		icount := idx + 1

		var insn emu.Instruction
		if w&3 == 3 {
			insn = emu.Decode32(w)
		} else {
			insn = emu.Decode16(uint16(w))
		}
		if insn.Op == emu.OpUnknown {
			g.Nodes = append(g.Nodes, Node{Index: icount, Disasm: "unknown"})
			continue
		}

		var producers []int
		for _, src := range insn.Srcs() {
			var table map[uint8]int
			switch src.File {
			case emu.RegInt:
				table = prodInt
			case emu.RegFloat:
				table = prodFP
			default:
				continue
			}
			if p, ok := table[src.Reg]; ok {
				producers = append(producers, p)
			}
		}

		g.Nodes = append(g.Nodes, Node{Index: icount, Disasm: insn.Disasm(), Producers: producers})

		for _, dst := range insn.Dsts() {
			switch dst.File {
			case emu.RegInt:
				prodInt[dst.Reg] = icount
			case emu.RegFloat:
				prodFP[dst.Reg] = icount
			}
		}
	}
	return g
}
