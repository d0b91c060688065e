package dfg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseOpcodeFile reads one unsigned 32-bit hexadecimal number per line,
// no "0x" prefix (spec.md §6 "Input formats").
func ParseOpcodeFile(r io.Reader) ([]uint32, error) {
	var out []uint32
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid hex opcode %q: %w", lineNo, line, err)
		}
		out = append(out, uint32(v))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FormatLine renders one node the way the original tool prints it to
// stdout: index, disassembly, then a bracketed producer list when any
// source register has a known producer (original_source/dfg.cpp's main
// loop).
func FormatLine(n Node) string {
	line := fmt.Sprintf("%d\t%s", n.Index, n.Disasm)
	if len(n.Producers) == 0 {
		return line
	}
	parts := make([]string, len(n.Producers))
	for i, p := range n.Producers {
		parts[i] = strconv.Itoa(p)
	}
	return line + "\t[" + strings.Join(parts, ",") + "]"
}
