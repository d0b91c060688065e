package emu

import "fmt"

// reservedLowRange is the guest PC range interpreted as "returned to
// shell" (spec.md §5 cancellation conditions).
const reservedLowRange = 64

// TraceFunc, when set on the VM, receives one line per instruction just
// before it executes; the driver wires this to the teacher-style structured logger
// (rvgo/cmd/log.go) rather than a bare fmt.Println.
type TraceFunc func(pc uint64, insn uint32, disasm string)

// VM drives the fetch-decode-execute loop (spec.md §2, §5). It holds no
// state of its own beyond the budget counters: State, Memory and Host own
// everything else.
type VM struct {
	State *State
	Trace TraceFunc

	// MaxSteps bounds the instruction count (-i flag, spec.md §6); 0 means
	// unbounded.
	MaxSteps uint64
}

// NewVM returns a VM over s.
func NewVM(s *State) *VM {
	return &VM{State: s}
}

// Run executes instructions until the host signals exit, the step budget
// elapses, or PC lands in the reserved low range (spec.md §5).
func (vm *VM) Run() error {
	for {
		done, err := vm.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Step fetches, decodes, and executes exactly one instruction, returning
// done=true when a termination condition (spec.md §5) is met without
// having executed anything further.
func (vm *VM) Step() (done bool, err error) {
	s := vm.State

	if s.Host != nil && s.Host.Exited() {
		return true, nil
	}
	if vm.MaxSteps != 0 && s.Step >= vm.MaxSteps {
		return true, nil
	}
	if s.PC < reservedLowRange {
		return true, nil
	}

	low16 := uint16(s.ReadIMem(s.PC, 2))
	var insn Instruction
	var word uint32

	if low16&0x3 == 0x3 {
		hi16 := uint16(s.ReadIMem(s.PC+2, 2))
		word = uint32(low16) | uint32(hi16)<<16
		insn = Decode32(word)
	} else {
		word = uint32(low16)
		insn = Decode16(low16)
	}

	if vm.Trace != nil {
		vm.Trace(s.PC, word, insn.Disasm())
	}

	if err := insn.Execute(s); err != nil {
		return false, fmt.Errorf("execute at pc 0x%x: %w", s.PC, err)
	}
	s.Step++
	return false, nil
}
