package emu

import (
	"fmt"

	"github.com/rvfun/rvsim/rvgo/riscv"
)

// RegFile distinguishes which register file a dependency pair names.
type RegFile uint8

const (
	RegNone RegFile = iota
	RegInt
	RegFloat
)

// Dep is a (register-file, register-number) dependency pair used by the
// dataflow tool; the execute path never consults Srcs/Dsts (spec.md §3).
type Dep struct {
	File RegFile
	Reg  uint8
}

// OpType classifies an instruction (move, ALU, load, store, ...); it plays
// no role in execute, disasm or the dataflow graph (spec.md §3).
type OpType uint8

const (
	OpMov OpType = iota
	OpMovI
	OpAlu
	OpShift
	OpMul
	OpDiv
	OpFP
	OpLoad
	OpStore
	OpLoadFP
	OpStoreFP
	OpAtomic
	OpBranch
	OpSystem
)

// Op names one instruction mnemonic. The decoder produces an Op plus its
// operand fields; Execute and Disasm switch on it. This is the tagged
// union that replaces the source's one-class-per-opcode hierarchy
// (spec.md §9).
type Op uint16

const (
	OpUnknown Op = iota

	OpLUI
	OpAUIPC
	OpJAL
	OpJALR

	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU

	OpLB
	OpLH
	OpLW
	OpLD
	OpLBU
	OpLHU
	OpLWU

	OpSB
	OpSH
	OpSW
	OpSD

	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI

	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND

	OpADDIW
	OpSLLIW
	OpSRLIW
	OpSRAIW
	OpADDW
	OpSUBW
	OpSLLW
	OpSRLW
	OpSRAW

	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU

	OpMULW
	OpDIVW
	OpDIVUW
	OpREMW
	OpREMUW

	OpLRW
	OpLRD
	OpSCW
	OpSCD
	OpAMOSWAPW
	OpAMOADDW
	OpAMOXORW
	OpAMOANDW
	OpAMOORW
	OpAMOMINW
	OpAMOMAXW
	OpAMOMINUW
	OpAMOMAXUW
	OpAMOSWAPD
	OpAMOADDD
	OpAMOXORD
	OpAMOANDD
	OpAMOORD
	OpAMOMIND
	OpAMOMAXD
	OpAMOMINUD
	OpAMOMAXUD

	OpFLW
	OpFLD
	OpFSW
	OpFSD

	OpFMVXW
	OpFMVXD
	OpFMVWX
	OpFMVDX

	OpFCVTWS
	OpFCVTWUS
	OpFCVTLS
	OpFCVTLUS
	OpFCVTSW
	OpFCVTSWU
	OpFCVTSL
	OpFCVTSLU
	OpFCVTWD
	OpFCVTWUD
	OpFCVTLD
	OpFCVTLUD
	OpFCVTDW
	OpFCVTDWU
	OpFCVTDL
	OpFCVTDLU
	OpFCVTSD
	OpFCVTDS

	OpFSGNJS
	OpFSGNJNS
	OpFSGNJXS
	OpFSGNJD
	OpFSGNJND
	OpFSGNJXD

	OpFADDS
	OpFSUBS
	OpFMULS
	OpFDIVS
	OpFSQRTS
	OpFMINS
	OpFMAXS
	OpFADDD
	OpFSUBD
	OpFMULD
	OpFDIVD
	OpFSQRTD
	OpFMIND
	OpFMAXD

	OpFEQS
	OpFLTS
	OpFLES
	OpFEQD
	OpFLTD
	OpFLED
	OpFCLASSS
	OpFCLASSD

	OpFMADDS
	OpFMSUBS
	OpFNMSUBS
	OpFNMADDS
	OpFMADDD
	OpFMSUBD
	OpFNMSUBD
	OpFNMADDD

	OpECALL
	OpEBREAK
	OpFENCE
	OpFENCEI
	OpCSRRW
	OpCSRRS
	OpCSRRC
	OpCSRRWI
	OpCSRRSI
	OpCSRRCI
)

// Instruction is the discriminated value the decoder produces: one
// variant's worth of operands plus its size, shared across all families
// so decode never allocates more than this one struct (spec.md §3, §9).
type Instruction struct {
	Op   Op
	Size uint8 // 2 or 4

	Rd, Rs1, Rs2, Rs3 uint8
	Imm               int64
	Shamt             uint8

	// Aq/Rl are decoded for AMO/LR/SC but the reservation monitor is not
	// modeled (spec.md §4.4): they are carried on the value but affect
	// neither Execute nor Disasm.
	Aq, Rl bool
}

func (i Instruction) String() string { return i.Disasm() }

// nullInstruction is returned for unrecognized encodings; size must still
// be set by the caller so the fetch loop can advance PC (spec.md §4.3).
func nullInstruction(size uint8) Instruction {
	return Instruction{Op: OpUnknown, Size: size}
}

// Execute mutates state and advances PC, per the op family. PC advance by
// the encoded size is the default; branch/jump paths set PC themselves and
// return early.
func (i Instruction) Execute(s *State) error {
	switch opFamily(i.Op) {
	case famInt:
		return execInt(i, s)
	case famAtomic:
		return execAtomic(i, s)
	case famFP:
		return execFP(i, s)
	case famSystem:
		return execSystem(i, s)
	default:
		s.PC += uint64(i.Size)
		return nil
	}
}

type family uint8

const (
	famInt family = iota
	famAtomic
	famFP
	famSystem
	famOther
)

func opFamily(op Op) family {
	switch {
	case op >= OpLRW && op <= OpAMOMAXUD:
		return famAtomic
	case op >= OpFLW && op <= OpFNMADDD:
		return famFP
	case op == OpECALL || op == OpEBREAK || op == OpFENCE || op == OpFENCEI ||
		(op >= OpCSRRW && op <= OpCSRRCI):
		return famSystem
	case op == OpUnknown:
		return famOther
	default:
		return famInt
	}
}

// OpType reports the dataflow-tool classification for this instruction.
func (i Instruction) OpType() OpType {
	switch i.Op {
	case OpLUI:
		return OpMovI
	case OpAUIPC, OpADDI, OpSLTI, OpSLTIU, OpXORI, OpORI, OpANDI,
		OpADD, OpSUB, OpSLT, OpSLTU, OpXOR, OpOR, OpAND,
		OpADDIW, OpADDW, OpSUBW:
		return OpAlu
	case OpSLLI, OpSRLI, OpSRAI, OpSLL, OpSRL, OpSRA,
		OpSLLIW, OpSRLIW, OpSRAIW, OpSLLW, OpSRLW, OpSRAW:
		return OpShift
	case OpMUL, OpMULH, OpMULHSU, OpMULHU, OpMULW:
		return OpMul
	case OpDIV, OpDIVU, OpREM, OpREMU, OpDIVW, OpDIVUW, OpREMW, OpREMUW:
		return OpDiv
	case OpJAL, OpJALR:
		return OpMov
	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		return OpBranch
	case OpLB, OpLH, OpLW, OpLD, OpLBU, OpLHU, OpLWU:
		return OpLoad
	case OpSB, OpSH, OpSW, OpSD:
		return OpStore
	case OpFLW, OpFLD:
		return OpLoadFP
	case OpFSW, OpFSD:
		return OpStoreFP
	case OpECALL, OpEBREAK, OpFENCE, OpFENCEI,
		OpCSRRW, OpCSRRS, OpCSRRC, OpCSRRWI, OpCSRRSI, OpCSRRCI:
		return OpSystem
	default:
		if opFamily(i.Op) == famAtomic {
			return OpAtomic
		}
		return OpFP
	}
}

// Srcs lists the register dependencies read by this instruction, for the
// dataflow tool (spec.md §3). Immediate-only operands contribute nothing.
func (i Instruction) Srcs() []Dep {
	var out []Dep
	addInt := func(r uint8) { out = append(out, Dep{RegInt, r}) }
	addFP := func(r uint8) { out = append(out, Dep{RegFloat, r}) }

	switch i.Op {
	case OpLUI, OpAUIPC, OpJAL, OpECALL, OpEBREAK, OpFENCE, OpFENCEI, OpUnknown:
		// no register sources
	case OpCSRRWI, OpCSRRSI, OpCSRRCI:
		// immediate-sourced CSR forms read no integer register
	case OpFLW, OpFLD:
		addInt(i.Rs1)
	default:
		if opFamily(i.Op) == famFP {
			// FP-family sources are listed by the switch below
			break
		}
		if i.Rs1 != 0 || isAlwaysRs1(i.Op) {
			addInt(i.Rs1)
		}
		if hasRs2(i.Op) {
			addInt(i.Rs2)
		}
	}
	switch i.Op {
	case OpFSW, OpFSD:
		addFP(i.Rs2)
		addInt(i.Rs1)
	case OpFADDS, OpFSUBS, OpFMULS, OpFDIVS, OpFMINS, OpFMAXS,
		OpFADDD, OpFSUBD, OpFMULD, OpFDIVD, OpFMIND, OpFMAXD,
		OpFSGNJS, OpFSGNJNS, OpFSGNJXS, OpFSGNJD, OpFSGNJND, OpFSGNJXD,
		OpFEQS, OpFLTS, OpFLES, OpFEQD, OpFLTD, OpFLED:
		addFP(i.Rs1)
		addFP(i.Rs2)
	case OpFSQRTS, OpFSQRTD, OpFCLASSS, OpFCLASSD,
		OpFMVXW, OpFMVXD, OpFCVTWS, OpFCVTWUS, OpFCVTLS, OpFCVTLUS,
		OpFCVTWD, OpFCVTWUD, OpFCVTLD, OpFCVTLUD, OpFCVTSD, OpFCVTDS:
		addFP(i.Rs1)
	case OpFMVWX, OpFMVDX, OpFCVTSW, OpFCVTSWU, OpFCVTSL, OpFCVTSLU,
		OpFCVTDW, OpFCVTDWU, OpFCVTDL, OpFCVTDLU:
		addInt(i.Rs1)
	case OpFMADDS, OpFMSUBS, OpFNMSUBS, OpFNMADDS, OpFMADDD, OpFMSUBD, OpFNMSUBD, OpFNMADDD:
		addFP(i.Rs1)
		addFP(i.Rs2)
		addFP(i.Rs3)
	}
	return out
}

// isAlwaysRs1 reports whether an op reads rs1 even when rs1 happens to be
// x0 (e.g. loads use rs1 as a base register unconditionally).
func isAlwaysRs1(op Op) bool {
	switch op {
	case OpLB, OpLH, OpLW, OpLD, OpLBU, OpLHU, OpLWU,
		OpSB, OpSH, OpSW, OpSD,
		OpJALR, OpFLW, OpFLD, OpFSW, OpFSD:
		return true
	default:
		return opFamily(op) == famAtomic
	}
}

func hasRs2(op Op) bool {
	switch op {
	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU,
		OpSB, OpSH, OpSW, OpSD,
		OpADD, OpSUB, OpSLL, OpSLT, OpSLTU, OpXOR, OpSRL, OpSRA, OpOR, OpAND,
		OpADDW, OpSUBW, OpSLLW, OpSRLW, OpSRAW,
		OpMUL, OpMULH, OpMULHSU, OpMULHU, OpDIV, OpDIVU, OpREM, OpREMU,
		OpMULW, OpDIVW, OpDIVUW, OpREMW, OpREMUW:
		return true
	default:
		return opFamily(op) == famAtomic && op != OpLRW && op != OpLRD
	}
}

// Dsts lists the register destinations written by this instruction.
func (i Instruction) Dsts() []Dep {
	switch i.Op {
	case OpSB, OpSH, OpSW, OpSD, OpFSW, OpFSD,
		OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU,
		OpFENCE, OpFENCEI, OpEBREAK, OpUnknown:
		return nil
	case OpECALL:
		return []Dep{{RegInt, 10}}
	}
	switch opFamily(i.Op) {
	case famFP:
		switch i.Op {
		case OpFMVXW, OpFMVXD, OpFCVTWS, OpFCVTWUS, OpFCVTLS, OpFCVTLUS,
			OpFCVTWD, OpFCVTWUD, OpFCVTLD, OpFCVTLUD,
			OpFEQS, OpFLTS, OpFLES, OpFEQD, OpFLTD, OpFLED, OpFCLASSS, OpFCLASSD:
			return []Dep{{RegInt, i.Rd}}
		default:
			return []Dep{{RegFloat, i.Rd}}
		}
	case famAtomic:
		return []Dep{{RegInt, i.Rd}}
	default:
		if i.Rd == 0 {
			return nil
		}
		return []Dep{{RegInt, i.Rd}}
	}
}

// StdSrc identifies which source operand is the store-data operand (as
// opposed to the address base), for stores and store-like atomics
// (spec.md §3).
func (i Instruction) StdSrc() (Dep, bool) {
	switch i.Op {
	case OpSB, OpSH, OpSW, OpSD:
		return Dep{RegInt, i.Rs2}, true
	case OpFSW, OpFSD:
		return Dep{RegFloat, i.Rs2}, true
	default:
		if opFamily(i.Op) == famAtomic && i.Op != OpLRW && i.Op != OpLRD {
			return Dep{RegInt, i.Rs2}, true
		}
		return Dep{}, false
	}
}

// Disasm renders a trace-friendly mnemonic line.
func (i Instruction) Disasm() string {
	name, ok := opNames[i.Op]
	if !ok {
		return "unknown"
	}
	switch opFamily(i.Op) {
	case famOther:
		return "unknown"
	}
	switch i.Op {
	case OpLUI, OpAUIPC:
		return fmt.Sprintf("%s %s, 0x%x", name, riscv.RegName(i.Rd), uint64(i.Imm)>>12)
	case OpJAL:
		return fmt.Sprintf("%s %s, %d", name, riscv.RegName(i.Rd), i.Imm)
	case OpJALR:
		return fmt.Sprintf("%s %s, %d(%s)", name, riscv.RegName(i.Rd), i.Imm, riscv.RegName(i.Rs1))
	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		return fmt.Sprintf("%s %s, %s, %d", name, riscv.RegName(i.Rs1), riscv.RegName(i.Rs2), i.Imm)
	case OpLB, OpLH, OpLW, OpLD, OpLBU, OpLHU, OpLWU:
		return fmt.Sprintf("%s %s, %d(%s)", name, riscv.RegName(i.Rd), i.Imm, riscv.RegName(i.Rs1))
	case OpSB, OpSH, OpSW, OpSD:
		return fmt.Sprintf("%s %s, %d(%s)", name, riscv.RegName(i.Rs2), i.Imm, riscv.RegName(i.Rs1))
	case OpFLW, OpFLD:
		return fmt.Sprintf("%s %s, %d(%s)", name, riscv.FRegName(i.Rd), i.Imm, riscv.RegName(i.Rs1))
	case OpFSW, OpFSD:
		return fmt.Sprintf("%s %s, %d(%s)", name, riscv.FRegName(i.Rs2), i.Imm, riscv.RegName(i.Rs1))
	case OpECALL, OpEBREAK, OpFENCE, OpFENCEI:
		return name
	default:
		if opFamily(i.Op) == famAtomic {
			return fmt.Sprintf("%s %s, %s, (%s)", name, riscv.RegName(i.Rd), riscv.RegName(i.Rs2), riscv.RegName(i.Rs1))
		}
		if opFamily(i.Op) == famFP {
			return fmt.Sprintf("%s %s, %s, %s", name, riscv.FRegName(i.Rd), riscv.FRegName(i.Rs1), riscv.FRegName(i.Rs2))
		}
		if i.Rs2 != 0 || hasRs2(i.Op) {
			return fmt.Sprintf("%s %s, %s, %s", name, riscv.RegName(i.Rd), riscv.RegName(i.Rs1), riscv.RegName(i.Rs2))
		}
		return fmt.Sprintf("%s %s, %s, %d", name, riscv.RegName(i.Rd), riscv.RegName(i.Rs1), i.Imm)
	}
}
