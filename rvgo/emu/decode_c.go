package emu

// Decode16 turns a 16-bit compressed opcode word into an Instruction
// carrying the same Op as its expanded non-compressed form, Size 2
// (spec.md §4.3, §4.4's "Compressed (C)" note: "the executor reuses the
// non-compressed semantics"). Grounded on original_source/arch_decode.cpp
// decode16 for the integer forms; the FP load/store forms (C.FLD/C.FSD,
// C.FLDSP/C.FSDSP) are absent there and follow the standard RVC encoding
// tables, consistent with other_examples/LMMilewski-riscv-emu__rvc.go.
func Decode16(word uint16) Instruction {
	quadrant := word & 0x3
	funct3 := (word >> 13) & 0x7

	bit := func(n uint) uint64 { return uint64((word >> n) & 1) }
	bits := func(hi, lo uint) uint64 { return uint64(word>>lo) & ((1 << (hi - lo + 1)) - 1) }
	rdRs1Short := uint8(bits(9, 7)) + 8
	rs2Short := uint8(bits(4, 2)) + 8

	switch quadrant {
	case 0:
		switch funct3 {
		case 0: // C.ADDI4SPN
			nzuimm := (bits(10, 7) << 6) | (bits(12, 11) << 4) | (bit(6) << 2) | (bit(5) << 3)
			if nzuimm == 0 {
				return nullInstruction(2)
			}
			return Instruction{Op: OpADDI, Size: 2, Rd: rs2Short, Rs1: 2, Imm: int64(nzuimm)}
		case 1: // C.FLD
			off := (bits(12, 10) << 3) | (bits(6, 5) << 6)
			return Instruction{Op: OpFLD, Size: 2, Rd: rs2Short, Rs1: rdRs1Short, Imm: int64(off)}
		case 2: // C.LW
			off := (bits(12, 10) << 3) | (bit(6) << 2) | (bit(5) << 6)
			return Instruction{Op: OpLW, Size: 2, Rd: rs2Short, Rs1: rdRs1Short, Imm: int64(off)}
		case 3: // C.LD
			off := (bits(12, 10) << 3) | (bits(6, 5) << 6)
			return Instruction{Op: OpLD, Size: 2, Rd: rs2Short, Rs1: rdRs1Short, Imm: int64(off)}
		case 5: // C.FSD
			off := (bits(12, 10) << 3) | (bits(6, 5) << 6)
			return Instruction{Op: OpFSD, Size: 2, Rs1: rdRs1Short, Rs2: rs2Short, Imm: int64(off)}
		case 6: // C.SW
			off := (bits(12, 10) << 3) | (bit(6) << 2) | (bit(5) << 6)
			return Instruction{Op: OpSW, Size: 2, Rs1: rdRs1Short, Rs2: rs2Short, Imm: int64(off)}
		case 7: // C.SD
			off := (bits(12, 10) << 3) | (bits(6, 5) << 6)
			return Instruction{Op: OpSD, Size: 2, Rs1: rdRs1Short, Rs2: rs2Short, Imm: int64(off)}
		}
	case 1:
		rd := uint8(bits(11, 7))
		immLo := (bit(12) << 5) | bits(6, 2)
		imm6 := signExt(immLo, 6)
		switch funct3 {
		case 0: // C.ADDI / C.NOP
			return Instruction{Op: OpADDI, Size: 2, Rd: rd, Rs1: rd, Imm: imm6}
		case 1: // C.ADDIW
			if rd == 0 {
				return nullInstruction(2)
			}
			return Instruction{Op: OpADDIW, Size: 2, Rd: rd, Rs1: rd, Imm: imm6}
		case 2: // C.LI
			return Instruction{Op: OpADDI, Size: 2, Rd: rd, Rs1: 0, Imm: imm6}
		case 3:
			if rd == 2 { // C.ADDI16SP
				nz := (bit(12) << 9) | (bit(6) << 4) | (bit(5) << 6) | (bits(4, 3) << 7) | (bit(2) << 5)
				return Instruction{Op: OpADDI, Size: 2, Rd: 2, Rs1: 2, Imm: signExt(nz, 10)}
			}
			// C.LUI
			imm := (bit(12) << 17) | (bits(6, 2) << 12)
			if rd == 0 {
				return nullInstruction(2)
			}
			return Instruction{Op: OpLUI, Size: 2, Rd: rd, Imm: signExt(imm, 18)}
		case 4:
			rdp := rdRs1Short
			funct2 := bits(11, 10)
			switch funct2 {
			case 0: // C.SRLI
				sh := (bit(12) << 5) | bits(6, 2)
				return Instruction{Op: OpSRLI, Size: 2, Rd: rdp, Rs1: rdp, Shamt: uint8(sh)}
			case 1: // C.SRAI
				sh := (bit(12) << 5) | bits(6, 2)
				return Instruction{Op: OpSRAI, Size: 2, Rd: rdp, Rs1: rdp, Shamt: uint8(sh)}
			case 2: // C.ANDI
				imm := signExt((bit(12)<<5)|bits(6, 2), 6)
				return Instruction{Op: OpANDI, Size: 2, Rd: rdp, Rs1: rdp, Imm: imm}
			case 3:
				rs2p := rs2Short
				funct2b := bits(6, 5)
				if bit(12) == 0 {
					ops := [4]Op{OpSUB, OpXOR, OpOR, OpAND}
					return Instruction{Op: ops[funct2b], Size: 2, Rd: rdp, Rs1: rdp, Rs2: rs2p}
				}
				if funct2b == 0 {
					return Instruction{Op: OpSUBW, Size: 2, Rd: rdp, Rs1: rdp, Rs2: rs2p}
				}
				if funct2b == 1 {
					return Instruction{Op: OpADDW, Size: 2, Rd: rdp, Rs1: rdp, Rs2: rs2p}
				}
				return nullInstruction(2)
			}
		case 5: // C.J
			imm := (bit(12) << 11) | (bit(11) << 4) | (bits(10, 9) << 8) | (bit(8) << 10) |
				(bit(7) << 6) | (bit(6) << 7) | (bits(5, 3) << 1) | (bit(2) << 5)
			return Instruction{Op: OpJAL, Size: 2, Rd: 0, Imm: signExt(imm, 12)}
		case 6, 7: // C.BEQZ / C.BNEZ
			rs1p := rdRs1Short
			off := (bit(12) << 8) | (bits(11, 10) << 3) | (bits(6, 5) << 6) | (bits(4, 3) << 1) | (bit(2) << 5)
			op := OpBEQ
			if funct3 == 7 {
				op = OpBNE
			}
			return Instruction{Op: op, Size: 2, Rs1: rs1p, Rs2: 0, Imm: signExt(off, 9)}
		}
	case 2:
		rd := uint8(bits(11, 7))
		switch funct3 {
		case 0: // C.SLLI
			sh := (bit(12) << 5) | bits(6, 2)
			if rd == 0 {
				return nullInstruction(2)
			}
			return Instruction{Op: OpSLLI, Size: 2, Rd: rd, Rs1: rd, Shamt: uint8(sh)}
		case 1: // C.FLDSP
			off := (bit(12) << 5) | (bits(6, 5) << 3) | (bits(4, 2) << 6)
			return Instruction{Op: OpFLD, Size: 2, Rd: rd, Rs1: 2, Imm: int64(off)}
		case 2: // C.LWSP
			if rd == 0 {
				return nullInstruction(2)
			}
			off := (bit(12) << 5) | (bits(6, 4) << 2) | (bits(3, 2) << 6)
			return Instruction{Op: OpLW, Size: 2, Rd: rd, Rs1: 2, Imm: int64(off)}
		case 3: // C.LDSP
			if rd == 0 {
				return nullInstruction(2)
			}
			off := (bit(12) << 5) | (bits(6, 5) << 3) | (bits(4, 2) << 6)
			return Instruction{Op: OpLD, Size: 2, Rd: rd, Rs1: 2, Imm: int64(off)}
		case 4:
			rs2 := uint8(bits(6, 2))
			if bit(12) == 0 {
				if rs2 == 0 { // C.JR
					if rd == 0 {
						return nullInstruction(2)
					}
					return Instruction{Op: OpJALR, Size: 2, Rd: 0, Rs1: rd, Imm: 0}
				}
				// C.MV
				return Instruction{Op: OpADD, Size: 2, Rd: rd, Rs1: 0, Rs2: rs2}
			}
			if rs2 == 0 {
				if rd == 0 { // C.EBREAK
					return Instruction{Op: OpEBREAK, Size: 2}
				}
				// C.JALR
				return Instruction{Op: OpJALR, Size: 2, Rd: 1, Rs1: rd, Imm: 0}
			}
			// C.ADD
			return Instruction{Op: OpADD, Size: 2, Rd: rd, Rs1: rd, Rs2: rs2}
		case 5: // C.FSDSP
			off := (bits(12, 10) << 3) | (bits(9, 7) << 6)
			return Instruction{Op: OpFSD, Size: 2, Rs1: 2, Rs2: uint8(bits(6, 2)), Imm: int64(off)}
		case 6: // C.SWSP
			off := (bits(12, 9) << 2) | (bits(8, 7) << 6)
			return Instruction{Op: OpSW, Size: 2, Rs1: 2, Rs2: uint8(bits(6, 2)), Imm: int64(off)}
		case 7: // C.SDSP
			off := (bits(12, 10) << 3) | (bits(9, 7) << 6)
			return Instruction{Op: OpSD, Size: 2, Rs1: 2, Rs2: uint8(bits(6, 2)), Imm: int64(off)}
		}
	}
	return nullInstruction(2)
}
