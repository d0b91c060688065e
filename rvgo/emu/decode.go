package emu

// Decode32 turns a 32-bit opcode word into an Instruction. It is pure: the
// result depends only on word (spec.md §4.3, tested by §8.4). Grounded on
// original_source/arch_decode.cpp's decode32 for RV64IM, extended with the
// AMO/FP groups absent there per other_examples/tinyrange-cc__step.go and
// standard RISC-V encoding tables.
func Decode32(word uint32) Instruction {
	opcode := word & 0x7f
	rd := uint8((word >> 7) & 0x1f)
	funct3 := uint8((word >> 12) & 0x7)
	rs1 := uint8((word >> 15) & 0x1f)
	rs2 := uint8((word >> 20) & 0x1f)
	funct7 := uint8((word >> 25) & 0x7f)

	iImm := signExt(uint64(word>>20), 12)
	sImm := signExt(((uint64(word)>>25)<<5)|((uint64(word)>>7)&0x1f), 12)
	bImm := signExt(
		((uint64(word)>>31)&1)<<12|
			((uint64(word)>>7)&1)<<11|
			((uint64(word)>>25)&0x3f)<<5|
			((uint64(word)>>8)&0xf)<<1,
		13)
	uImm := int64(int32(word & 0xfffff000))
	jImm := signExt(
		((uint64(word)>>31)&1)<<20|
			((uint64(word)>>12)&0xff)<<12|
			((uint64(word)>>20)&1)<<11|
			((uint64(word)>>21)&0x3ff)<<1,
		21)

	switch opcode {
	case 0x37: // LUI
		return Instruction{Op: OpLUI, Size: 4, Rd: rd, Imm: uImm}
	case 0x17: // AUIPC
		return Instruction{Op: OpAUIPC, Size: 4, Rd: rd, Imm: uImm}
	case 0x6F: // JAL
		return Instruction{Op: OpJAL, Size: 4, Rd: rd, Imm: jImm}
	case 0x67: // JALR
		if funct3 != 0 {
			return nullInstruction(4)
		}
		return Instruction{Op: OpJALR, Size: 4, Rd: rd, Rs1: rs1, Imm: iImm}
	case 0x63: // BRANCH
		ops := [8]Op{OpBEQ, OpBNE, OpUnknown, OpUnknown, OpBLT, OpBGE, OpBLTU, OpBGEU}
		op := ops[funct3]
		if op == OpUnknown {
			return nullInstruction(4)
		}
		return Instruction{Op: op, Size: 4, Rs1: rs1, Rs2: rs2, Imm: bImm}
	case 0x03: // LOAD
		ops := [8]Op{OpLB, OpLH, OpLW, OpLD, OpLBU, OpLHU, OpLWU, OpUnknown}
		op := ops[funct3]
		if op == OpUnknown {
			return nullInstruction(4)
		}
		return Instruction{Op: op, Size: 4, Rd: rd, Rs1: rs1, Imm: iImm}
	case 0x23: // STORE
		ops := [4]Op{OpSB, OpSH, OpSW, OpSD}
		if funct3 > 3 {
			return nullInstruction(4)
		}
		return Instruction{Op: ops[funct3], Size: 4, Rs1: rs1, Rs2: rs2, Imm: sImm}
	case 0x13: // OP-IMM
		shamt := uint8(word>>20) & 0x3f
		switch funct3 {
		case 0:
			return Instruction{Op: OpADDI, Size: 4, Rd: rd, Rs1: rs1, Imm: iImm}
		case 1:
			return Instruction{Op: OpSLLI, Size: 4, Rd: rd, Rs1: rs1, Shamt: shamt}
		case 2:
			return Instruction{Op: OpSLTI, Size: 4, Rd: rd, Rs1: rs1, Imm: iImm}
		case 3:
			return Instruction{Op: OpSLTIU, Size: 4, Rd: rd, Rs1: rs1, Imm: iImm}
		case 4:
			return Instruction{Op: OpXORI, Size: 4, Rd: rd, Rs1: rs1, Imm: iImm}
		case 5:
			if funct7&0x20 != 0 {
				return Instruction{Op: OpSRAI, Size: 4, Rd: rd, Rs1: rs1, Shamt: shamt}
			}
			return Instruction{Op: OpSRLI, Size: 4, Rd: rd, Rs1: rs1, Shamt: shamt}
		case 6:
			return Instruction{Op: OpORI, Size: 4, Rd: rd, Rs1: rs1, Imm: iImm}
		case 7:
			return Instruction{Op: OpANDI, Size: 4, Rd: rd, Rs1: rs1, Imm: iImm}
		}
	case 0x1B: // OP-IMM-32
		shamt := uint8(word>>20) & 0x1f
		switch funct3 {
		case 0:
			return Instruction{Op: OpADDIW, Size: 4, Rd: rd, Rs1: rs1, Imm: iImm}
		case 1:
			return Instruction{Op: OpSLLIW, Size: 4, Rd: rd, Rs1: rs1, Shamt: shamt}
		case 5:
			if funct7&0x20 != 0 {
				return Instruction{Op: OpSRAIW, Size: 4, Rd: rd, Rs1: rs1, Shamt: shamt}
			}
			return Instruction{Op: OpSRLIW, Size: 4, Rd: rd, Rs1: rs1, Shamt: shamt}
		}
		return nullInstruction(4)
	case 0x33: // OP / MULDIV
		if funct7 == 0x01 {
			ops := [8]Op{OpMUL, OpMULH, OpMULHSU, OpMULHU, OpDIV, OpDIVU, OpREM, OpREMU}
			return Instruction{Op: ops[funct3], Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
		}
		switch funct3 {
		case 0:
			if funct7&0x20 != 0 {
				return Instruction{Op: OpSUB, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
			}
			return Instruction{Op: OpADD, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
		case 1:
			return Instruction{Op: OpSLL, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
		case 2:
			return Instruction{Op: OpSLT, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
		case 3:
			return Instruction{Op: OpSLTU, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
		case 4:
			return Instruction{Op: OpXOR, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
		case 5:
			if funct7&0x20 != 0 {
				return Instruction{Op: OpSRA, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
			}
			return Instruction{Op: OpSRL, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
		case 6:
			return Instruction{Op: OpOR, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
		case 7:
			return Instruction{Op: OpAND, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
		}
	case 0x3B: // OP-32 / MULDIVW
		if funct7 == 0x01 {
			switch funct3 {
			case 0:
				return Instruction{Op: OpMULW, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
			case 4:
				return Instruction{Op: OpDIVW, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
			case 5:
				return Instruction{Op: OpDIVUW, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
			case 6:
				return Instruction{Op: OpREMW, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
			case 7:
				return Instruction{Op: OpREMUW, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
			}
			return nullInstruction(4)
		}
		switch funct3 {
		case 0:
			if funct7&0x20 != 0 {
				return Instruction{Op: OpSUBW, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
			}
			return Instruction{Op: OpADDW, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
		case 1:
			return Instruction{Op: OpSLLW, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
		case 5:
			if funct7&0x20 != 0 {
				return Instruction{Op: OpSRAW, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
			}
			return Instruction{Op: OpSRLW, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
		}
		return nullInstruction(4)
	case 0x2F: // AMO
		funct5 := (word >> 27) & 0x1f
		aq := (word>>26)&1 != 0
		rl := (word>>25)&1 != 0
		is64 := funct3 == 3
		if funct3 != 2 && funct3 != 3 {
			return nullInstruction(4)
		}
		op := amoOp(funct5, is64)
		if op == OpUnknown {
			return nullInstruction(4)
		}
		return Instruction{Op: op, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2, Aq: aq, Rl: rl}
	case 0x07: // LOAD-FP
		switch funct3 {
		case 2:
			return Instruction{Op: OpFLW, Size: 4, Rd: rd, Rs1: rs1, Imm: iImm}
		case 3:
			return Instruction{Op: OpFLD, Size: 4, Rd: rd, Rs1: rs1, Imm: iImm}
		}
		return nullInstruction(4)
	case 0x27: // STORE-FP
		switch funct3 {
		case 2:
			return Instruction{Op: OpFSW, Size: 4, Rs1: rs1, Rs2: rs2, Imm: sImm}
		case 3:
			return Instruction{Op: OpFSD, Size: 4, Rs1: rs1, Rs2: rs2, Imm: sImm}
		}
		return nullInstruction(4)
	case 0x43, 0x47, 0x4B, 0x4F: // FMADD/FMSUB/FNMSUB/FNMADD
		rs3 := uint8((word >> 27) & 0x1f)
		isDouble := (word>>25)&0x3 == 1
		var base Op
		switch opcode {
		case 0x43:
			base = OpFMADDS
		case 0x47:
			base = OpFMSUBS
		case 0x4B:
			base = OpFNMSUBS
		case 0x4F:
			base = OpFNMADDS
		}
		if isDouble {
			base += Op(OpFMADDD - OpFMADDS)
		}
		return Instruction{Op: base, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2, Rs3: rs3}
	case 0x53: // OP-FP
		return decodeOpFP(rd, rs1, rs2, funct3, funct7)
	case 0x0F: // MISC-MEM
		if funct3 == 1 {
			return Instruction{Op: OpFENCEI, Size: 4}
		}
		return Instruction{Op: OpFENCE, Size: 4}
	case 0x73: // SYSTEM
		imm12 := word >> 20
		switch funct3 {
		case 0:
			if imm12 == 1 {
				return Instruction{Op: OpEBREAK, Size: 4}
			}
			return Instruction{Op: OpECALL, Size: 4}
		case 1:
			return Instruction{Op: OpCSRRW, Size: 4, Rd: rd, Rs1: rs1, Imm: int64(imm12)}
		case 2:
			return Instruction{Op: OpCSRRS, Size: 4, Rd: rd, Rs1: rs1, Imm: int64(imm12)}
		case 3:
			return Instruction{Op: OpCSRRC, Size: 4, Rd: rd, Rs1: rs1, Imm: int64(imm12)}
		case 5:
			return Instruction{Op: OpCSRRWI, Size: 4, Rd: rd, Rs1: rs1, Imm: int64(imm12)}
		case 6:
			return Instruction{Op: OpCSRRSI, Size: 4, Rd: rd, Rs1: rs1, Imm: int64(imm12)}
		case 7:
			return Instruction{Op: OpCSRRCI, Size: 4, Rd: rd, Rs1: rs1, Imm: int64(imm12)}
		}
	}
	return nullInstruction(4)
}

func amoOp(funct5 uint32, is64 bool) Op {
	type pair struct{ w, d Op }
	table := map[uint32]pair{
		0x02: {OpLRW, OpLRD},
		0x03: {OpSCW, OpSCD},
		0x01: {OpAMOSWAPW, OpAMOSWAPD},
		0x00: {OpAMOADDW, OpAMOADDD},
		0x04: {OpAMOXORW, OpAMOXORD},
		0x08: {OpAMOORW, OpAMOORD},
		0x0C: {OpAMOANDW, OpAMOANDD},
		0x10: {OpAMOMINW, OpAMOMIND},
		0x14: {OpAMOMAXW, OpAMOMAXD},
		0x18: {OpAMOMINUW, OpAMOMINUD},
		0x1C: {OpAMOMAXUW, OpAMOMAXUD},
	}
	p, ok := table[funct5]
	if !ok {
		return OpUnknown
	}
	if is64 {
		return p.d
	}
	return p.w
}

// decodeOpFP handles major opcode 0x53 (OP-FP): arithmetic, compare,
// sign-injection, conversion, and move instructions for F and D, keyed by
// funct7 per the standard RISC-V F/D encoding (absent from
// original_source, which never implements floating point).
func decodeOpFP(rd, rs1, rs2, funct3 uint8, funct7 uint8) Instruction {
	base := Instruction{Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}
	switch funct7 {
	case 0x00:
		base.Op = OpFADDS
	case 0x01:
		base.Op = OpFADDD
	case 0x04:
		base.Op = OpFSUBS
	case 0x05:
		base.Op = OpFSUBD
	case 0x08:
		base.Op = OpFMULS
	case 0x09:
		base.Op = OpFMULD
	case 0x0C:
		base.Op = OpFDIVS
	case 0x0D:
		base.Op = OpFDIVD
	case 0x2C:
		base.Op = OpFSQRTS
	case 0x2D:
		base.Op = OpFSQRTD
	case 0x10:
		if funct3 >= 3 {
			return nullInstruction(4)
		}
		base.Op = [3]Op{OpFSGNJS, OpFSGNJNS, OpFSGNJXS}[funct3]
	case 0x11:
		if funct3 >= 3 {
			return nullInstruction(4)
		}
		base.Op = [3]Op{OpFSGNJD, OpFSGNJND, OpFSGNJXD}[funct3]
	case 0x14:
		if funct3 == 0 {
			base.Op = OpFMINS
		} else {
			base.Op = OpFMAXS
		}
	case 0x15:
		if funct3 == 0 {
			base.Op = OpFMIND
		} else {
			base.Op = OpFMAXD
		}
	case 0x20:
		base.Op = OpFCVTSD // rs2 == 1
	case 0x21:
		base.Op = OpFCVTDS // rs2 == 0
	case 0x60:
		if rs2 >= 4 {
			return nullInstruction(4)
		}
		base.Op = [4]Op{OpFCVTWS, OpFCVTWUS, OpFCVTLS, OpFCVTLUS}[rs2]
	case 0x61:
		if rs2 >= 4 {
			return nullInstruction(4)
		}
		base.Op = [4]Op{OpFCVTWD, OpFCVTWUD, OpFCVTLD, OpFCVTLUD}[rs2]
	case 0x68:
		if rs2 >= 4 {
			return nullInstruction(4)
		}
		base.Op = [4]Op{OpFCVTSW, OpFCVTSWU, OpFCVTSL, OpFCVTSLU}[rs2]
	case 0x69:
		if rs2 >= 4 {
			return nullInstruction(4)
		}
		base.Op = [4]Op{OpFCVTDW, OpFCVTDWU, OpFCVTDL, OpFCVTDLU}[rs2]
	case 0x70:
		if funct3 == 0 {
			base.Op = OpFMVXW
		} else {
			base.Op = OpFCLASSS
		}
	case 0x71:
		if funct3 == 0 {
			base.Op = OpFMVXD
		} else {
			base.Op = OpFCLASSD
		}
	case 0x78:
		base.Op = OpFMVWX
	case 0x79:
		base.Op = OpFMVDX
	case 0x50:
		if funct3 >= 3 {
			return nullInstruction(4)
		}
		base.Op = [3]Op{OpFLES, OpFLTS, OpFEQS}[funct3]
	case 0x51:
		if funct3 >= 3 {
			return nullInstruction(4)
		}
		base.Op = [3]Op{OpFLED, OpFLTD, OpFEQD}[funct3]
	default:
		return nullInstruction(4)
	}
	return base
}

// signExt interprets the low bits-wide field of v as a two's-complement
// value and sign-extends it to 64 bits.
func signExt(v uint64, bits uint) int64 {
	shift := 64 - bits
	return int64(v<<shift) >> shift
}
