package emu

var opNames = map[Op]string{
	OpLUI: "lui", OpAUIPC: "auipc", OpJAL: "jal", OpJALR: "jalr",
	OpBEQ: "beq", OpBNE: "bne", OpBLT: "blt", OpBGE: "bge", OpBLTU: "bltu", OpBGEU: "bgeu",
	OpLB: "lb", OpLH: "lh", OpLW: "lw", OpLD: "ld", OpLBU: "lbu", OpLHU: "lhu", OpLWU: "lwu",
	OpSB: "sb", OpSH: "sh", OpSW: "sw", OpSD: "sd",
	OpADDI: "addi", OpSLTI: "slti", OpSLTIU: "sltiu", OpXORI: "xori", OpORI: "ori", OpANDI: "andi",
	OpSLLI: "slli", OpSRLI: "srli", OpSRAI: "srai",
	OpADD: "add", OpSUB: "sub", OpSLL: "sll", OpSLT: "slt", OpSLTU: "sltu",
	OpXOR: "xor", OpSRL: "srl", OpSRA: "sra", OpOR: "or", OpAND: "and",
	OpADDIW: "addiw", OpSLLIW: "slliw", OpSRLIW: "srliw", OpSRAIW: "sraiw",
	OpADDW: "addw", OpSUBW: "subw", OpSLLW: "sllw", OpSRLW: "srlw", OpSRAW: "sraw",
	OpMUL: "mul", OpMULH: "mulh", OpMULHSU: "mulhsu", OpMULHU: "mulhu",
	OpDIV: "div", OpDIVU: "divu", OpREM: "rem", OpREMU: "remu",
	OpMULW: "mulw", OpDIVW: "divw", OpDIVUW: "divuw", OpREMW: "remw", OpREMUW: "remuw",
	OpLRW: "lr.w", OpLRD: "lr.d", OpSCW: "sc.w", OpSCD: "sc.d",
	OpAMOSWAPW: "amoswap.w", OpAMOADDW: "amoadd.w", OpAMOXORW: "amoxor.w", OpAMOANDW: "amoand.w",
	OpAMOORW: "amoor.w", OpAMOMINW: "amomin.w", OpAMOMAXW: "amomax.w",
	OpAMOMINUW: "amominu.w", OpAMOMAXUW: "amomaxu.w",
	OpAMOSWAPD: "amoswap.d", OpAMOADDD: "amoadd.d", OpAMOXORD: "amoxor.d", OpAMOANDD: "amoand.d",
	OpAMOORD: "amoor.d", OpAMOMIND: "amomin.d", OpAMOMAXD: "amomax.d",
	OpAMOMINUD: "amominu.d", OpAMOMAXUD: "amomaxu.d",
	OpFLW: "flw", OpFLD: "fld", OpFSW: "fsw", OpFSD: "fsd",
	OpFMVXW: "fmv.x.w", OpFMVXD: "fmv.x.d", OpFMVWX: "fmv.w.x", OpFMVDX: "fmv.d.x",
	OpFCVTWS: "fcvt.w.s", OpFCVTWUS: "fcvt.wu.s", OpFCVTLS: "fcvt.l.s", OpFCVTLUS: "fcvt.lu.s",
	OpFCVTSW: "fcvt.s.w", OpFCVTSWU: "fcvt.s.wu", OpFCVTSL: "fcvt.s.l", OpFCVTSLU: "fcvt.s.lu",
	OpFCVTWD: "fcvt.w.d", OpFCVTWUD: "fcvt.wu.d", OpFCVTLD: "fcvt.l.d", OpFCVTLUD: "fcvt.lu.d",
	OpFCVTDW: "fcvt.d.w", OpFCVTDWU: "fcvt.d.wu", OpFCVTDL: "fcvt.d.l", OpFCVTDLU: "fcvt.d.lu",
	OpFCVTSD: "fcvt.s.d", OpFCVTDS: "fcvt.d.s",
	OpFSGNJS: "fsgnj.s", OpFSGNJNS: "fsgnjn.s", OpFSGNJXS: "fsgnjx.s",
	OpFSGNJD: "fsgnj.d", OpFSGNJND: "fsgnjn.d", OpFSGNJXD: "fsgnjx.d",
	OpFADDS: "fadd.s", OpFSUBS: "fsub.s", OpFMULS: "fmul.s", OpFDIVS: "fdiv.s",
	OpFSQRTS: "fsqrt.s", OpFMINS: "fmin.s", OpFMAXS: "fmax.s",
	OpFADDD: "fadd.d", OpFSUBD: "fsub.d", OpFMULD: "fmul.d", OpFDIVD: "fdiv.d",
	OpFSQRTD: "fsqrt.d", OpFMIND: "fmin.d", OpFMAXD: "fmax.d",
	OpFEQS: "feq.s", OpFLTS: "flt.s", OpFLES: "fle.s",
	OpFEQD: "feq.d", OpFLTD: "flt.d", OpFLED: "fle.d",
	OpFCLASSS: "fclass.s", OpFCLASSD: "fclass.d",
	OpFMADDS: "fmadd.s", OpFMSUBS: "fmsub.s", OpFNMSUBS: "fnmsub.s", OpFNMADDS: "fnmadd.s",
	OpFMADDD: "fmadd.d", OpFMSUBD: "fmsub.d", OpFNMSUBD: "fnmsub.d", OpFNMADDD: "fnmadd.d",
	OpECALL: "ecall", OpEBREAK: "ebreak", OpFENCE: "fence", OpFENCEI: "fence.i",
	OpCSRRW: "csrrw", OpCSRRS: "csrrs", OpCSRRC: "csrrc",
	OpCSRRWI: "csrrwi", OpCSRRSI: "csrrsi", OpCSRRCI: "csrrci",
}
