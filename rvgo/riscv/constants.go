// Package riscv holds ISA-level constants shared by the decoder, the
// instruction executor, and the host syscall shim: the RISC-V Linux
// syscall numbers a statically-linked program can issue, the CSR numbers
// with special sub-field semantics, and the register ABI names used in
// traces.
package riscv

// RISC-V Linux syscall numbers (subset emulated by the host shim, spec.md §4.5).
const (
	SysOpenat     = 56
	SysClose      = 57
	SysRead       = 63
	SysWrite      = 64
	SysWritev     = 66
	SysReadlinkat = 78
	SysFstat      = 80
	SysExit       = 93
	SysExitGroup  = 94
	SysUname      = 160
	SysGetuid     = 174
	SysGeteuid    = 175
	SysGetgid     = 176
	SysGetegid    = 177
	SysSbrk       = 214
	SysMmap       = 222
)

// Guest file descriptors fixed by convention.
const (
	FdStdin  = 0
	FdStdout = 1
	FdStderr = 2
)

// CSR numbers with sub-field aliasing (spec.md §4.2).
const (
	CsrFflags = 0x001
	CsrFrm    = 0x002
	CsrFcsr   = 0x003
)

const (
	FflagsMask = 0x1f // fcsr[4:0]
	FrmShift   = 5
	FrmMask    = 0x7 << FrmShift // fcsr[7:5]
)

// RegName returns the ABI mnemonic for integer register r, used in disasm
// and trace output.
func RegName(r uint8) string {
	if int(r) < len(intRegNames) {
		return intRegNames[r]
	}
	return "x?"
}

var intRegNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// FRegName returns the ABI mnemonic for FP register r.
func FRegName(r uint8) string {
	if int(r) < len(fpRegNames) {
		return fpRegNames[r]
	}
	return "f?"
}

var fpRegNames = [32]string{
	"ft0", "ft1", "ft2", "ft3", "ft4", "ft5", "ft6", "ft7",
	"fs0", "fs1", "fa0", "fa1", "fa2", "fa3", "fa4", "fa5",
	"fa6", "fa7", "fs2", "fs3", "fs4", "fs5", "fs6", "fs7",
	"fs8", "fs9", "fs10", "fs11", "ft8", "ft9", "ft10", "ft11",
}
