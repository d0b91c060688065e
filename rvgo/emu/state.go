package emu

import (
	"math"

	"github.com/rvfun/rvsim/rvgo/riscv"
)

// Host is the narrow surface the emu package needs from the host shim: an
// ECALL looks up x17 and asks the host to run the syscall against the
// current state. The host package implements this; emu never imports host,
// keeping the dependency one-directional.
type Host interface {
	Syscall(s *State) error
	Exited() bool
	ExitCode() uint8
}

// State is the hart's architectural state: PC, the two register files, the
// sparse CSR map, and non-owning references to memory and the host shim.
type State struct {
	PC uint64
	X  [32]uint64
	F  [32]uint64

	CSR map[uint16]uint64

	Debug bool

	// TraceReg, when non-nil and Debug is set, receives every integer
	// register write — the "-v" verbose state trace (spec.md §6).
	TraceReg func(r uint8, v uint64)

	Mem  *Memory
	Host Host

	// Step counts instructions retired, checked against the -i budget.
	Step uint64
}

// NewState returns a zeroed State wired to mem and host.
func NewState(mem *Memory, host Host) *State {
	return &State{
		CSR: make(map[uint16]uint64),
		Mem: mem,
		Host: host,
	}
}

// GetReg returns x[r]; x0 is hardwired to zero (spec.md §3).
func (s *State) GetReg(r uint8) uint64 {
	if r == 0 {
		return 0
	}
	return s.X[r]
}

// SetReg writes x[r], silently discarding writes to x0.
func (s *State) SetReg(r uint8, v uint64) {
	if r == 0 {
		return
	}
	s.X[r] = v
	if s.Debug && s.TraceReg != nil {
		s.TraceReg(r, v)
	}
}

// GetFReg returns the raw 64-bit bit pattern of f[r].
func (s *State) GetFReg(r uint8) uint64 {
	return s.F[r]
}

// SetFReg overwrites the raw 64-bit bit pattern of f[r].
func (s *State) SetFReg(r uint8, v uint64) {
	s.F[r] = v
}

// GetFloat32 returns f[r] narrowed to single precision: the low 32 bits,
// per spec.md §4.2.
func (s *State) GetFloat32(r uint8) float32 {
	return math.Float32frombits(uint32(s.F[r]))
}

// SetFloat32 NaN-boxes v into f[r]: upper 32 bits set to all ones.
func (s *State) SetFloat32(r uint8, v float32) {
	s.F[r] = 0xFFFFFFFF00000000 | uint64(math.Float32bits(v))
}

// GetFloat64 returns f[r] as a double using all 64 bits.
func (s *State) GetFloat64(r uint8) float64 {
	return math.Float64frombits(s.F[r])
}

// SetFloat64 overwrites f[r] with the bit pattern of v.
func (s *State) SetFloat64(r uint8, v float64) {
	s.F[r] = math.Float64bits(v)
}

// GetCSR reads CSR number n, with fflags/frm resolved as sub-fields of the
// parent fcsr value (spec.md §4.2). Absent CSRs read as 0.
func (s *State) GetCSR(n uint16) uint64 {
	switch n {
	case riscv.CsrFflags:
		return s.CSR[riscv.CsrFcsr] & riscv.FflagsMask
	case riscv.CsrFrm:
		return (s.CSR[riscv.CsrFcsr] & riscv.FrmMask) >> riscv.FrmShift
	default:
		return s.CSR[n]
	}
}

// SetCSR writes CSR number n. fflags/frm are read-modify-write on the
// parent fcsr value so the sibling sub-field survives untouched; all other
// CSR numbers are opaque storage (spec.md §4.2, §9 open question on the
// write-mask computation — resolved here as a plain overwrite).
func (s *State) SetCSR(n uint16, v uint64) {
	switch n {
	case riscv.CsrFflags:
		parent := s.CSR[riscv.CsrFcsr]
		s.CSR[riscv.CsrFcsr] = (parent &^ uint64(riscv.FflagsMask)) | (v & riscv.FflagsMask)
	case riscv.CsrFrm:
		parent := s.CSR[riscv.CsrFcsr]
		s.CSR[riscv.CsrFcsr] = (parent &^ uint64(riscv.FrmMask)) | ((v << riscv.FrmShift) & riscv.FrmMask)
	default:
		s.CSR[n] = v
	}
}

// ReadIMem fetches size bytes at va for instruction fetch. It shares
// Memory's read semantics but is a distinct entry point so trace logging
// can skip it: fetch is not a data access (spec.md §4.2).
func (s *State) ReadIMem(va uint64, size uint8) uint64 {
	return s.Mem.Read(va, size)
}
