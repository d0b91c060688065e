package emu

import "math"

// execFP implements the F/D extensions (spec.md §4.4 "Floating point
// (F/D)"). Rounding mode is ignored throughout (Non-goals, spec.md §1):
// Go's default round-to-nearest-even conversions are used regardless of
// the instruction's rm field. Grounded on
// other_examples/tinyrange-cc__step.go's stepFp/stepFmAdd, absent from
// both the teacher and original_source.
func execFP(i Instruction, s *State) error {
	switch i.Op {
	case OpFLW:
		ea := s.GetReg(i.Rs1) + uint64(i.Imm)
		v := s.Mem.Read(ea, 4)
		s.SetFReg(i.Rd, 0xFFFFFFFF00000000|v)
	case OpFLD:
		ea := s.GetReg(i.Rs1) + uint64(i.Imm)
		s.SetFReg(i.Rd, s.Mem.Read(ea, 8))
	case OpFSW:
		ea := s.GetReg(i.Rs1) + uint64(i.Imm)
		s.Mem.Write(ea, 4, s.GetFReg(i.Rs2)&0xFFFFFFFF)
	case OpFSD:
		ea := s.GetReg(i.Rs1) + uint64(i.Imm)
		s.Mem.Write(ea, 8, s.GetFReg(i.Rs2))

	case OpFMVXW:
		s.SetReg(i.Rd, uint64(int64(int32(s.GetFReg(i.Rs1)))))
	case OpFMVXD:
		s.SetReg(i.Rd, s.GetFReg(i.Rs1))
	case OpFMVWX:
		s.SetFReg(i.Rd, 0xFFFFFFFF00000000|(s.GetReg(i.Rs1)&0xFFFFFFFF))
	case OpFMVDX:
		s.SetFReg(i.Rd, s.GetReg(i.Rs1))

	case OpFCVTWS:
		s.SetReg(i.Rd, uint64(int64(int32(s.GetFloat32(i.Rs1)))))
	case OpFCVTWUS:
		s.SetReg(i.Rd, signExt64(uint32(int32(s.GetFloat32(i.Rs1)))))
	case OpFCVTLS:
		s.SetReg(i.Rd, uint64(int64(s.GetFloat32(i.Rs1))))
	case OpFCVTLUS:
		s.SetReg(i.Rd, uint64(s.GetFloat32(i.Rs1)))
	case OpFCVTSW:
		s.SetFloat32(i.Rd, float32(int32(s.GetReg(i.Rs1))))
	case OpFCVTSWU:
		s.SetFloat32(i.Rd, float32(uint32(s.GetReg(i.Rs1))))
	case OpFCVTSL:
		s.SetFloat32(i.Rd, float32(int64(s.GetReg(i.Rs1))))
	case OpFCVTSLU:
		s.SetFloat32(i.Rd, float32(s.GetReg(i.Rs1)))

	case OpFCVTWD:
		s.SetReg(i.Rd, uint64(int64(int32(s.GetFloat64(i.Rs1)))))
	case OpFCVTWUD:
		s.SetReg(i.Rd, signExt64(uint32(int32(s.GetFloat64(i.Rs1)))))
	case OpFCVTLD:
		s.SetReg(i.Rd, uint64(int64(s.GetFloat64(i.Rs1))))
	case OpFCVTLUD:
		s.SetReg(i.Rd, uint64(s.GetFloat64(i.Rs1)))
	case OpFCVTDW:
		s.SetFloat64(i.Rd, float64(int32(s.GetReg(i.Rs1))))
	case OpFCVTDWU:
		s.SetFloat64(i.Rd, float64(uint32(s.GetReg(i.Rs1))))
	case OpFCVTDL:
		s.SetFloat64(i.Rd, float64(int64(s.GetReg(i.Rs1))))
	case OpFCVTDLU:
		s.SetFloat64(i.Rd, float64(s.GetReg(i.Rs1)))
	case OpFCVTSD:
		s.SetFloat32(i.Rd, float32(s.GetFloat64(i.Rs1)))
	case OpFCVTDS:
		s.SetFloat64(i.Rd, float64(s.GetFloat32(i.Rs1)))

	case OpFSGNJS, OpFSGNJNS, OpFSGNJXS:
		a := s.GetFReg(i.Rs1) &^ (1 << 31)
		var sign uint64
		switch i.Op {
		case OpFSGNJS:
			sign = s.GetFReg(i.Rs2) & (1 << 31)
		case OpFSGNJNS:
			sign = (^s.GetFReg(i.Rs2)) & (1 << 31)
		case OpFSGNJXS:
			sign = (s.GetFReg(i.Rs1) ^ s.GetFReg(i.Rs2)) & (1 << 31)
		}
		s.SetFReg(i.Rd, 0xFFFFFFFF00000000|a|sign)
	case OpFSGNJD, OpFSGNJND, OpFSGNJXD:
		a := s.GetFReg(i.Rs1) &^ (1 << 63)
		var sign uint64
		switch i.Op {
		case OpFSGNJD:
			sign = s.GetFReg(i.Rs2) & (1 << 63)
		case OpFSGNJND:
			sign = (^s.GetFReg(i.Rs2)) & (1 << 63)
		case OpFSGNJXD:
			sign = (s.GetFReg(i.Rs1) ^ s.GetFReg(i.Rs2)) & (1 << 63)
		}
		s.SetFReg(i.Rd, a|sign)

	case OpFADDS:
		s.SetFloat32(i.Rd, s.GetFloat32(i.Rs1)+s.GetFloat32(i.Rs2))
	case OpFSUBS:
		s.SetFloat32(i.Rd, s.GetFloat32(i.Rs1)-s.GetFloat32(i.Rs2))
	case OpFMULS:
		s.SetFloat32(i.Rd, s.GetFloat32(i.Rs1)*s.GetFloat32(i.Rs2))
	case OpFDIVS:
		s.SetFloat32(i.Rd, s.GetFloat32(i.Rs1)/s.GetFloat32(i.Rs2))
	case OpFSQRTS:
		s.SetFloat32(i.Rd, float32(math.Sqrt(float64(s.GetFloat32(i.Rs1)))))
	case OpFMINS:
		s.SetFloat32(i.Rd, fmin32(s.GetFloat32(i.Rs1), s.GetFloat32(i.Rs2)))
	case OpFMAXS:
		s.SetFloat32(i.Rd, fmax32(s.GetFloat32(i.Rs1), s.GetFloat32(i.Rs2)))

	case OpFADDD:
		s.SetFloat64(i.Rd, s.GetFloat64(i.Rs1)+s.GetFloat64(i.Rs2))
	case OpFSUBD:
		s.SetFloat64(i.Rd, s.GetFloat64(i.Rs1)-s.GetFloat64(i.Rs2))
	case OpFMULD:
		s.SetFloat64(i.Rd, s.GetFloat64(i.Rs1)*s.GetFloat64(i.Rs2))
	case OpFDIVD:
		s.SetFloat64(i.Rd, s.GetFloat64(i.Rs1)/s.GetFloat64(i.Rs2))
	case OpFSQRTD:
		s.SetFloat64(i.Rd, math.Sqrt(s.GetFloat64(i.Rs1)))
	case OpFMIND:
		s.SetFloat64(i.Rd, math.Min(s.GetFloat64(i.Rs1), s.GetFloat64(i.Rs2)))
	case OpFMAXD:
		s.SetFloat64(i.Rd, math.Max(s.GetFloat64(i.Rs1), s.GetFloat64(i.Rs2)))

	case OpFEQS:
		s.SetReg(i.Rd, boolU64(s.GetFloat32(i.Rs1) == s.GetFloat32(i.Rs2)))
	case OpFLTS:
		s.SetReg(i.Rd, boolU64(s.GetFloat32(i.Rs1) < s.GetFloat32(i.Rs2)))
	case OpFLES:
		s.SetReg(i.Rd, boolU64(s.GetFloat32(i.Rs1) <= s.GetFloat32(i.Rs2)))
	case OpFEQD:
		s.SetReg(i.Rd, boolU64(s.GetFloat64(i.Rs1) == s.GetFloat64(i.Rs2)))
	case OpFLTD:
		s.SetReg(i.Rd, boolU64(s.GetFloat64(i.Rs1) < s.GetFloat64(i.Rs2)))
	case OpFLED:
		s.SetReg(i.Rd, boolU64(s.GetFloat64(i.Rs1) <= s.GetFloat64(i.Rs2)))
	case OpFCLASSS:
		s.SetReg(i.Rd, fclass32(s.GetFloat32(i.Rs1)))
	case OpFCLASSD:
		s.SetReg(i.Rd, fclass64(s.GetFloat64(i.Rs1)))

	case OpFMADDS:
		s.SetFloat32(i.Rd, s.GetFloat32(i.Rs1)*s.GetFloat32(i.Rs2)+s.GetFloat32(i.Rs3))
	case OpFMSUBS:
		s.SetFloat32(i.Rd, s.GetFloat32(i.Rs1)*s.GetFloat32(i.Rs2)-s.GetFloat32(i.Rs3))
	case OpFNMSUBS:
		s.SetFloat32(i.Rd, -(s.GetFloat32(i.Rs1)*s.GetFloat32(i.Rs2))+s.GetFloat32(i.Rs3))
	case OpFNMADDS:
		s.SetFloat32(i.Rd, -(s.GetFloat32(i.Rs1)*s.GetFloat32(i.Rs2))-s.GetFloat32(i.Rs3))
	case OpFMADDD:
		s.SetFloat64(i.Rd, s.GetFloat64(i.Rs1)*s.GetFloat64(i.Rs2)+s.GetFloat64(i.Rs3))
	case OpFMSUBD:
		s.SetFloat64(i.Rd, s.GetFloat64(i.Rs1)*s.GetFloat64(i.Rs2)-s.GetFloat64(i.Rs3))
	case OpFNMSUBD:
		s.SetFloat64(i.Rd, -(s.GetFloat64(i.Rs1)*s.GetFloat64(i.Rs2))+s.GetFloat64(i.Rs3))
	case OpFNMADDD:
		s.SetFloat64(i.Rd, -(s.GetFloat64(i.Rs1)*s.GetFloat64(i.Rs2))-s.GetFloat64(i.Rs3))
	}
	s.PC += uint64(i.Size)
	return nil
}

func fmin32(a, b float32) float32 {
	return float32(math.Min(float64(a), float64(b)))
}
func fmax32(a, b float32) float32 {
	return float32(math.Max(float64(a), float64(b)))
}

func fclass32(f float32) uint64 {
	switch {
	case math.IsNaN(float64(f)):
		return 1 << 9
	case math.IsInf(float64(f), -1):
		return 1 << 0
	case math.IsInf(float64(f), 1):
		return 1 << 7
	case f == 0:
		if math.Signbit(float64(f)) {
			return 1 << 3
		}
		return 1 << 4
	case f < 0:
		return 1 << 1
	default:
		return 1 << 6
	}
}

func fclass64(f float64) uint64 {
	switch {
	case math.IsNaN(f):
		return 1 << 9
	case math.IsInf(f, -1):
		return 1 << 0
	case math.IsInf(f, 1):
		return 1 << 7
	case f == 0:
		if math.Signbit(f) {
			return 1 << 3
		}
		return 1 << 4
	case f < 0:
		return 1 << 1
	default:
		return 1 << 6
	}
}
