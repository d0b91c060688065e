package emu

// execAtomic implements the A extension (spec.md §4.4 "Atomics (A)"). The
// reservation monitor is not modeled: LR is a plain load, SC is a plain
// store that always reports success. Grounded on
// other_examples/tinyrange-cc__step.go's funct5 switch over AMOADD..
// AMOMAXU, which the original source and the teacher never implement.
func execAtomic(i Instruction, s *State) error {
	is64 := isAtomic64(i.Op)
	addr := s.GetReg(i.Rs1)
	size := uint8(4)
	if is64 {
		size = 8
	}

	switch i.Op {
	case OpLRW, OpLRD:
		v := s.Mem.Read(addr, size)
		if !is64 {
			v = uint64(signExt(v, 32))
		}
		s.SetReg(i.Rd, v)
	case OpSCW, OpSCD:
		s.Mem.Write(addr, size, s.GetReg(i.Rs2))
		s.SetReg(i.Rd, 0)
	default:
		old := s.Mem.Read(addr, size)
		rs2 := s.GetReg(i.Rs2)
		loaded := old
		if !is64 {
			loaded = uint64(signExt(old, 32))
		}
		s.SetReg(i.Rd, loaded)

		var result uint64
		if is64 {
			result = amoCompute(i.Op, old, rs2, true)
		} else {
			result = uint64(uint32(amoCompute(i.Op, old, rs2, false)))
		}
		s.Mem.Write(addr, size, result)
	}
	s.PC += uint64(i.Size)
	return nil
}

func isAtomic64(op Op) bool {
	switch op {
	case OpLRD, OpSCD, OpAMOSWAPD, OpAMOADDD, OpAMOXORD, OpAMOANDD, OpAMOORD,
		OpAMOMIND, OpAMOMAXD, OpAMOMINUD, OpAMOMAXUD:
		return true
	default:
		return false
	}
}

// amoCompute applies the read-modify-write operator selected by op to
// (old, rs2). is64 picks signed-compare width for MIN/MAX.
func amoCompute(op Op, old, rs2 uint64, is64 bool) uint64 {
	signed := func(v uint64) int64 {
		if is64 {
			return int64(v)
		}
		return int64(int32(v))
	}
	switch op {
	case OpAMOSWAPW, OpAMOSWAPD:
		return rs2
	case OpAMOADDW, OpAMOADDD:
		return old + rs2
	case OpAMOXORW, OpAMOXORD:
		return old ^ rs2
	case OpAMOORW, OpAMOORD:
		return old | rs2
	case OpAMOANDW, OpAMOANDD:
		return old & rs2
	case OpAMOMINW, OpAMOMIND:
		if signed(old) < signed(rs2) {
			return old
		}
		return rs2
	case OpAMOMAXW, OpAMOMAXD:
		if signed(old) > signed(rs2) {
			return old
		}
		return rs2
	case OpAMOMINUW, OpAMOMINUD:
		if old < rs2 {
			return old
		}
		return rs2
	case OpAMOMAXUW, OpAMOMAXUD:
		if old > rs2 {
			return old
		}
		return rs2
	}
	return old
}
