package emu

import (
	"encoding/binary"
	"fmt"
)

// Memory is a sparse array of byte-backed Blocks addressed by guest virtual
// address, per spec.md §4.1. It is scanned linearly on each access that
// misses the one-entry cache below: program segments are few (tens), so an
// interval tree buys nothing here.
type Memory struct {
	blocks []*Block

	// last is a one-entry cache of the most recently touched block: fetch
	// and the data access that follows it usually land in the same block.
	last *Block

	log func(format string, args ...any)
}

// Block is a contiguous byte-backed region of guest virtual memory.
type Block struct {
	VA   uint64
	Data []byte
}

func (b *Block) end() uint64 { return b.VA + uint64(len(b.Data)) }

// NewMemory returns an empty sparse memory. log, if non-nil, receives one
// line per diagnostic (cross-block or out-of-range access, overlap); it
// defaults to a no-op so tests don't need to wire a logger.
func NewMemory() *Memory {
	return &Memory{log: func(string, ...any) {}}
}

// SetLogger installs the diagnostic sink used for non-fatal access errors.
func (m *Memory) SetLogger(log func(format string, args ...any)) {
	if log != nil {
		m.log = log
	}
}

// AddBlock inserts a block of sz bytes at va, copying data if given, else
// zero-filling. If an existing block ends exactly where this one begins,
// the new bytes are appended to it (spec.md §4.1's "exact contiguous
// growth" case) instead of creating a new block. Any other overlap with an
// existing block is reported and the new block is still added; an access
// to an overlapped range goes to the most recently used block that fully
// contains it, else to the first such block in insertion order.
func (m *Memory) AddBlock(va uint64, sz uint64, data []byte) {
	for _, b := range m.blocks {
		if b.end() == va {
			grown := make([]byte, len(b.Data)+int(sz))
			copy(grown, b.Data)
			copy(grown[len(b.Data):], data)
			b.Data = grown
			m.last = b
			return
		}
		if va < b.end() && b.VA < va+sz {
			m.log("sparse memory: new block [0x%x,0x%x) overlaps existing block [0x%x,0x%x)", va, va+sz, b.VA, b.end())
		}
	}

	nb := &Block{VA: va}
	if data != nil {
		nb.Data = make([]byte, sz)
		copy(nb.Data, data)
	} else {
		nb.Data = make([]byte, sz)
	}
	m.blocks = append(m.blocks, nb)
	m.last = nb
}

// findBlock returns the block fully containing [va, va+size), or nil.
func (m *Memory) findBlock(va, size uint64) *Block {
	if b := m.last; b != nil && b.VA <= va && va+size <= b.end() {
		return b
	}
	for _, b := range m.blocks {
		if b.VA <= va && va+size <= b.end() {
			m.last = b
			return b
		}
	}
	return nil
}

// Read returns the zero-extended little-endian value of size (1, 2, 4, or
// 8) bytes at va. A cross-block or out-of-range access logs a diagnostic
// and returns 0.
func (m *Memory) Read(va uint64, size uint8) uint64 {
	b := m.findBlock(va, uint64(size))
	if b == nil {
		if m.touchesAnyBlock(va, size) {
			m.log("sparse memory: cross-block read at 0x%x size %d", va, size)
		} else {
			m.log("sparse memory: read outside of allocated memory: 0x%x size %d", va, size)
		}
		return 0
	}
	off := va - b.VA
	switch size {
	case 1:
		return uint64(b.Data[off])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b.Data[off:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b.Data[off:]))
	case 8:
		return binary.LittleEndian.Uint64(b.Data[off:])
	default:
		panic(fmt.Sprintf("invalid memory access size %d", size))
	}
}

// Write stores the low size bytes of val, little-endian, at va. A
// cross-block or out-of-range access logs a diagnostic and the write is
// dropped.
func (m *Memory) Write(va uint64, size uint8, val uint64) {
	b := m.findBlock(va, uint64(size))
	if b == nil {
		if m.touchesAnyBlock(va, size) {
			m.log("sparse memory: cross-block write at 0x%x size %d", va, size)
		} else {
			m.log("sparse memory: write outside of allocated memory: 0x%x size %d", va, size)
		}
		return
	}
	off := va - b.VA
	switch size {
	case 1:
		b.Data[off] = byte(val)
	case 2:
		binary.LittleEndian.PutUint16(b.Data[off:], uint16(val))
	case 4:
		binary.LittleEndian.PutUint32(b.Data[off:], uint32(val))
	case 8:
		binary.LittleEndian.PutUint64(b.Data[off:], val)
	default:
		panic(fmt.Sprintf("invalid memory access size %d", size))
	}
}

func (m *Memory) touchesAnyBlock(va uint64, size uint8) bool {
	end := va + uint64(size)
	for _, b := range m.blocks {
		if va < b.end() && b.VA < end {
			return true
		}
	}
	return false
}

// ReadBytes copies n bytes starting at va into a fresh slice, reading
// byte-by-byte via Read so it shares the same diagnostics and zero-fill
// behavior as individual accesses. Used by syscall marshalling (§4.5) where
// a guest buffer may span multiple blocks (e.g. a NUL-terminated path).
func (m *Memory) ReadBytes(va uint64, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = byte(m.Read(va+uint64(i), 1))
	}
	return out
}

// WriteBytes writes data to va one byte at a time, sharing the same
// diagnostics as individual accesses.
func (m *Memory) WriteBytes(va uint64, data []byte) {
	for i, v := range data {
		m.Write(va+uint64(i), 1, uint64(v))
	}
}

// TopOfBlocks returns the highest address one past the end of any block,
// used to seed sbrk's initial program break.
func (m *Memory) TopOfBlocks() uint64 {
	var top uint64
	for _, b := range m.blocks {
		if e := b.end(); e > top {
			top = e
		}
	}
	return top
}
