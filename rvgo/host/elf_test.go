package host

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rvfun/rvsim/rvgo/emu"
)

// buildMinimalELF64 hand-assembles the smallest valid little-endian ELF64
// executable debug/elf will parse: one ELF header, one PT_LOAD program
// header, and a handful of payload bytes. There is no cross-compiler in
// this environment to produce a real RISC-V binary, so the bytes are
// synthesized directly.
func buildMinimalELF64(t *testing.T, vaddr, filesz, memsz, align uint64, payload []byte) []byte {
	t.Helper()

	const ehdrSize = 64
	const phdrSize = 56

	var buf bytes.Buffer
	buf.Write([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0})
	buf.Write(make([]byte, 8))

	le := binary.LittleEndian
	write16 := func(v uint16) { var b [2]byte; le.PutUint16(b[:], v); buf.Write(b[:]) }
	write32 := func(v uint32) { var b [4]byte; le.PutUint32(b[:], v); buf.Write(b[:]) }
	write64 := func(v uint64) { var b [8]byte; le.PutUint64(b[:], v); buf.Write(b[:]) }

	write16(uint16(elf.ET_EXEC))
	write16(uint16(elf.EM_RISCV))
	write32(1)
	write64(vaddr + ehdrSize + phdrSize)
	write64(ehdrSize)
	write64(0)
	write32(0)
	write16(ehdrSize)
	write16(phdrSize)
	write16(1)
	write16(0)
	write16(0)
	write16(0)

	write32(uint32(elf.PT_LOAD))
	write32(5) // PF_R|PF_X
	write64(0)
	write64(vaddr)
	write64(vaddr)
	write64(filesz)
	write64(memsz)
	write64(align)

	out := buf.Bytes()
	if uint64(len(out)) < filesz {
		out = append(out, make([]byte, filesz-uint64(len(out)))...)
	}
	copy(out[uint64(len(out))-uint64(len(payload)):], payload)
	return out
}

func TestLoadELFCopiesPTLoadSegment(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	raw := buildMinimalELF64(t, 0x10000, 256, 512, 4096, payload)

	f, err := elf.NewFile(bytes.NewReader(raw))
	require.NoError(t, err)

	mem := emu.NewMemory()
	entry, err := LoadELF(f, mem)
	require.NoError(t, err)
	require.EqualValues(t, 0x10000+64+56, entry)

	got := mem.ReadBytes(0x10000+256-uint64(len(payload)), len(payload))
	require.Equal(t, payload, got)
}

func TestLoadELFZeroFillsBeyondFilesz(t *testing.T) {
	raw := buildMinimalELF64(t, 0x20000, 128, 512, 4096, nil)

	f, err := elf.NewFile(bytes.NewReader(raw))
	require.NoError(t, err)

	mem := emu.NewMemory()
	_, err = LoadELF(f, mem)
	require.NoError(t, err)

	// memsz (512) exceeds filesz (128): the tail must read as zero rather
	// than triggering an out-of-range diagnostic.
	var diagnosed bool
	mem.SetLogger(func(string, ...any) { diagnosed = true })
	v := mem.Read(0x20000+400, 8)
	require.EqualValues(t, 0, v)
	require.False(t, diagnosed)
}
