package host

import (
	"fmt"
	"io"
	"os"

	"github.com/rvfun/rvsim/rvgo/emu"
	"github.com/rvfun/rvsim/rvgo/riscv"
)

// sysWrite copies len bytes from the guest buffer at buf to the host FD
// backing fd, one byte at a time via imem-semantics reads (spec.md §4.5
// "write"). Returns the count written, or ^uint64(0) (-1) on a bad FD.
// When StdoutTee/StderrTee is set (spec.md §6 "-v"), the same bytes are
// also mirrored there so a caller can watch guest output live instead of
// tailing the stdout.<pid>/stderr.<pid> redirect files.
func (h *Shim) sysWrite(s *emu.State, fd, buf, length uint64) uint64 {
	f, ok := h.hostFD(fd)
	if !ok {
		return negOne
	}
	data := s.Mem.ReadBytes(buf, int(length))
	n, err := f.Write(data)
	if err != nil {
		return negOne
	}
	if tee := h.teeFor(fd); tee != nil {
		tee.Write(data[:n])
	}
	return uint64(n)
}

func (h *Shim) teeFor(fd uint64) io.Writer {
	switch fd {
	case riscv.FdStdout:
		return h.StdoutTee
	case riscv.FdStderr:
		return h.StderrTee
	default:
		return nil
	}
}

// iovec is the 16-byte (base, len) pair writev consumes (spec.md glossary).
const iovecSize = 16

// sysWritev iterates iovcnt (base, len) pairs starting at iov, writing
// each to the host FD (spec.md §4.5 "writev").
func (h *Shim) sysWritev(s *emu.State, fd, iov, iovcnt uint64) uint64 {
	f, ok := h.hostFD(fd)
	if !ok {
		return negOne
	}
	var total uint64
	for i := uint64(0); i < iovcnt; i++ {
		entry := iov + i*iovecSize
		base := s.Mem.Read(entry, 8)
		length := s.Mem.Read(entry+8, 8)
		data := s.Mem.ReadBytes(base, int(length))
		n, err := f.Write(data)
		if err != nil {
			return negOne
		}
		if tee := h.teeFor(fd); tee != nil {
			tee.Write(data[:n])
		}
		total += uint64(n)
	}
	return total
}

// sysRead reads up to length bytes from the host FD into the guest buffer
// (spec.md §4.5 "read").
func (h *Shim) sysRead(s *emu.State, fd, buf, length uint64) uint64 {
	f, ok := h.hostFD(fd)
	if !ok {
		return negOne
	}
	data := make([]byte, length)
	n, err := f.Read(data)
	if err != nil && n == 0 {
		return negOne
	}
	s.Mem.WriteBytes(buf, data[:n])
	return uint64(n)
}

// readGuestString reads bytes from va until a NUL terminator.
func readGuestString(s *emu.State, va uint64) string {
	var out []byte
	for i := uint64(0); i < 4096; i++ {
		b := byte(s.Mem.Read(va+i, 1))
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return string(out)
}

// sysOpenat marshals the guest path and opens it on the host, appending a
// new guest FD (spec.md §4.5 "openat"). A path of /dev/tty is aliased to
// guest FD 1 (stdout).
func (h *Shim) sysOpenat(s *emu.State, _dirfd, pathPtr, flags, mode uint64) uint64 {
	path := readGuestString(s, pathPtr)
	if path == "/dev/tty" {
		return riscv.FdStdout
	}

	hostFlags := os.O_RDONLY
	if flags&0x1 != 0 {
		hostFlags = os.O_WRONLY
	}
	if flags&0x2 != 0 {
		hostFlags = os.O_RDWR
	}
	var target string
	if flags&0x40 != 0 { // O_CREAT: write target gets a per-PID suffix
		hostFlags |= os.O_CREATE
		target = fmt.Sprintf("%s.%d", path, h.pid)
	} else {
		target = path
	}

	f, err := os.OpenFile(target, hostFlags, os.FileMode(mode&0777))
	if err != nil {
		h.Log("openat(%q) failed: %v", path, err)
		return negOne
	}
	return h.allocFD(f)
}

// sysClose closes the host file behind fd, if any, and clears its slot; it
// always reports success (spec.md §4.4 "close").
func (h *Shim) sysClose(fd uint64) uint64 {
	if f, ok := h.hostFD(fd); ok {
		f.Close()
		h.fds[fd] = nil
	}
	return 0
}

const (
	statModeOff    = 16
	statBlksizeOff = 56
	charDeviceMode = 0x2190
	defaultBlksize = 8192
)

// sysFstat fills in st_mode and st_blksize at the indicated offsets in the
// guest stat buffer (spec.md §4.5 "fstat"). fd==FdStdout reports a char
// device; other FDs are fstat'd on the host.
func (h *Shim) sysFstat(s *emu.State, fd, statBuf uint64) uint64 {
	if fd == riscv.FdStdout {
		s.Mem.Write(statBuf+statModeOff, 8, charDeviceMode)
		s.Mem.Write(statBuf+statBlksizeOff, 8, defaultBlksize)
		return 0
	}
	f, ok := h.hostFD(fd)
	if !ok {
		return negOne
	}
	info, err := f.Stat()
	if err != nil {
		return negOne
	}
	mode := uint64(info.Mode().Perm())
	if info.IsDir() {
		mode |= 0x4000
	} else {
		mode |= 0x8000
	}
	s.Mem.Write(statBuf+statModeOff, 8, mode)
	s.Mem.Write(statBuf+statBlksizeOff, 8, defaultBlksize)
	return 0
}

// sysReadlinkat answers only /proc/self/exe, copying the program name
// into buf (spec.md §4.5 "readlinkat").
func (h *Shim) sysReadlinkat(s *emu.State, pathPtr, buf, length uint64) uint64 {
	path := readGuestString(s, pathPtr)
	if path != "/proc/self/exe" {
		return 0
	}
	name := h.progName
	if uint64(len(name)) > length {
		name = name[:length]
	}
	s.Mem.WriteBytes(buf, []byte(name))
	return uint64(len(name))
}

const utsFieldLen = 65

// sysUname fills the six UTS fields at buf (spec.md §4.5 "uname").
func (h *Shim) sysUname(s *emu.State, buf uint64) uint64 {
	for i := 0; i < 6; i++ {
		s.Mem.WriteBytes(buf+uint64(i*utsFieldLen), make([]byte, utsFieldLen))
	}
	s.Mem.WriteBytes(buf, []byte("Linux"))
	s.Mem.WriteBytes(buf+2*utsFieldLen, []byte("4.15.0"))
	return 0
}

// sysSbrk implements the program-break protocol: req==0 reads the current
// break, req beyond it grows by allocating a new block, shrink requests
// are a no-op (spec.md §4.5 "sbrk").
func (h *Shim) sysSbrk(req uint64) uint64 {
	if req == 0 || req <= h.topOfHeap {
		return h.topOfHeap
	}
	h.Mem.AddBlock(h.topOfHeap, req-h.topOfHeap, nil)
	h.topOfHeap = req
	return h.topOfHeap
}

const mmapAnonymous = 0x20

// sysMmap allocates at the bump pointer, or at addr when the guest passes a
// non-zero one, zero-filling for anonymous requests and copying from the
// host file otherwise (spec.md §4.5 "mmap"). Open Question (spec.md §9):
// the bump-pointer policy is a monotonically increasing pointer seeded
// just past the initial stack block by CompleteEnv; documented here rather
// than left ambiguous.
func (h *Shim) sysMmap(s *emu.State, addr, length, _prot, flags, fd uint64) uint64 {
	base := h.mmapBump
	if addr != 0 {
		base = addr
	}
	if flags&mmapAnonymous != 0 {
		h.Mem.AddBlock(base, length, nil)
	} else if f, ok := h.hostFD(fd); ok {
		data := make([]byte, length)
		n, _ := f.Read(data)
		h.Mem.AddBlock(base, length, data[:n])
	} else {
		h.Mem.AddBlock(base, length, nil)
	}

	grown := length
	if rem := grown % mmapAlign; rem != 0 {
		grown += mmapAlign - rem
	}
	if end := base + grown; end > h.mmapBump {
		h.mmapBump = end
	}
	return base
}

const negOne = ^uint64(0)
