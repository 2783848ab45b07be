package input

import (
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Mapped is the Source variant backed by a memory-mapped file. The whole
// file is addressable from offset zero, so NextBlock simply advances a
// cursor over the existing mapping rather than performing any I/O.
type Mapped struct {
	m   mmap.MMap
	f   *os.File
	pos int64
}

// NewMapped maps f read-only for the lifetime of the returned Source.
// The returned Mapped takes ownership of f: Close unmaps it and then
// closes f.
func NewMapped(f *os.File) (*Mapped, error) {
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return &Mapped{m: m, f: f}, nil
}

func (m *Mapped) NextBlock(min int) ([]byte, error) {
	if m.pos >= int64(len(m.m)) {
		return nil, io.EOF
	}
	end := m.pos + int64(min)
	if end > int64(len(m.m)) || min <= 0 {
		end = int64(len(m.m))
	}
	block := m.m[m.pos:end]
	m.pos = end
	return block, nil
}

func (m *Mapped) ByteAt(offset int64) (byte, error) {
	if offset < 0 || offset >= int64(len(m.m)) {
		return 0, errOutOfRange(offset, int64(len(m.m)))
	}
	return m.m[offset], nil
}

func (m *Mapped) Close() error {
	if err := m.m.Unmap(); err != nil {
		return err
	}
	return m.f.Close()
}
