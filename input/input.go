// Package input implements the byte-input abstraction the matching engine
// scans over: buffered readers, memory-mapped files, and owned in-memory
// buffers, all behind one capability interface.
package input

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Source is the capability set the classifier needs from any input
// variant: sequential block delivery plus random read-only access to
// bytes already delivered, keyed by stable absolute offsets.
type Source interface {
	// NextBlock returns the next chunk of at least min bytes (fewer only
	// at end of input), or io.EOF once exhausted. The returned slice is
	// valid until the next call to NextBlock.
	NextBlock(min int) ([]byte, error)

	// ByteAt returns the byte at an absolute offset already delivered by
	// NextBlock. It is used by the engine to re-inspect bytes (e.g.
	// re-reading a key literal) without re-scanning.
	ByteAt(offset int64) (byte, error)

	// Close releases any resources (file handles, mappings).
	Close() error
}

// OpenPath opens path for scanning, choosing a memory-mapped source for
// non-empty regular files and a buffered source otherwise (empty files,
// pipes, sockets). Files
// ending in ".zst" are transparently decompressed through a buffered
// source; mmap is not applicable to a streaming decompressor.
func OpenPath(path string) (Source, error) {
	if strings.HasSuffix(path, ".zst") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		cc := &closeChain{Reader: zr, closers: []io.Closer{zstdCloser{zr}, f}}
		return NewBuffered(cc), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Mode().IsRegular() && info.Size() > 0 {
		m, err := NewMapped(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return m, nil
	}
	return NewBuffered(f), nil
}

type zstdCloser struct{ zr *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.zr.Close()
	return nil
}

// closeChain lets OpenPath hand back a single Source whose Close tears
// down both the decompressor and the underlying file.
type closeChain struct {
	io.Reader
	closers []io.Closer
}

func (c *closeChain) Read(p []byte) (int, error) { return c.Reader.Read(p) }

func (c *closeChain) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
