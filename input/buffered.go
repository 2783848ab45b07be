package input

import (
	"bufio"
	"errors"
	"io"
)

// Buffered is the Source variant for a plain io.Reader (pipes, sockets,
// decompressing streams). It accumulates delivered bytes so ByteAt can
// satisfy the contract's random-access requirement; callers scanning huge
// streams from a seekable file should prefer Mapped instead.
type Buffered struct {
	src io.Reader
	r   *bufio.Reader
	buf []byte
	eof bool
}

// NewBuffered wraps r for block-at-a-time scanning.
func NewBuffered(r io.Reader) *Buffered {
	return &Buffered{src: r, r: bufio.NewReaderSize(r, 1<<20)}
}

func (b *Buffered) NextBlock(min int) ([]byte, error) {
	if b.eof {
		return nil, io.EOF
	}
	start := len(b.buf)
	want := min
	if want < 1 {
		want = 1
	}
	b.buf = append(b.buf, make([]byte, want)...)
	n, err := io.ReadFull(b.r, b.buf[start:])
	b.buf = b.buf[:start+n]
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			b.eof = true
			if n == 0 {
				return nil, io.EOF
			}
			return b.buf[start : start+n], nil
		}
		return nil, err
	}
	return b.buf[start : start+n], nil
}

func (b *Buffered) ByteAt(offset int64) (byte, error) {
	if offset < 0 || offset >= int64(len(b.buf)) {
		return 0, errOutOfRange(offset, int64(len(b.buf)))
	}
	return b.buf[offset], nil
}

func (b *Buffered) Close() error {
	if c, ok := b.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func errOutOfRange(offset, delivered int64) error {
	return &RangeError{Offset: offset, Delivered: delivered}
}

// RangeError reports a ByteAt call outside the bytes delivered so far.
type RangeError struct {
	Offset    int64
	Delivered int64
}

func (e *RangeError) Error() string {
	return "input: offset out of delivered range"
}
