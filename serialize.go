package jscan

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// serializedVersion guards the offset-stream format; ReadOffsets refuses
// anything else rather than silently misreading it.
const serializedVersion = 1

// CompressMode selects how WriteOffsets compresses a match-offset stream.
// Offsets are delta-encoded before compression either way, since a sorted
// ascending offset list (invariant: non-decreasing and distinct, §8) is
// exactly the shape delta+varint encoding is built for.
type CompressMode uint8

const (
	// CompressNone stores delta-varints uncompressed.
	CompressNone CompressMode = iota
	// CompressFast wraps the delta-varints in an s2 stream: cheap to
	// produce, the right default for results forwarded between processes.
	CompressFast
	// CompressBest wraps them in a zstd stream instead, trading
	// compression time for a smaller result on disk.
	CompressBest
)

// WriteOffsets persists a sorted slice of match offsets (as produced by
// IndexSink.Offsets) to w, for handing a Match result to another process
// or storing it alongside the document it was computed from.
func WriteOffsets(w io.Writer, offsets []int64, mode CompressMode) error {
	var header [10]byte
	header[0] = serializedVersion
	header[1] = byte(mode)
	n := binary.PutUvarint(header[2:], uint64(len(offsets)))
	if _, err := w.Write(header[:2+n]); err != nil {
		return err
	}

	cw, closeCW, err := wrapCompressWriter(w, mode)
	if err != nil {
		return err
	}

	buf := make([]byte, 0, 10*len(offsets))
	var scratch [binary.MaxVarintLen64]byte
	var prev int64
	for _, off := range offsets {
		delta := off - prev
		prev = off
		n := binary.PutUvarint(scratch[:], uint64(delta))
		buf = append(buf, scratch[:n]...)
	}
	if _, err := cw.Write(buf); err != nil {
		closeCW()
		return err
	}
	return closeCW()
}

func wrapCompressWriter(w io.Writer, mode CompressMode) (io.Writer, func() error, error) {
	switch mode {
	case CompressNone:
		return w, func() error { return nil }, nil
	case CompressFast:
		sw := s2.NewWriter(w)
		return sw, sw.Close, nil
	case CompressBest:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, nil, err
		}
		return zw, zw.Close, nil
	default:
		return nil, nil, fmt.Errorf("jscan: unknown compress mode %d", mode)
	}
}

// ReadOffsets is the inverse of WriteOffsets.
func ReadOffsets(r io.Reader) ([]int64, error) {
	br := bufio.NewReader(r)
	version, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != serializedVersion {
		return nil, fmt.Errorf("jscan: unsupported offset stream version %d", version)
	}
	modeByte, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	mode := CompressMode(modeByte)
	count, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, err
	}

	cr, err := wrapDecompressReader(br, mode)
	if err != nil {
		return nil, err
	}

	offsets := make([]int64, 0, count)
	var prev int64
	for i := uint64(0); i < count; i++ {
		delta, err := binary.ReadUvarint(cr)
		if err != nil {
			return nil, err
		}
		prev += int64(delta)
		offsets = append(offsets, prev)
	}
	return offsets, nil
}

func wrapDecompressReader(r *bufio.Reader, mode CompressMode) (io.ByteReader, error) {
	switch mode {
	case CompressNone:
		return r, nil
	case CompressFast:
		return bufio.NewReader(s2.NewReader(r)), nil
	case CompressBest:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return bufio.NewReader(zr), nil
	default:
		return nil, fmt.Errorf("jscan: unknown compress mode %d", mode)
	}
}
