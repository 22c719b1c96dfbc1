// Package binary provides low-level binary I/O for UCSF file parsing.
//
// All multi-byte fields in the UCSF format are big-endian, so the reader is
// fixed to big-endian decoding. Every read is checked against the source
// length up front: a read that would run past the end fails with
// [ErrOutOfBounds] instead of returning a short result.
package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrOutOfBounds is returned when a read would extend past the end of the
// byte source.
var ErrOutOfBounds = errors.New("read beyond end of byte source")

// ReadError wraps a failed byte-source read with the offset and length that
// were requested.
type ReadError struct {
	Offset int64
	Length int
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("byte source: reading %d bytes at offset %d: %v", e.Length, e.Offset, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Reader provides position-tracked reads of big-endian values from a
// random-access byte source of known size.
type Reader struct {
	r    io.ReaderAt
	size int64
	pos  int64
}

// NewReader creates a reader over src. size is the total length of the
// source; reads are bounds-checked against it.
func NewReader(src io.ReaderAt, size int64) *Reader {
	return &Reader{r: src, size: size}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying source but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{r: r.r, size: r.size, pos: offset}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 { return r.pos }

// Size returns the total length of the underlying source.
func (r *Reader) Size() int64 { return r.size }

// Remaining returns the number of bytes between the current position and the
// end of the source.
func (r *Reader) Remaining() int64 {
	if r.pos >= r.size {
		return 0
	}
	return r.size - r.pos
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) { r.pos += n }

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if err := r.ReadInto(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadInto fills buf from the current position.
func (r *Reader) ReadInto(buf []byte) error {
	n := len(buf)
	if n == 0 {
		return nil
	}
	if r.pos < 0 || r.pos+int64(n) > r.size {
		return &ReadError{Offset: r.pos, Length: n, Err: ErrOutOfBounds}
	}
	if _, err := r.r.ReadAt(buf, r.pos); err != nil {
		return &ReadError{Offset: r.pos, Length: n, Err: err}
	}
	r.pos += int64(n)
	return nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads a big-endian unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// ReadUint32 reads a big-endian unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// ReadFloat32 reads a big-endian IEEE 754 single-precision float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadString reads an n-byte field and returns its contents up to the first
// NUL byte, with trailing spaces removed.
func (r *Reader) ReadString(n int) (string, error) {
	buf, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(bytes.TrimRight(buf, " ")), nil
}
