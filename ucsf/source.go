package ucsf

import "io"

// Source is a random-access byte source for a spectrum: anything that
// supports positioned reads and knows its total length. Files, memory maps
// and in-memory buffers all qualify.
//
// The Source is borrowed, not owned: it must remain valid for the lifetime
// of any Spectrum opened over it, and Open never closes it. Concurrent use
// of a Spectrum requires the Source's ReadAt to be safe for concurrent
// calls, which holds for *os.File, memory maps and immutable buffers.
type Source interface {
	io.ReaderAt
	Size() int64
}

// BytesSource adapts an in-memory buffer to the Source interface.
type BytesSource []byte

// ReadAt implements io.ReaderAt.
func (b BytesSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

// Size returns the buffer length.
func (b BytesSource) Size() int64 { return int64(len(b)) }

// NewSource adapts any io.ReaderAt of known size to the Source interface.
func NewSource(r io.ReaderAt, size int64) Source {
	return readerSource{r: r, size: size}
}

type readerSource struct {
	r    io.ReaderAt
	size int64
}

func (s readerSource) ReadAt(p []byte, off int64) (int, error) { return s.r.ReadAt(p, off) }
func (s readerSource) Size() int64                             { return s.size }
