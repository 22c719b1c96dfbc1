//go:build !unix

package mmap

import "os"

// ReaderAt reads a file with positioned reads on platforms without mmap.
type ReaderAt struct {
	f    *os.File
	size int64
}

// Open opens the file at path for read-only positioned access.
func Open(path string) (*ReaderAt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &ReaderAt{f: f, size: fi.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (r *ReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return r.f.ReadAt(p, off)
}

// Size returns the file size at open time.
func (r *ReaderAt) Size() int64 { return r.size }

// Close closes the underlying file.
func (r *ReaderAt) Close() error { return r.f.Close() }
