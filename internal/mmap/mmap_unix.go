//go:build unix

// Package mmap provides a read-only memory-mapped byte source with a plain
// file fallback on platforms without mmap support.
package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ReaderAt is a read-only memory mapping of a file. It implements
// io.ReaderAt and reports its total length via Size.
type ReaderAt struct {
	data []byte
}

// Open maps the file at path read-only. Access is advised as random, which
// matches tile-at-a-time reads.
func Open(path string) (*ReaderAt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return &ReaderAt{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	// Best effort: tile reads jump around the file.
	_ = unix.Madvise(data, unix.MADV_RANDOM)

	return &ReaderAt{data: data}, nil
}

// ReadAt implements io.ReaderAt over the mapping.
func (r *ReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(r.data)) {
		return 0, fmt.Errorf("mmap: offset %d out of range (size %d)", off, len(r.data))
	}
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, fmt.Errorf("mmap: short read of %d bytes at offset %d", len(p), off)
	}
	return n, nil
}

// Size returns the length of the mapping.
func (r *ReaderAt) Size() int64 { return int64(len(r.data)) }

// Close unmaps the file. The ReaderAt must not be used afterwards.
func (r *ReaderAt) Close() error {
	if r.data == nil {
		return nil
	}
	data := r.data
	r.data = nil
	return unix.Munmap(data)
}
