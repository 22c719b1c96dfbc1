// Package ucsf reads UCSF (Sparky) NMR spectrum files.
package ucsf

import (
	"github.com/robert-malhotra/go-ucsf/internal/binary"
	"github.com/robert-malhotra/go-ucsf/internal/header"
	"github.com/robert-malhotra/go-ucsf/internal/tile"
)

// Common errors. All are comparable with errors.Is against errors returned
// anywhere in this package.
var (
	// ErrMalformedHeader reports bad magic bytes or invalid header fields.
	ErrMalformedHeader = header.ErrMalformedHeader
	// ErrUnsupportedVersion reports a format version other than 2.
	ErrUnsupportedVersion = header.ErrUnsupportedVersion
	// ErrTruncated reports a byte source shorter than the structure its
	// header declares.
	ErrTruncated = header.ErrTruncated
	// ErrInvalidGeometry reports a zero tile size or a tile grid too large
	// to address.
	ErrInvalidGeometry = tile.ErrInvalidGeometry
	// ErrOutOfRange reports a coordinate or axis index outside the
	// spectrum's logical extent.
	ErrOutOfRange = tile.ErrOutOfRange
	// ErrReadOutOfBounds reports a read past the end of the byte source.
	// It is wrapped in a *ReadError.
	ErrReadOutOfBounds = binary.ErrOutOfBounds
)

// ReadError wraps a failed byte-source read with the offset and length that
// were requested.
type ReadError = binary.ReadError
