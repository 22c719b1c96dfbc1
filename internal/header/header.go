// Package header decodes the fixed-layout UCSF file and axis headers.
//
// A UCSF file starts with a 180-byte file header followed by one 128-byte
// header per axis, outermost axis first. All multi-byte fields are
// big-endian. The layout follows the Sparky manual's UCSF format
// description.
package header

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-ucsf/internal/binary"
)

// Fixed sizes of the header regions, in bytes.
const (
	FileHeaderSize = 180
	AxisHeaderSize = 128
)

// Magic identifies a UCSF spectrum file. The two bytes that follow it in the
// file are reserved and not validated.
const Magic = "UCSF NMR"

// Version is the only format version this package decodes.
const Version = 2

// Sentinel errors for header decoding.
var (
	ErrMalformedHeader    = errors.New("malformed UCSF header")
	ErrUnsupportedVersion = errors.New("unsupported UCSF format version")
	ErrTruncated          = errors.New("truncated UCSF file")
)

// FileHeader is the decoded 180-byte file header.
type FileHeader struct {
	// Dimensions is the number of axes in the spectrum (byte 10).
	Dimensions int
	// Components is the number of float components per data point:
	// 1 for real, 2 for real+imaginary (byte 11).
	Components int
	// Version is the format version (bytes 12-13).
	Version int
	// Reserved holds bytes 14-179 unparsed. Sparky stores free-form text
	// such as the recording date here.
	Reserved []byte
}

// AxisHeader is one decoded 128-byte axis header.
type AxisHeader struct {
	// Nucleus is the NUL-terminated nucleus label, e.g. "1H" or "13C"
	// (bytes 0-7).
	Nucleus string
	// Points is the number of data points along this axis (bytes 8-11).
	Points int
	// TileSize is the tile extent along this axis (bytes 16-19). It may
	// exceed Points, in which case a single padded tile covers the axis.
	TileSize int
	// Frequency is the spectrometer frequency in MHz (bytes 20-23).
	Frequency float64
	// SpectralWidth is the spectral width in Hz (bytes 24-27).
	SpectralWidth float64
	// Center is the center of the axis in ppm (bytes 28-31).
	Center float64
	// Reserved holds bytes 32-127 unparsed.
	Reserved []byte
}

// DataOffset returns the byte offset at which tile data starts for a
// spectrum with the given number of axes.
func DataOffset(dimensions int) int64 {
	return FileHeaderSize + int64(dimensions)*AxisHeaderSize
}

// Parse decodes the file header and all axis headers from the start of r.
//
// It fails with ErrTruncated when the source is shorter than the structure
// the header declares, ErrMalformedHeader when the magic bytes or field
// values are invalid, and ErrUnsupportedVersion for any version other than 2.
// No bytes beyond the header region are read.
func Parse(r *binary.Reader) (*FileHeader, []AxisHeader, error) {
	if r.Size() < FileHeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes, file header needs %d",
			ErrTruncated, r.Size(), FileHeaderSize)
	}

	buf, err := r.At(0).ReadBytes(FileHeaderSize)
	if err != nil {
		return nil, nil, err
	}
	if string(buf[:len(Magic)]) != Magic {
		return nil, nil, fmt.Errorf("%w: bad magic %q", ErrMalformedHeader, buf[:len(Magic)])
	}

	hdr := &FileHeader{
		Dimensions: int(buf[10]),
		Components: int(buf[11]),
		Version:    int(buf[12])<<8 | int(buf[13]),
		Reserved:   buf[14:FileHeaderSize],
	}
	if hdr.Version != Version {
		return nil, nil, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, hdr.Version)
	}
	if hdr.Dimensions < 1 {
		return nil, nil, fmt.Errorf("%w: dimension count is zero", ErrMalformedHeader)
	}
	if hdr.Components < 1 || hdr.Components > 2 {
		return nil, nil, fmt.Errorf("%w: component count %d (want 1 or 2)",
			ErrMalformedHeader, hdr.Components)
	}

	if r.Size() < DataOffset(hdr.Dimensions) {
		return nil, nil, fmt.Errorf("%w: %d bytes, %d-axis header block needs %d",
			ErrTruncated, r.Size(), hdr.Dimensions, DataOffset(hdr.Dimensions))
	}

	// One bounded read covers the whole axis block; the per-axis fields
	// are then decoded from memory.
	block, err := r.At(FileHeaderSize).ReadBytes(hdr.Dimensions * AxisHeaderSize)
	if err != nil {
		return nil, nil, err
	}

	br := binary.NewReader(bytes.NewReader(block), int64(len(block)))
	axes := make([]AxisHeader, hdr.Dimensions)
	for i := range axes {
		axis, err := parseAxis(br.At(int64(i) * AxisHeaderSize))
		if err != nil {
			return nil, nil, fmt.Errorf("axis %d: %w", i, err)
		}
		axes[i] = axis
	}
	return hdr, axes, nil
}

// parseAxis decodes one 128-byte axis header starting at r's position.
func parseAxis(r *binary.Reader) (AxisHeader, error) {
	var a AxisHeader
	var err error

	if a.Nucleus, err = r.ReadString(8); err != nil {
		return a, err
	}
	points, err := r.ReadUint32()
	if err != nil {
		return a, err
	}
	r.Skip(4) // unused
	tileSize, err := r.ReadUint32()
	if err != nil {
		return a, err
	}
	freq, err := r.ReadFloat32()
	if err != nil {
		return a, err
	}
	width, err := r.ReadFloat32()
	if err != nil {
		return a, err
	}
	center, err := r.ReadFloat32()
	if err != nil {
		return a, err
	}
	reserved, err := r.ReadBytes(96)
	if err != nil {
		return a, err
	}

	a.Points = int(points)
	a.TileSize = int(tileSize)
	a.Frequency = float64(freq)
	a.SpectralWidth = float64(width)
	a.Center = float64(center)
	a.Reserved = reserved

	if a.Points < 1 {
		return a, fmt.Errorf("%w: axis has zero data points", ErrMalformedHeader)
	}
	return a, nil
}
