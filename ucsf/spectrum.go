package ucsf

import (
	"fmt"
	"io"

	"github.com/robert-malhotra/go-ucsf/internal/binary"
	"github.com/robert-malhotra/go-ucsf/internal/header"
	"github.com/robert-malhotra/go-ucsf/internal/mmap"
	"github.com/robert-malhotra/go-ucsf/internal/tile"
)

// Components is the number of float components stored per data point,
// resolved once from the file header at open time.
type Components uint8

const (
	// Real data points carry a single magnitude component.
	Real Components = 1
	// RealImaginary data points interleave a real and an imaginary
	// component.
	RealImaginary Components = 2
)

func (c Components) String() string {
	switch c {
	case Real:
		return "real"
	case RealImaginary:
		return "real+imaginary"
	default:
		return fmt.Sprintf("Components(%d)", uint8(c))
	}
}

// Sample is the value of one data point. Im is zero for spectra whose
// component count is Real.
type Sample struct {
	Re float32
	Im float32
}

// Spectrum is an open UCSF spectrum. The header and tile geometry are
// decoded once at open time and immutable afterwards, so a Spectrum is safe
// for concurrent readers as long as its Source is.
type Spectrum struct {
	src    Source
	hdr    *header.FileHeader
	axes   []header.AxisHeader
	geo    *tile.Geometry
	closer io.Closer // set when the Spectrum owns its source (OpenFile)
}

// Open decodes the headers of the spectrum in src and returns a handle over
// it. The source is borrowed: the caller keeps ownership and must keep it
// valid for the Spectrum's lifetime.
//
// Open fails fast, before any tile data is touched: bad magic bytes yield
// ErrMalformedHeader, an unknown version ErrUnsupportedVersion, and a source
// too short for its declared structure ErrTruncated.
func Open(src Source, opts ...Option) (*Spectrum, error) {
	o := defaultOpenOptions()
	for _, opt := range opts {
		opt(o)
	}

	r := binary.NewReader(src, src.Size())
	hdr, axes, err := header.Parse(r)
	if err != nil {
		return nil, err
	}

	points := make([]int, len(axes))
	tileSize := make([]int, len(axes))
	for i, a := range axes {
		points[i] = a.Points
		tileSize[i] = a.TileSize
	}
	geo, err := tile.NewGeometry(points, tileSize, hdr.Components, header.DataOffset(hdr.Dimensions))
	if err != nil {
		return nil, err
	}

	if !o.allowTruncated {
		if want := geo.DataStart + geo.DataBytes(); src.Size() < want {
			return nil, fmt.Errorf("%w: %d bytes, tile data extends to %d",
				ErrTruncated, src.Size(), want)
		}
	}

	return &Spectrum{src: src, hdr: hdr, axes: axes, geo: geo}, nil
}

// OpenFile opens the spectrum stored in the file at path. The file is
// memory-mapped read-only where the platform supports it. Unlike Open, the
// returned Spectrum owns the mapping; release it with Close.
func OpenFile(path string, opts ...Option) (*Spectrum, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	s, err := Open(m, opts...)
	if err != nil {
		m.Close()
		return nil, err
	}
	s.closer = m
	return s, nil
}

// Close releases the byte source if the Spectrum owns it (OpenFile). It is a
// no-op for spectra opened over a borrowed Source.
func (s *Spectrum) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

// Dimensions returns the number of axes.
func (s *Spectrum) Dimensions() int { return s.hdr.Dimensions }

// Components returns the per-point component layout.
func (s *Spectrum) Components() Components { return Components(s.hdr.Components) }

// Version returns the format version (always 2).
func (s *Spectrum) Version() int { return s.hdr.Version }

// Axis returns the axis with the given index, outermost first.
// It panics if d is out of range, mirroring slice indexing.
func (s *Spectrum) Axis(d int) Axis {
	return Axis{hdr: s.axes[d], tiles: s.geo.TileCount[d]}
}

// Axes returns all axes in declared order.
func (s *Spectrum) Axes() []Axis {
	axes := make([]Axis, len(s.axes))
	for d := range s.axes {
		axes[d] = s.Axis(d)
	}
	return axes
}

// Shape returns the logical extent of every axis.
func (s *Spectrum) Shape() []int {
	shape := make([]int, s.geo.Rank)
	copy(shape, s.geo.Points)
	return shape
}

// NumPoints returns the total number of logical data points.
func (s *Spectrum) NumPoints() int64 { return s.geo.NumPoints() }

// PointAt reads the sample at the given coordinate, one per-axis index,
// outermost first. It fails with ErrOutOfRange for coordinates outside the
// logical extent; padding cells are not addressable.
func (s *Spectrum) PointAt(coord []int) (Sample, error) {
	off, err := s.geo.Offset(coord)
	if err != nil {
		return Sample{}, err
	}
	buf := make([]byte, s.geo.SampleBytes())
	r := binary.NewReader(s.src, s.src.Size()).At(off)
	if err := r.ReadInto(buf); err != nil {
		return Sample{}, err
	}
	return decodeSample(buf, s.hdr.Components), nil
}

// Data de-tiles the whole spectrum into a row-major array of the logical
// extent, outermost axis slowest, with components interleaved. The returned
// slice holds NumPoints()*Components() floats and is independent of the
// tile layout on disk.
func (s *Spectrum) Data() ([]float32, error) {
	nc := s.hdr.Components
	out := make([]float32, s.geo.NumPoints()*int64(nc))

	strides := make([]int64, s.geo.Rank)
	stride := int64(nc)
	for d := s.geo.Rank - 1; d >= 0; d-- {
		strides[d] = stride
		stride *= int64(s.geo.Points[d])
	}

	it := s.Points()
	for it.Next() {
		pos := int64(0)
		for d, c := range it.Coord() {
			pos += int64(c) * strides[d]
		}
		sm := it.Sample()
		out[pos] = sm.Re
		if nc == 2 {
			out[pos+1] = sm.Im
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Bounds returns the smallest and largest real component over all logical
// data points.
func (s *Spectrum) Bounds() (min, max float32, err error) {
	first := true
	it := s.Points()
	for it.Next() {
		v := it.Sample().Re
		if first || v < min {
			min = v
		}
		if first || v > max {
			max = v
		}
		first = false
	}
	if err := it.Err(); err != nil {
		return 0, 0, err
	}
	return min, max, nil
}
