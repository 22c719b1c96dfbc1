package ucsf

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/go-ucsf/internal/header"
)

// Axis describes one dimension of a spectrum: its extent, tiling and
// frequency calibration. Axis values are plain copies; they stay valid after
// the Spectrum is closed.
type Axis struct {
	hdr   header.AxisHeader
	tiles int
}

// Nucleus returns the nucleus label, e.g. "1H" or "15N".
func (a Axis) Nucleus() string { return a.hdr.Nucleus }

// Points returns the number of data points along the axis.
func (a Axis) Points() int { return a.hdr.Points }

// TileSize returns the tile extent along the axis.
func (a Axis) TileSize() int { return a.hdr.TileSize }

// Frequency returns the spectrometer frequency in MHz.
func (a Axis) Frequency() float64 { return a.hdr.Frequency }

// SpectralWidth returns the spectral width in Hz.
func (a Axis) SpectralWidth() float64 { return a.hdr.SpectralWidth }

// Center returns the center of the axis in ppm.
func (a Axis) Center() float64 { return a.hdr.Center }

// Tiles returns the number of tiles along the axis.
func (a Axis) Tiles() int { return a.tiles }

// PaddedSize returns the stored extent of the axis including padding,
// Tiles()*TileSize().
func (a Axis) PaddedSize() int { return a.tiles * a.hdr.TileSize }

// TileIsPadded reports whether the i-th tile along the axis extends past the
// axis's logical extent.
func (a Axis) TileIsPadded(i int) bool { return a.TilePadding(i) > 0 }

// TilePadding returns the number of padding cells the i-th tile along the
// axis carries. Only the last tile can be padded.
func (a Axis) TilePadding(i int) int {
	if i < 0 || i >= a.tiles {
		return 0
	}
	end := (i + 1) * a.hdr.TileSize
	if end <= a.hdr.Points {
		return 0
	}
	return end - a.hdr.Points
}

// Hz returns the frequency position of the point at index, relative to the
// carrier: the first point sits at +SpectralWidth/2 and positions decrease
// along the axis.
func (a Axis) Hz(index int) float64 {
	return a.hdr.SpectralWidth * (0.5 - float64(index)/float64(a.hdr.Points))
}

// PPM returns the chemical-shift position of the point at index.
func (a Axis) PPM(index int) float64 {
	return a.hdr.Center + a.Hz(index)/a.hdr.Frequency
}

// IndexOfHz returns the index of the point nearest to the given frequency
// offset, clamped into [0, Points()-1].
func (a Axis) IndexOfHz(hz float64) int {
	i := a.nearestHz(hz)
	if i < 0 {
		return 0
	}
	if i >= a.hdr.Points {
		return a.hdr.Points - 1
	}
	return i
}

// IndexOfPPM returns the index of the point nearest to the given chemical
// shift, clamped into [0, Points()-1].
func (a Axis) IndexOfPPM(ppm float64) int {
	return a.IndexOfHz((ppm - a.hdr.Center) * a.hdr.Frequency)
}

// IndexOfHzStrict is IndexOfHz without clamping: frequencies whose nearest
// index falls outside the axis fail with ErrOutOfRange.
func (a Axis) IndexOfHzStrict(hz float64) (int, error) {
	i := a.nearestHz(hz)
	if i < 0 || i >= a.hdr.Points {
		return 0, fmt.Errorf("%w: %g Hz resolves to index %d on a %d-point axis",
			ErrOutOfRange, hz, i, a.hdr.Points)
	}
	return i, nil
}

// IndexOfPPMStrict is IndexOfPPM without clamping.
func (a Axis) IndexOfPPMStrict(ppm float64) (int, error) {
	i, err := a.IndexOfHzStrict((ppm - a.hdr.Center) * a.hdr.Frequency)
	if err != nil {
		return 0, fmt.Errorf("%w: %g ppm outside axis", ErrOutOfRange, ppm)
	}
	return i, nil
}

func (a Axis) nearestHz(hz float64) int {
	return int(math.Round(float64(a.hdr.Points) * (0.5 - hz/a.hdr.SpectralWidth)))
}
