// Package tile provides the tile-grid arithmetic for UCSF spectra.
//
// Sample data is stored as a row-major grid of fixed-size hyper-rectangular
// tiles, each tile holding row-major cells of big-endian float32 components.
// The first declared axis is the slowest-varying, both across the tile grid
// and within a tile. Tiles on the high edge of an axis may extend past the
// axis's logical point count; those padding cells are physically present in
// the file but are not part of the coordinate space.
package tile

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for geometry computation and addressing.
var (
	ErrInvalidGeometry = errors.New("invalid tile geometry")
	ErrOutOfRange      = errors.New("coordinate out of range")
)

// componentSize is the stored size of one sample component (an IEEE 754
// single-precision float).
const componentSize = 4

// Geometry holds the derived tile layout of a spectrum. It is computed once
// from the decoded headers and immutable afterwards.
type Geometry struct {
	// Rank is the number of axes.
	Rank int
	// Points[d] is the logical extent of axis d.
	Points []int
	// TileSize[d] is the tile extent along axis d.
	TileSize []int
	// TileCount[d] is the number of tiles along axis d,
	// ceil(Points[d]/TileSize[d]).
	TileCount []int
	// Components is the number of float components per sample.
	Components int
	// DataStart is the byte offset of the first tile.
	DataStart int64
	// TileCells is the number of cells in one tile, product(TileSize).
	TileCells int
	// TileBytes is the stored size of one tile.
	TileBytes int64
	// GridTiles is the total number of tiles, product(TileCount).
	GridTiles int64
}

// NewGeometry derives the tile layout from per-axis point counts and tile
// sizes. It fails with ErrInvalidGeometry when any tile size is zero or the
// grid size overflows. It performs no I/O; checking the derived data size
// against the byte source is the caller's responsibility.
func NewGeometry(points, tileSize []int, components int, dataStart int64) (*Geometry, error) {
	if len(points) != len(tileSize) {
		return nil, fmt.Errorf("%w: %d point extents for %d tile extents",
			ErrInvalidGeometry, len(points), len(tileSize))
	}
	g := &Geometry{
		Rank:       len(points),
		Points:     points,
		TileSize:   tileSize,
		TileCount:  make([]int, len(points)),
		Components: components,
		DataStart:  dataStart,
		TileCells:  1,
		GridTiles:  1,
	}
	for d := 0; d < g.Rank; d++ {
		if tileSize[d] < 1 {
			return nil, fmt.Errorf("%w: axis %d has tile size %d", ErrInvalidGeometry, d, tileSize[d])
		}
		if points[d] < 1 {
			return nil, fmt.Errorf("%w: axis %d has %d points", ErrInvalidGeometry, d, points[d])
		}
		g.TileCount[d] = (points[d] + tileSize[d] - 1) / tileSize[d]

		cells, ok := mul64(int64(g.TileCells), int64(tileSize[d]))
		if !ok || cells > math.MaxInt32 {
			return nil, fmt.Errorf("%w: tile cell count overflows", ErrInvalidGeometry)
		}
		g.TileCells = int(cells)

		grid, ok := mul64(g.GridTiles, int64(g.TileCount[d]))
		if !ok {
			return nil, fmt.Errorf("%w: tile grid size overflows", ErrInvalidGeometry)
		}
		g.GridTiles = grid
	}

	g.TileBytes = int64(g.TileCells) * int64(components) * componentSize

	// The full data extent must itself be addressable.
	if _, ok := mul64(g.GridTiles, g.TileBytes); !ok {
		return nil, fmt.Errorf("%w: total data size overflows", ErrInvalidGeometry)
	}
	return g, nil
}

// SampleBytes returns the stored size of one sample (all components).
func (g *Geometry) SampleBytes() int {
	return g.Components * componentSize
}

// DataBytes returns the total stored size of all tiles.
func (g *Geometry) DataBytes() int64 {
	return g.GridTiles * g.TileBytes
}

// NumPoints returns the number of logical (non-padding) points.
func (g *Geometry) NumPoints() int64 {
	n := int64(1)
	for _, p := range g.Points {
		n *= int64(p)
	}
	return n
}

// Split decomposes a global coordinate into its tile grid index and the
// local index within that tile. The coordinate is not bounds-checked.
func (g *Geometry) Split(coord []int) (tileIdx, local []int) {
	tileIdx = make([]int, g.Rank)
	local = make([]int, g.Rank)
	for d, c := range coord {
		tileIdx[d] = c / g.TileSize[d]
		local[d] = c % g.TileSize[d]
	}
	return tileIdx, local
}

// Offset returns the absolute byte offset of the sample at coord.
// It fails with ErrOutOfRange when the coordinate has the wrong rank or any
// component is outside the logical extent; addresses inside padding cells
// are unreachable through this function.
func (g *Geometry) Offset(coord []int) (int64, error) {
	if err := g.Check(coord); err != nil {
		return 0, err
	}
	tileLinear := int64(0)
	localLinear := 0
	for d, c := range coord {
		tileLinear = tileLinear*int64(g.TileCount[d]) + int64(c/g.TileSize[d])
		localLinear = localLinear*g.TileSize[d] + c%g.TileSize[d]
	}
	return g.DataStart + tileLinear*g.TileBytes + int64(localLinear)*int64(g.SampleBytes()), nil
}

// CoordAt returns the global coordinate of the sample stored at the given
// absolute byte offset. It is the exact inverse of Offset. Offsets that do
// not land on the start of a sample, or that land in a padding cell, fail
// with ErrOutOfRange.
func (g *Geometry) CoordAt(offset int64) ([]int, error) {
	rel := offset - g.DataStart
	if rel < 0 || rel >= g.DataBytes() {
		return nil, fmt.Errorf("%w: offset %d outside tile data", ErrOutOfRange, offset)
	}
	tileLinear := rel / g.TileBytes
	cellRel := rel % g.TileBytes
	if cellRel%int64(g.SampleBytes()) != 0 {
		return nil, fmt.Errorf("%w: offset %d not sample-aligned", ErrOutOfRange, offset)
	}
	localLinear := int(cellRel / int64(g.SampleBytes()))

	coord := make([]int, g.Rank)
	for d := g.Rank - 1; d >= 0; d-- {
		tc := int64(g.TileCount[d])
		ts := g.TileSize[d]
		coord[d] = int(tileLinear%tc)*ts + localLinear%ts
		tileLinear /= tc
		localLinear /= ts
	}
	for d, c := range coord {
		if c >= g.Points[d] {
			return nil, fmt.Errorf("%w: offset %d addresses a padding cell", ErrOutOfRange, offset)
		}
	}
	return coord, nil
}

// Check validates that coord is a well-formed in-range coordinate.
func (g *Geometry) Check(coord []int) error {
	if len(coord) != g.Rank {
		return fmt.Errorf("%w: coordinate has %d axes, spectrum has %d",
			ErrOutOfRange, len(coord), g.Rank)
	}
	for d, c := range coord {
		if c < 0 || c >= g.Points[d] {
			return fmt.Errorf("%w: axis %d index %d (extent %d)",
				ErrOutOfRange, d, c, g.Points[d])
		}
	}
	return nil
}

// TileOffset returns the absolute byte offset of the tile with the given
// row-major grid index.
func (g *Geometry) TileOffset(tileLinear int64) int64 {
	return g.DataStart + tileLinear*g.TileBytes
}

// TileGridCoord returns the per-axis grid index of the tile with the given
// row-major grid index.
func (g *Geometry) TileGridCoord(tileLinear int64) []int {
	idx := make([]int, g.Rank)
	for d := g.Rank - 1; d >= 0; d-- {
		idx[d] = int(tileLinear % int64(g.TileCount[d]))
		tileLinear /= int64(g.TileCount[d])
	}
	return idx
}

// TileClip returns the origin of the given tile in global coordinates and
// its clipped per-axis lengths. Lengths are shorter than TileSize on tiles
// that extend past the logical extent of an axis.
func (g *Geometry) TileClip(tileIdx []int) (origin, length []int) {
	origin = make([]int, g.Rank)
	length = make([]int, g.Rank)
	for d, t := range tileIdx {
		origin[d] = t * g.TileSize[d]
		length[d] = g.TileSize[d]
		if rest := g.Points[d] - origin[d]; rest < length[d] {
			length[d] = rest
		}
	}
	return origin, length
}

// mul64 multiplies two non-negative int64 values, reporting overflow.
func mul64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || p < 0 {
		return 0, false
	}
	return p, true
}
