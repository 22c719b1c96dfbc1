package ucsf

import (
	"encoding/binary"
	"fmt"
	"math"

	ibinary "github.com/robert-malhotra/go-ucsf/internal/binary"
)

// Tile is one resident tile of sample data. A Tile returned by Tiles is only
// valid until the iterator's next call to Next: the underlying buffer is
// reused.
type Tile struct {
	grid       []int
	origin     []int
	length     []int
	tileSize   []int
	components int
	data       []byte
}

// Grid returns the tile's per-axis index in the tile grid.
func (t *Tile) Grid() []int { return t.grid }

// Origin returns the global coordinate of the tile's first cell.
func (t *Tile) Origin() []int { return t.origin }

// Len returns the tile's per-axis extents clipped to the spectrum's logical
// extent. Edge tiles report less than the header tile size.
func (t *Tile) Len() []int { return t.length }

// At returns the sample at the given tile-local index. Indices must be below
// the clipped extents returned by Len; padding cells fail with ErrOutOfRange.
func (t *Tile) At(local []int) (Sample, error) {
	if len(local) != len(t.length) {
		return Sample{}, fmt.Errorf("%w: local index has %d axes, tile has %d",
			ErrOutOfRange, len(local), len(t.length))
	}
	linear := 0
	for d, l := range local {
		if l < 0 || l >= t.length[d] {
			return Sample{}, fmt.Errorf("%w: axis %d local index %d (tile extent %d)",
				ErrOutOfRange, d, l, t.length[d])
		}
		linear = linear*t.tileSize[d] + l
	}
	off := linear * t.components * 4
	return decodeSample(t.data[off:], t.components), nil
}

// Tiles iterates over all tiles of a spectrum in row-major storage order,
// reading each tile's bytes exactly once. At most one tile is resident at a
// time, so iteration works on spectra far larger than memory.
//
// Usage follows the scanner pattern:
//
//	it := spectrum.Tiles()
//	for it.Next() {
//		t := it.Tile()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type Tiles struct {
	s    *Spectrum
	next int64
	cur  Tile
	buf  []byte
	err  error
}

// Tiles returns a fresh tile iterator. Iterators are independent: running
// several, including concurrently, is safe as long as the Source supports
// concurrent reads.
func (s *Spectrum) Tiles() *Tiles {
	return &Tiles{s: s, buf: make([]byte, s.geo.TileBytes)}
}

// Next reads the next tile. It returns false when all tiles have been
// produced or a read failed; Err tells the two apart.
func (it *Tiles) Next() bool {
	if it.err != nil || it.next >= it.s.geo.GridTiles {
		return false
	}
	geo := it.s.geo
	r := ibinary.NewReader(it.s.src, it.s.src.Size()).At(geo.TileOffset(it.next))
	if err := r.ReadInto(it.buf); err != nil {
		it.err = err
		return false
	}
	grid := geo.TileGridCoord(it.next)
	origin, length := geo.TileClip(grid)
	it.cur = Tile{
		grid:       grid,
		origin:     origin,
		length:     length,
		tileSize:   geo.TileSize,
		components: geo.Components,
		data:       it.buf,
	}
	it.next++
	return true
}

// Tile returns the tile read by the last successful Next.
func (it *Tiles) Tile() *Tile { return &it.cur }

// Err returns the first read error encountered, or nil after a complete
// pass.
func (it *Tiles) Err() error { return it.err }

// Points iterates over every logical data point of a spectrum: exactly
// product(npoints) samples, in ascending tile-storage order and ascending
// cell order within each tile. Padding cells are never produced.
//
// A Points iterator holds one tile's bytes at a time and performs no shared
// mutation: independent iterators may run concurrently, and re-running a
// fresh iterator yields an identical sequence.
type Points struct {
	tiles  *Tiles
	t      *Tile
	local  []int
	coord  []int
	sample Sample
	first  bool
}

// Points returns a fresh point iterator over the whole spectrum.
func (s *Spectrum) Points() *Points {
	return &Points{
		tiles: s.Tiles(),
		local: make([]int, s.geo.Rank),
		coord: make([]int, s.geo.Rank),
	}
}

// Next advances to the next data point. It returns false when the spectrum
// is exhausted or a tile read failed; Err tells the two apart. Stopping
// early reads no tiles beyond the current one.
func (it *Points) Next() bool {
	for {
		if it.t == nil {
			if !it.tiles.Next() {
				return false
			}
			it.t = it.tiles.Tile()
			for d := range it.local {
				it.local[d] = 0
			}
			it.first = true
		}
		if it.first {
			it.first = false
		} else if !it.advance() {
			it.t = nil
			continue
		}
		it.load()
		return true
	}
}

// advance steps the local odometer through the tile's clipped extents,
// innermost axis fastest. It returns false when the tile is exhausted.
func (it *Points) advance() bool {
	for d := len(it.local) - 1; d >= 0; d-- {
		it.local[d]++
		if it.local[d] < it.t.length[d] {
			return true
		}
		it.local[d] = 0
	}
	return false
}

// load decodes the sample at the current local index. Iterating the clipped
// extents directly means padding cells are never visited; the cell offset
// still uses the full tile strides.
func (it *Points) load() {
	linear := 0
	for d, l := range it.local {
		linear = linear*it.t.tileSize[d] + l
		it.coord[d] = it.t.origin[d] + l
	}
	off := linear * it.t.components * 4
	it.sample = decodeSample(it.t.data[off:], it.t.components)
}

// Coord returns the current point's coordinate, outermost axis first. The
// slice is reused; copy it to retain it across calls to Next.
func (it *Points) Coord() []int { return it.coord }

// Sample returns the current point's value.
func (it *Points) Sample() Sample { return it.sample }

// Err returns the first read error encountered, or nil after a complete
// pass.
func (it *Points) Err() error { return it.tiles.Err() }

// decodeSample decodes one sample's big-endian float components.
func decodeSample(b []byte, components int) Sample {
	s := Sample{Re: math.Float32frombits(binary.BigEndian.Uint32(b))}
	if components == 2 {
		s.Im = math.Float32frombits(binary.BigEndian.Uint32(b[4:]))
	}
	return s
}
