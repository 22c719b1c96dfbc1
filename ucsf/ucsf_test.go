package ucsf

import (
	"encoding/binary"
	"math"
)

// Test fixtures are synthetic UCSF files assembled in memory, with padding
// cells filled with a sentinel so tests can prove padding never leaks out.

type axisSpec struct {
	nucleus  string
	points   int
	tileSize int
	freq     float32
	width    float32
	center   float32
}

const padSentinel = float32(-99999)

// buildFile assembles a complete UCSF file: 180-byte header, one 128-byte
// block per axis, then the row-major tile grid. value gives the real
// component at each coordinate; when components is 2 the imaginary component
// is its negation.
func buildFile(components int, axes []axisSpec, value func(coord []int) float32) []byte {
	headerSize := 180 + len(axes)*128
	tileCells := 1
	gridTiles := 1
	tileCount := make([]int, len(axes))
	tileSize := make([]int, len(axes))
	points := make([]int, len(axes))
	for d, a := range axes {
		points[d] = a.points
		tileSize[d] = a.tileSize
		tileCount[d] = (a.points + a.tileSize - 1) / a.tileSize
		tileCells *= a.tileSize
		gridTiles *= tileCount[d]
	}

	buf := make([]byte, headerSize+gridTiles*tileCells*components*4)
	copy(buf, "UCSF NMR")
	buf[10] = byte(len(axes))
	buf[11] = byte(components)
	binary.BigEndian.PutUint16(buf[12:], 2)

	for i, a := range axes {
		b := buf[180+i*128:]
		copy(b, a.nucleus)
		binary.BigEndian.PutUint32(b[8:], uint32(a.points))
		binary.BigEndian.PutUint32(b[16:], uint32(a.tileSize))
		binary.BigEndian.PutUint32(b[20:], math.Float32bits(a.freq))
		binary.BigEndian.PutUint32(b[24:], math.Float32bits(a.width))
		binary.BigEndian.PutUint32(b[28:], math.Float32bits(a.center))
	}

	coord := make([]int, len(axes))
	pos := headerSize
	for tl := 0; tl < gridTiles; tl++ {
		tileIdx := delinearize(tl, tileCount)
		for ll := 0; ll < tileCells; ll++ {
			local := delinearize(ll, tileSize)
			padding := false
			for d := range coord {
				coord[d] = tileIdx[d]*tileSize[d] + local[d]
				if coord[d] >= points[d] {
					padding = true
				}
			}
			v := padSentinel
			if !padding {
				v = value(coord)
			}
			binary.BigEndian.PutUint32(buf[pos:], math.Float32bits(v))
			pos += 4
			if components == 2 {
				binary.BigEndian.PutUint32(buf[pos:], math.Float32bits(-v))
				pos += 4
			}
		}
	}
	return buf
}

func delinearize(linear int, extents []int) []int {
	idx := make([]int, len(extents))
	for d := len(extents) - 1; d >= 0; d-- {
		idx[d] = linear % extents[d]
		linear /= extents[d]
	}
	return idx
}

// small2D is a 4x4 spectrum stored in 3x3 tiles: a 2x2 tile grid with 36
// physical cells, 20 of them padding.
var small2D = []axisSpec{
	{"15N", 4, 3, 60.833, 1824.818, 117.043},
	{"1H", 4, 3, 600.283, 3305.289, 8.2446},
}

func small2DValue(coord []int) float32 {
	return float32(coord[0]*10 + coord[1])
}

func buildSmall2D() []byte {
	return buildFile(1, small2D, small2DValue)
}
