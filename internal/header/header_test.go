package header

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ibinary "github.com/robert-malhotra/go-ucsf/internal/binary"
)

type testAxis struct {
	nucleus  string
	points   uint32
	tileSize uint32
	freq     float32
	width    float32
	center   float32
}

// buildHeader assembles file header bytes plus one 128-byte block per axis.
func buildHeader(dims, components uint8, version uint16, axes []testAxis) []byte {
	buf := make([]byte, FileHeaderSize+len(axes)*AxisHeaderSize)
	copy(buf, Magic)
	buf[10] = dims
	buf[11] = components
	binary.BigEndian.PutUint16(buf[12:], version)

	for i, a := range axes {
		b := buf[FileHeaderSize+i*AxisHeaderSize:]
		copy(b, a.nucleus)
		binary.BigEndian.PutUint32(b[8:], a.points)
		binary.BigEndian.PutUint32(b[16:], a.tileSize)
		binary.BigEndian.PutUint32(b[20:], math.Float32bits(a.freq))
		binary.BigEndian.PutUint32(b[24:], math.Float32bits(a.width))
		binary.BigEndian.PutUint32(b[28:], math.Float32bits(a.center))
	}
	return buf
}

type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, b[off:])
	return n, nil
}

func parse(t *testing.T, data []byte) (*FileHeader, []AxisHeader, error) {
	t.Helper()
	return Parse(ibinary.NewReader(bytesReaderAt(data), int64(len(data))))
}

// Axis values mirror a real 15N-HSQC acquisition.
var hsqcAxes = []testAxis{
	{"15N", 256, 128, 60.833, 1824.818, 117.04299},
	{"1H", 352, 176, 600.283, 3305.2886, 8.244598},
}

func TestParse(t *testing.T) {
	hdr, axes, err := parse(t, buildHeader(2, 1, 2, hsqcAxes))
	require.NoError(t, err)

	assert.Equal(t, 2, hdr.Dimensions)
	assert.Equal(t, 1, hdr.Components)
	assert.Equal(t, 2, hdr.Version)
	assert.Len(t, hdr.Reserved, 166)

	require.Len(t, axes, 2)
	assert.Equal(t, "15N", axes[0].Nucleus)
	assert.Equal(t, 256, axes[0].Points)
	assert.Equal(t, 128, axes[0].TileSize)
	assert.InDelta(t, 60.833, axes[0].Frequency, 1e-4)
	assert.InDelta(t, 1824.818, axes[0].SpectralWidth, 1e-3)
	assert.InDelta(t, 117.04299, axes[0].Center, 1e-4)

	assert.Equal(t, "1H", axes[1].Nucleus)
	assert.Equal(t, 352, axes[1].Points)
	assert.Equal(t, 176, axes[1].TileSize)
	assert.InDelta(t, 600.283, axes[1].Frequency, 1e-3)
	assert.Len(t, axes[1].Reserved, 96)
}

func TestParseBadMagic(t *testing.T) {
	data := buildHeader(2, 1, 2, hsqcAxes)
	data[0] = 'X'

	_, _, err := parse(t, data)
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestParseUnsupportedVersion(t *testing.T) {
	_, _, err := parse(t, buildHeader(2, 1, 3, hsqcAxes))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestParseBadFieldValues(t *testing.T) {
	_, _, err := parse(t, buildHeader(0, 1, 2, nil))
	assert.ErrorIs(t, err, ErrMalformedHeader, "zero dimensions")

	_, _, err = parse(t, buildHeader(1, 0, 2, hsqcAxes[:1]))
	assert.ErrorIs(t, err, ErrMalformedHeader, "zero components")

	_, _, err = parse(t, buildHeader(1, 3, 2, hsqcAxes[:1]))
	assert.ErrorIs(t, err, ErrMalformedHeader, "three components")

	zeroPoints := []testAxis{{"1H", 0, 16, 500, 6000, 4.7}}
	_, _, err = parse(t, buildHeader(1, 1, 2, zeroPoints))
	assert.ErrorIs(t, err, ErrMalformedHeader, "axis with zero points")
}

func TestParseTruncated(t *testing.T) {
	data := buildHeader(2, 1, 2, hsqcAxes)

	// Too short for the file header itself.
	_, _, err := parse(t, data[:FileHeaderSize-1])
	assert.ErrorIs(t, err, ErrTruncated)

	// Too short for the declared axis block.
	_, _, err = parse(t, data[:FileHeaderSize+AxisHeaderSize])
	assert.ErrorIs(t, err, ErrTruncated)

	_, _, err = parse(t, data[:len(data)-1])
	assert.ErrorIs(t, err, ErrTruncated)

	_, _, err = parse(t, nil)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDataOffset(t *testing.T) {
	assert.Equal(t, int64(308), DataOffset(1))
	assert.Equal(t, int64(436), DataOffset(2))
	assert.Equal(t, int64(564), DataOffset(3))
}
