package sparse

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TIFF tag IDs and data types, duplicated from internal/cog's unexported
// constants so this test can hand-assemble a source file without exporting
// parser internals just for testing.
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagSamplesPerPixel = 277
	tagTileWidth       = 322
	tagTileLength      = 323
	tagTileOffsets     = 324
	tagTileByteCounts  = 325
	tagSampleFormat    = 339

	dtShort = 3
	dtLong  = 4
)

// writeMinimalFloatTIFF hand-assembles a single-IFD, single-tile,
// uncompressed float32 TIFF, giving CogElevationSource a real file to open
// instead of requiring a GDAL-produced fixture.
func writeMinimalFloatTIFF(t *testing.T, tileSize int, pixels []float32) string {
	t.Helper()
	require.Equal(t, tileSize*tileSize, len(pixels))

	const numEntries = 11
	const entrySize = 12
	ifdOffset := uint32(8)
	tileDataOffset := ifdOffset + 2 + numEntries*entrySize + 4

	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, binary.LittleEndian, uint16(42))
	binary.Write(&buf, binary.LittleEndian, ifdOffset)
	binary.Write(&buf, binary.LittleEndian, uint16(numEntries))

	writeShortEntry := func(tag, value uint16) {
		binary.Write(&buf, binary.LittleEndian, tag)
		binary.Write(&buf, binary.LittleEndian, uint16(dtShort))
		binary.Write(&buf, binary.LittleEndian, uint32(1))
		binary.Write(&buf, binary.LittleEndian, value)
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	writeLongEntry := func(tag uint16, value uint32) {
		binary.Write(&buf, binary.LittleEndian, tag)
		binary.Write(&buf, binary.LittleEndian, uint16(dtLong))
		binary.Write(&buf, binary.LittleEndian, uint32(1))
		binary.Write(&buf, binary.LittleEndian, value)
	}

	writeShortEntry(tagImageWidth, uint16(tileSize))
	writeShortEntry(tagImageLength, uint16(tileSize))
	writeShortEntry(tagBitsPerSample, 32)
	writeShortEntry(tagCompression, 1)
	writeShortEntry(tagPhotometric, 1)
	writeShortEntry(tagSamplesPerPixel, 1)
	writeShortEntry(tagTileWidth, uint16(tileSize))
	writeShortEntry(tagTileLength, uint16(tileSize))
	writeLongEntry(tagTileOffsets, tileDataOffset)
	writeLongEntry(tagTileByteCounts, uint32(tileSize*tileSize*4))
	writeShortEntry(tagSampleFormat, 3)

	binary.Write(&buf, binary.LittleEndian, uint32(0))

	require.Equal(t, int(tileDataOffset), buf.Len())
	for _, p := range pixels {
		binary.Write(&buf, binary.LittleEndian, math.Float32bits(p))
	}

	path := filepath.Join(t.TempDir(), "elevation.tif")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestNewCogElevationSourceDerivesChunkSizeFromTileLayout(t *testing.T) {
	pixels := make([]float32, 16)
	for i := range pixels {
		pixels[i] = float32(i)
	}
	path := writeMinimalFloatTIFF(t, 4, pixels)

	src, err := NewCogElevationSource(path, 0)
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, 4, src.ChunkSize)
	require.Equal(t, 0, src.Level)
}

func TestNewCogElevationSourceRejectsOutOfRangeLevel(t *testing.T) {
	path := writeMinimalFloatTIFF(t, 4, make([]float32, 16))

	_, err := NewCogElevationSource(path, 1)
	require.Error(t, err)
}

func TestCogElevationSourceReadChunkRoundTrips(t *testing.T) {
	pixels := make([]float32, 16)
	for i := range pixels {
		pixels[i] = float32(i) * 2.5
	}
	path := writeMinimalFloatTIFF(t, 4, pixels)

	src, err := NewCogElevationSource(path, 0)
	require.NoError(t, err)
	defer src.Close()

	chunk, ok, err := src.ReadChunk(0, 0, 4, 4)
	require.NoError(t, err)
	require.True(t, ok)

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			v, err := chunk.At(0, row, col)
			require.NoError(t, err)
			require.Equal(t, pixels[row*4+col], v)
		}
	}
}

func TestCogElevationSourceReadChunkRejectsOversizedRequest(t *testing.T) {
	path := writeMinimalFloatTIFF(t, 4, make([]float32, 16))

	src, err := NewCogElevationSource(path, 0)
	require.NoError(t, err)
	defer src.Close()

	_, ok, err := src.ReadChunk(0, 0, 8, 8)
	require.NoError(t, err)
	require.False(t, ok)
}
