package sparse

import (
	"fmt"

	"github.com/NASA-AMMOS/Landform-sub006/internal/cog"
	"github.com/NASA-AMMOS/Landform-sub006/internal/raster"
)

// CogElevationSource adapts a cloud-optimized-GeoTIFF reader
// (internal/cog.Reader) into a sparse.Source[float32], so a source
// elevation COG can back a sparse.Raster's partial-monolithic-read
// materialization step directly, without first decoding the whole file
// into memory.
//
// This adapter reads one COG tile per sparse chunk (chunk row/col used as
// the COG tile index at Level) rather than resampling across COG tile
// boundaries, so ChunkSize matches the data only when it equals the COG's
// own internal tile size at Level (the size promoteStripsToTiles/Open
// normalizes strip-organized TIFFs to). A requested chunk larger than the
// COG tile returns ok=false, falling through to the sparse.Raster's next
// materialization step; a requested chunk smaller than the COG tile is
// filled from that tile's top-left corner, and this mismatch is not
// detected.
type CogElevationSource struct {
	Reader    *cog.Reader
	Level     int
	ChunkSize int
}

// NewCogElevationSource opens path as a COG elevation source, validating
// that level is within range and deriving ChunkSize from the COG's own
// internal tile size at that level so callers never have to guess it.
func NewCogElevationSource(path string, level int) (*CogElevationSource, error) {
	r, err := cog.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sparse.NewCogElevationSource: %w", err)
	}
	if level < 0 || level >= r.IFDCount() {
		r.Close()
		return nil, fmt.Errorf("sparse.NewCogElevationSource: level %d out of range [0,%d)", level, r.IFDCount())
	}
	tileSize := r.IFDTileSize(level)
	if tileSize[0] <= 0 || tileSize[0] != tileSize[1] {
		r.Close()
		return nil, fmt.Errorf("sparse.NewCogElevationSource: level %d has no square tile layout", level)
	}
	return &CogElevationSource{Reader: r, Level: level, ChunkSize: tileSize[0]}, nil
}

// Close releases the underlying COG reader's file handle.
func (s *CogElevationSource) Close() error {
	return s.Reader.Close()
}

func (s *CogElevationSource) ReadChunk(chunkRow, chunkCol, w, h int) (*raster.Raster[float32], bool, error) {
	pixels, tileW, tileH, err := s.Reader.ReadFloatTile(s.Level, chunkCol, chunkRow)
	if err != nil {
		return nil, false, fmt.Errorf("sparse.CogElevationSource: %w", err)
	}
	if tileW < w || tileH < h {
		// The COG's tile is smaller than requested (ChunkSize mismatch, or
		// past the raster's edge in a way the caller didn't anticipate) —
		// not an error, just not a source this chunk can materialize from.
		return nil, false, nil
	}

	out, err := raster.New[float32](1, w, h)
	if err != nil {
		return nil, false, fmt.Errorf("sparse.CogElevationSource: %w", err)
	}
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			if err := out.Set(0, row, col, pixels[row*tileW+col]); err != nil {
				return nil, false, fmt.Errorf("sparse.CogElevationSource: %w", err)
			}
		}
	}
	return out, true, nil
}
