// Package geoerror defines the sentinel error kinds shared across the
// tileset build pipeline. Components wrap these with
// fmt.Errorf("...: %w", ErrX) and callers compare with errors.Is.
package geoerror

import "errors"

var (
	// ErrSizeTooLarge is returned when a raster would exceed the
	// implementation's array-length limit before allocation.
	ErrSizeTooLarge = errors.New("raster size exceeds implementation array limit")

	// ErrSizeMismatch is returned when two rasters involved in an
	// operation have incompatible dimensions.
	ErrSizeMismatch = errors.New("raster size mismatch")

	// ErrBandMismatch is returned when a raster operation receives
	// operands with a different band count than expected.
	ErrBandMismatch = errors.New("raster band count mismatch")

	// ErrOutOfBounds is returned when a requested region falls outside
	// a raster's extent.
	ErrOutOfBounds = errors.New("raster access out of bounds")

	// ErrTypeMismatch is returned when a raster operation is given a
	// cell type incompatible with the raster's element type.
	ErrTypeMismatch = errors.New("raster cell type mismatch")

	// ErrMaskAbsent is returned when a mask-dependent operation is
	// invoked on a raster with no validity mask.
	ErrMaskAbsent = errors.New("raster has no validity mask")

	// ErrMaskAlreadySaved is returned by Mask.Save when a snapshot has
	// already been taken.
	ErrMaskAlreadySaved = errors.New("raster mask snapshot already saved")

	// ErrFormatUnsupported is returned when a serializer cannot be
	// found for a requested output format.
	ErrFormatUnsupported = errors.New("output format unsupported")

	// ErrMetadataMissing is returned when ingestion cannot find
	// required metadata; recoverable — caller skips the camera model.
	ErrMetadataMissing = errors.New("metadata missing")

	// ErrMetadataFormat is returned when ingestion metadata is present
	// but malformed; recoverable the same way as ErrMetadataMissing.
	ErrMetadataFormat = errors.New("metadata format invalid")

	// ErrAtlasFailed is returned when UVAtlas-style charting fails or
	// times out; caller falls back to Heightmap/Naive atlasing.
	ErrAtlasFailed = errors.New("uv atlas generation failed")

	// ErrDependencyMissing is returned when a parent build cannot
	// locate a dependency tile's mesh; fatal for that subtree.
	ErrDependencyMissing = errors.New("dependency tile missing")

	// ErrBlobIO is returned when blob-store I/O exhausts its retry
	// budget.
	ErrBlobIO = errors.New("blob store i/o failed")

	// ErrInvalidDimensions is returned when a requested image or raster
	// size is zero or negative.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrNoSources is returned when a texture bake is given no source
	// imagery to sample from.
	ErrNoSources = errors.New("no source imagery supplied")

	// ErrAtlasOverflow is returned when a texture atlas repack cannot fit
	// every patch within MaxTileResolution even at minimum patch size.
	ErrAtlasOverflow = errors.New("texture atlas overflow")

	// ErrTransformUnresolved indicates the frame cache could not
	// compose a transform chain. This is surfaced as a boolean ok=false
	// from frame.Cache.Resolve, not a returned error; the sentinel exists
	// so callers that do want an error value can wrap it explicitly.
	ErrTransformUnresolved = errors.New("frame transform chain unresolved")
)
