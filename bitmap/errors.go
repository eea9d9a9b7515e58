package bitmap

import "errors"

// One sentinel per validation failure so callers can discriminate with
// errors.Is; the wrapped message carries the offending and expected values.
var (
	ErrTooSmall           = errors.New("file too small to hold bitmap headers")
	ErrNotBitmap          = errors.New("not a Windows bitmap file")
	ErrSizeMismatch       = errors.New("declared file size disagrees with actual size")
	ErrBadDataOffset      = errors.New("pixel data offset lies beyond end of file")
	ErrPlaneCount         = errors.New("colour plane count must be 1")
	ErrBitDepth           = errors.New("bits per pixel must be 1")
	ErrCompressed         = errors.New("pixel data must not be compressed")
	ErrUnknownCompression = errors.New("unrecognised compression method")
	ErrDataOverrun        = errors.New("pixel data overruns end of file")
	ErrPaletteSize        = errors.New("palette must hold exactly 2 colours")
	ErrColourTable        = errors.New("colour table must be 8 bytes")
	ErrBadDimensions      = errors.New("image dimensions must be positive")
	ErrTruncatedRow       = errors.New("pixel data truncated")
)
