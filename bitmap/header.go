package bitmap

import (
	"encoding/binary"
	"fmt"
)

// Field offsets within the BMP file header and the DIB info header.
const (
	offFileSize   = 2
	offDataOffset = 10
	offInfoLen    = 14
	offWidth      = 18
	offHeight     = 22
	offPlanes     = 26
	offBitCount   = 28
	offCompress   = 30
	offDataLength = 34
	offPalette    = 46

	fileHeaderLen = 14
	minHeaderLen  = 54
)

// Header holds the fields of a 1-bpp Windows bitmap that the pipeline needs,
// already validated against the raw file they were parsed from.
type Header struct {
	FileSize   uint32
	DataOffset uint32
	InfoLen    uint32
	Width      int
	Height     int
	DataLength uint32

	// TableOffset is where the two-entry colour table starts (14 + InfoLen).
	TableOffset uint32
	// Inverted is set when the palette stores "black" at index 1, meaning the
	// raster bits must be complemented during decode. Black is taken to be
	// the entry with the numerically smaller packed BGRA value; for palettes
	// with no pure black/white this is an approximation, kept for
	// compatibility with files produced for 0=black displays.
	Inverted bool
}

// ParseHeader validates the file and DIB headers plus the colour table of a
// monochrome uncompressed Windows bitmap. Failures wrap one of the sentinel
// errors in this package.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < minHeaderLen {
		return Header{}, fmt.Errorf("%w: need %d bytes, have %d", ErrTooSmall, minHeaderLen, len(data))
	}
	if data[0] != 'B' || data[1] != 'M' {
		return Header{}, fmt.Errorf("%w: first two bytes are %q, want \"BM\"", ErrNotBitmap, data[:2])
	}

	h := Header{
		FileSize:   binary.LittleEndian.Uint32(data[offFileSize:]),
		DataOffset: binary.LittleEndian.Uint32(data[offDataOffset:]),
		InfoLen:    binary.LittleEndian.Uint32(data[offInfoLen:]),
		Width:      int(binary.LittleEndian.Uint32(data[offWidth:])),
		Height:     int(binary.LittleEndian.Uint32(data[offHeight:])),
		DataLength: binary.LittleEndian.Uint32(data[offDataLength:]),
	}

	if h.FileSize != uint32(len(data)) {
		return Header{}, fmt.Errorf("%w: declared %d bytes, actual %d bytes", ErrSizeMismatch, h.FileSize, len(data))
	}
	if h.DataOffset >= uint32(len(data)) {
		return Header{}, fmt.Errorf("%w: offset %d, file is %d bytes", ErrBadDataOffset, h.DataOffset, len(data))
	}
	if planes := binary.LittleEndian.Uint16(data[offPlanes:]); planes != 1 {
		return Header{}, fmt.Errorf("%w: have %d", ErrPlaneCount, planes)
	}
	if depth := binary.LittleEndian.Uint16(data[offBitCount:]); depth != 1 {
		return Header{}, fmt.Errorf("%w: have %d", ErrBitDepth, depth)
	}
	if comp := binary.LittleEndian.Uint32(data[offCompress:]); comp != 0 {
		switch comp {
		case 1, 2, 3, 4, 5, 6, 11, 12, 13:
			return Header{}, fmt.Errorf("%w: compression method is %d", ErrCompressed, comp)
		default:
			return Header{}, fmt.Errorf("%w: value is %d", ErrUnknownCompression, comp)
		}
	}
	if end := uint64(h.DataOffset) + uint64(h.DataLength); end > uint64(len(data)) {
		return Header{}, fmt.Errorf("%w: data ends at %d, file is %d bytes", ErrDataOverrun, end, len(data))
	}
	if colours := binary.LittleEndian.Uint32(data[offPalette:]); colours != 2 {
		return Header{}, fmt.Errorf("%w: have %d", ErrPaletteSize, colours)
	}
	if h.Width <= 0 || h.Height <= 0 {
		return Header{}, fmt.Errorf("%w: %dx%d", ErrBadDimensions, h.Width, h.Height)
	}

	// The colour table sits between the DIB header and the pixel data; for a
	// 2-entry palette that gap must be exactly two BGRA entries. Widened
	// arithmetic so a huge InfoLen cannot wrap the offset into range.
	tableOffset := uint64(fileHeaderLen) + uint64(h.InfoLen)
	if tableOffset+8 != uint64(h.DataOffset) {
		return Header{}, fmt.Errorf("%w: table runs from %d to %d", ErrColourTable, tableOffset, h.DataOffset)
	}
	h.TableOffset = uint32(tableOffset)
	entry0 := binary.LittleEndian.Uint32(data[h.TableOffset:])
	entry1 := binary.LittleEndian.Uint32(data[h.TableOffset+4:])
	h.Inverted = entry0 >= entry1

	return h, nil
}

// RowBytes is the unpadded byte width of one row of w pixels at 1 bpp.
func RowBytes(w int) int {
	return (w + 7) / 8
}

// RowStride is RowBytes rounded up to the 4-byte boundary bitmap files pad to.
func RowStride(w int) int {
	return (RowBytes(w) + 3) &^ 3
}

// Derived builds the header plus colour table for a sub-image cut from src,
// which must be the raw file this Header was parsed from. The original bytes
// are copied verbatim up to the pixel data, then the file size, dimensions
// and data length are patched for the new geometry. When the source palette
// was inverted the two colour entries are swapped so the emitted file reads
// back with the polarity the raster was written in.
func (h Header) Derived(src []byte, width, height int) []byte {
	out := make([]byte, h.DataOffset)
	copy(out, src[:h.DataOffset])

	dataLen := uint32(RowStride(width) * height)
	binary.LittleEndian.PutUint32(out[offFileSize:], h.DataOffset+dataLen)
	binary.LittleEndian.PutUint32(out[offWidth:], uint32(width))
	binary.LittleEndian.PutUint32(out[offHeight:], uint32(height))
	binary.LittleEndian.PutUint32(out[offDataLength:], dataLen)

	if h.Inverted {
		t := h.TableOffset
		var entry [4]byte
		copy(entry[:], out[t:t+4])
		copy(out[t:t+4], out[t+4:t+8])
		copy(out[t+4:t+8], entry[:])
	}

	return out
}

// FileSizeFor is the byte length an emitted icon file of the given dimensions
// must have, used to verify the write afterwards.
func (h Header) FileSizeFor(width, height int) int64 {
	return int64(h.DataOffset) + int64(RowStride(width))*int64(height)
}
