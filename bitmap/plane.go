package bitmap

import "fmt"

// Plane is the canonical in-memory raster: top row first, no row padding,
// polarity normalized so a 0 bit is always foreground. It is built once by
// DecodePlane and read-only afterwards, so it is safe to share across
// goroutines processing icons concurrently.
type Plane struct {
	width    int
	height   int
	rowBytes int
	bits     []byte
}

// DecodePlane lifts the bottom-up, 4-byte-padded pixel data described by h
// out of the raw file into a Plane. Bits in the last byte of each row beyond
// the image width are forced to background so edge scans never see phantom
// foreground pixels there.
func DecodePlane(data []byte, h Header) (*Plane, error) {
	p := &Plane{
		width:    h.Width,
		height:   h.Height,
		rowBytes: RowBytes(h.Width),
	}
	// Plane row 0 comes from the last file row, the deepest offset read, so
	// checking it up front bounds every read and the allocation below.
	stride := RowStride(h.Width)
	if need := int64(h.DataOffset) + int64(stride)*int64(p.height-1) + int64(p.rowBytes); need > int64(len(data)) {
		return nil, fmt.Errorf("%w: image row 0 needs bytes up to %d, file is %d bytes",
			ErrTruncatedRow, need, len(data))
	}
	p.bits = make([]byte, p.rowBytes*p.height)
	for row := 0; row < p.height; row++ {
		// File rows run bottom to top; plane rows run top to bottom.
		src := int(h.DataOffset) + stride*(p.height-row-1)
		copy(p.bits[row*p.rowBytes:], data[src:src+p.rowBytes])
	}

	if h.Inverted {
		for i := range p.bits {
			p.bits[i] = ^p.bits[i]
		}
	}

	if pad := p.width % 8; pad != 0 {
		mask := byte(0xff >> pad)
		for row := 0; row < p.height; row++ {
			p.bits[(row+1)*p.rowBytes-1] |= mask
		}
	}

	return p, nil
}

func (p *Plane) Width() int  { return p.width }
func (p *Plane) Height() int { return p.height }

// Foreground reports whether the pixel at (row, col) is ink, i.e. its
// normalized bit is 0.
func (p *Plane) Foreground(row, col int) bool {
	b := p.bits[row*p.rowBytes+col/8]
	return (^b>>(7-col%8))&1 != 0
}

// RowActive reports whether any pixel in the row is foreground. Padding bits
// are known to be 1, so a row is blank exactly when every byte is 0xFF.
func (p *Plane) RowActive(row int) bool {
	for _, b := range p.bits[row*p.rowBytes : (row+1)*p.rowBytes] {
		if b != 0xff {
			return true
		}
	}
	return false
}

// Row exposes the packed bytes of one row for the bit-copy in package icon.
// Callers must not modify the returned slice.
func (p *Plane) Row(row int) []byte {
	return p.bits[row*p.rowBytes : (row+1)*p.rowBytes]
}
