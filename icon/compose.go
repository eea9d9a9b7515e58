// Package icon turns one detected bounding box into a standalone bitmap:
// Compose lays the pixels out in a fresh raster with margins, Encode writes
// the raster back out in bitmap file order.
package icon

import (
	"iconsplit/bitmap"
	"iconsplit/detect"
)

// Options controls the geometry of composed icons. When SameSize is set
// every icon is padded out to MaxWidth x MaxHeight (the largest icon found)
// before margins are added; otherwise each icon keeps its tight size.
type Options struct {
	SameSize  bool
	MaxWidth  int
	MaxHeight int
	HMargin   int
	VMargin   int
}

// Raster is the destination image for one icon: top row first, unpadded,
// same bit convention as the source plane (0 foreground, 1 background).
type Raster struct {
	width    int
	height   int
	rowBytes int
	pix      []byte
}

func (r *Raster) Width() int  { return r.width }
func (r *Raster) Height() int { return r.height }

// Row exposes the packed bytes of one row for encoding and tests.
func (r *Raster) Row(row int) []byte {
	return r.pix[row*r.rowBytes : (row+1)*r.rowBytes]
}

// Foreground reports whether the pixel at (row, col) is ink.
func (r *Raster) Foreground(row, col int) bool {
	return (^r.pix[row*r.rowBytes+col/8]>>(7-col%8))&1 != 0
}

// Compose copies the box out of the plane into a new raster. The raster
// starts all zero and is only ever written with ORs: first the margins (and
// any centering slack when the box is smaller than the same-size target) are
// filled with background, then the box contents are transplanted bit by bit.
// Slack splits with the larger half on the top and left, keeping content as
// centered as integer division allows.
func Compose(p *bitmap.Plane, box detect.Box, opt Options) *Raster {
	innerW, innerH := box.Width(), box.Height()
	if opt.SameSize {
		innerW, innerH = opt.MaxWidth, opt.MaxHeight
	}
	r := &Raster{
		width:  innerW + 2*opt.HMargin,
		height: innerH + 2*opt.VMargin,
	}
	r.rowBytes = bitmap.RowBytes(r.width)
	r.pix = make([]byte, r.rowBytes*r.height)

	padTop := opt.VMargin + (innerH-box.Height()+1)/2
	padBottom := opt.VMargin + (innerH-box.Height())/2
	padLeft := opt.HMargin + (innerW-box.Width()+1)/2
	padRight := opt.HMargin + (innerW-box.Width())/2

	r.fillRows(0, padTop)
	r.fillRows(padTop+box.Height(), r.height)
	for row := padTop; row < r.height-padBottom; row++ {
		r.fillBits(row, 0, padLeft)
		// Run the right fill to the end of the byte so the padding bits
		// beyond the true width come out as background too.
		r.fillBits(row, r.width-padRight, r.rowBytes*8)
	}

	for row := 0; row < box.Height(); row++ {
		r.copyRow(p.Row(box.Top+row), box.Left, padTop+row, padLeft, box.Width())
	}
	return r
}

// fillRows sets every bit of rows [from, to) to background.
func (r *Raster) fillRows(from, to int) {
	for i := from * r.rowBytes; i < to*r.rowBytes; i++ {
		r.pix[i] |= 0xff
	}
}

// fillBits sets bits [fromCol, toCol) of one row to background. toCol may
// extend past the image width up to the end of the row's last byte.
func (r *Raster) fillBits(row, fromCol, toCol int) {
	base := row * r.rowBytes
	for col := fromCol; col < toCol; {
		bit := col % 8
		n := min(8-bit, toCol-col)
		r.pix[base+col/8] |= (0xff >> bit) &^ (0xff >> (bit + n))
		col += n
	}
}

// copyRow transplants width bits starting at source column srcCol of the
// given source row into destination row dstRow starting at column dstCol.
// The two columns need not share a bit phase: each step moves the largest
// chunk that fits in both the current source byte and the current
// destination byte, shifting it by the phase difference before ORing it in.
func (r *Raster) copyRow(src []byte, srcCol, dstRow, dstCol, width int) {
	dst := r.Row(dstRow)
	end := dstCol + width
	srcByte, dstByte := srcCol/8, dstCol/8
	for dstCol < end {
		srcBit, dstBit := srcCol%8, dstCol%8
		n := min(8-srcBit, 8-dstBit, end-dstCol)

		chunk := src[srcByte] & (0xff >> srcBit) &^ (0xff >> (srcBit + n))
		if dstBit > srcBit {
			chunk >>= dstBit - srcBit
		} else {
			chunk <<= srcBit - dstBit
		}
		dst[dstByte] |= chunk

		if srcBit+n == 8 {
			srcByte++
		}
		if dstBit+n == 8 {
			dstByte++
		}
		srcCol += n
		dstCol += n
	}
}
