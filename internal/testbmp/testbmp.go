// Package testbmp builds synthetic 1-bpp Windows bitmap files for tests.
package testbmp

import "encoding/binary"

const (
	headerLen = 54
	tableLen  = 8
)

// Canvas is a white background onto which tests paint foreground pixels
// before serializing a complete bitmap file.
type Canvas struct {
	W, H int
	ink  map[[2]int]bool
}

func New(w, h int) *Canvas {
	return &Canvas{W: w, H: h, ink: make(map[[2]int]bool)}
}

// Set paints a single foreground pixel at (row, col), top-down coordinates.
func (c *Canvas) Set(row, col int) {
	c.ink[[2]int{row, col}] = true
}

// Rect paints a filled foreground rectangle, all bounds inclusive.
func (c *Canvas) Rect(top, left, bottom, right int) {
	for r := top; r <= bottom; r++ {
		for cl := left; cl <= right; cl++ {
			c.Set(r, cl)
		}
	}
}

// Bytes serializes the canvas as a valid monochrome bitmap file. With
// inverted=false the palette is {black, white} and ink pixels are 0 bits;
// with inverted=true the palette order and every pixel bit are flipped,
// producing the polarity-swapped twin of the same image.
func (c *Canvas) Bytes(inverted bool) []byte {
	stride := ((c.W+7)/8 + 3) &^ 3
	dataLen := stride * c.H
	out := make([]byte, headerLen+tableLen+dataLen)

	out[0], out[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(out[2:], uint32(len(out)))
	binary.LittleEndian.PutUint32(out[10:], headerLen+tableLen)
	binary.LittleEndian.PutUint32(out[14:], 40)
	binary.LittleEndian.PutUint32(out[18:], uint32(c.W))
	binary.LittleEndian.PutUint32(out[22:], uint32(c.H))
	binary.LittleEndian.PutUint16(out[26:], 1)
	binary.LittleEndian.PutUint16(out[28:], 1)
	binary.LittleEndian.PutUint32(out[34:], uint32(dataLen))
	binary.LittleEndian.PutUint32(out[46:], 2)

	black, white := uint32(0x00000000), uint32(0x00ffffff)
	if inverted {
		black, white = white, black
	}
	binary.LittleEndian.PutUint32(out[headerLen:], black)
	binary.LittleEndian.PutUint32(out[headerLen+4:], white)

	data := out[headerLen+tableLen:]
	for row := 0; row < c.H; row++ {
		fileRow := data[stride*(c.H-row-1):]
		for col := 0; col < c.W; col++ {
			bit := byte(1) // background
			if c.ink[[2]int{row, col}] {
				bit = 0
			}
			if inverted {
				bit ^= 1
			}
			if bit != 0 {
				fileRow[col/8] |= 1 << (7 - col%8)
			}
		}
	}
	return out
}
