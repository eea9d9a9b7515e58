package icon_test

import (
	"log/slog"
	"testing"

	"iconsplit/bitmap"
	"iconsplit/detect"
	"iconsplit/icon"
	"iconsplit/internal/testbmp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plane(t *testing.T, c *testbmp.Canvas, inverted bool) *bitmap.Plane {
	t.Helper()
	data := c.Bytes(inverted)
	hdr, err := bitmap.ParseHeader(data)
	require.NoError(t, err)
	p, err := bitmap.DecodePlane(data, hdr)
	require.NoError(t, err)
	return p
}

func TestComposeTight(t *testing.T) {
	// An L shape with its left edge mid-byte, so the copy has to rephase
	// every chunk.
	c := testbmp.New(24, 10)
	c.Rect(2, 5, 6, 5)
	c.Rect(6, 5, 6, 11)

	p := plane(t, c, false)
	box := detect.Box{Top: 2, Bottom: 6, Left: 5, Right: 11}
	r := icon.Compose(p, box, icon.Options{})

	require.Equal(t, 7, r.Width())
	require.Equal(t, 5, r.Height())
	for row := 0; row < r.Height(); row++ {
		for col := 0; col < r.Width(); col++ {
			want := p.Foreground(box.Top+row, box.Left+col)
			assert.Equal(t, want, r.Foreground(row, col), "pixel (%d,%d)", row, col)
		}
	}
}

func TestComposeMargins(t *testing.T) {
	c := testbmp.New(16, 8)
	c.Rect(1, 1, 3, 3)
	p := plane(t, c, false)
	box := detect.Box{Top: 1, Bottom: 3, Left: 1, Right: 3}

	r := icon.Compose(p, box, icon.Options{HMargin: 2, VMargin: 1})
	require.Equal(t, 7, r.Width())
	require.Equal(t, 5, r.Height())

	for row := 0; row < r.Height(); row++ {
		for col := 0; col < r.Width(); col++ {
			inside := row >= 1 && row <= 3 && col >= 2 && col <= 4
			assert.Equal(t, inside, r.Foreground(row, col), "pixel (%d,%d)", row, col)
		}
	}
}

func TestComposeSameSizeCentersContent(t *testing.T) {
	// A 3x3 icon placed into a 6x5 same-size target: the slack is 3 columns
	// and 2 rows, so the left gets 2 columns and the top gets 1 row.
	c := testbmp.New(16, 8)
	c.Rect(2, 2, 4, 4)
	p := plane(t, c, false)
	box := detect.Box{Top: 2, Bottom: 4, Left: 2, Right: 4}

	r := icon.Compose(p, box, icon.Options{SameSize: true, MaxWidth: 6, MaxHeight: 5})
	require.Equal(t, 6, r.Width())
	require.Equal(t, 5, r.Height())

	for row := 0; row < r.Height(); row++ {
		for col := 0; col < r.Width(); col++ {
			inside := row >= 1 && row <= 3 && col >= 2 && col <= 4
			assert.Equal(t, inside, r.Foreground(row, col), "pixel (%d,%d)", row, col)
		}
	}
}

func TestComposeSameSizeMatchesTightContent(t *testing.T) {
	c := testbmp.New(24, 12)
	c.Rect(2, 3, 6, 9)
	c.Set(4, 6)
	p := plane(t, c, false)
	box := detect.Box{Top: 2, Bottom: 6, Left: 3, Right: 9}

	tight := icon.Compose(p, box, icon.Options{})
	uniform := icon.Compose(p, box, icon.Options{SameSize: true, MaxWidth: 11, MaxHeight: 8, HMargin: 1, VMargin: 1})

	// Slack: 4 columns, 3 rows. Content starts at margin+ceil(slack/2).
	const offRow, offCol = 1 + 2, 1 + 2
	for row := 0; row < tight.Height(); row++ {
		for col := 0; col < tight.Width(); col++ {
			assert.Equal(t, tight.Foreground(row, col), uniform.Foreground(offRow+row, offCol+col),
				"pixel (%d,%d)", row, col)
		}
	}
}

func TestComposePadBitsAreBackground(t *testing.T) {
	c := testbmp.New(16, 8)
	c.Rect(0, 0, 7, 9)
	p := plane(t, c, false)

	r := icon.Compose(p, detect.Box{Top: 0, Bottom: 7, Left: 0, Right: 9}, icon.Options{})
	require.Equal(t, 10, r.Width())
	for row := 0; row < r.Height(); row++ {
		assert.EqualValues(t, 0x3f, r.Row(row)[1], "row %d: ink in bits 7-6, pad bits 5-0 set", row)
	}
}

func TestComposePolarityInvariance(t *testing.T) {
	c := testbmp.New(20, 10)
	c.Rect(1, 3, 6, 14)
	c.Set(8, 17)
	box := detect.Box{Top: 1, Bottom: 8, Left: 3, Right: 17}
	opt := icon.Options{HMargin: 1, VMargin: 2}

	normal := icon.Compose(plane(t, c, false), box, opt)
	inverted := icon.Compose(plane(t, c, true), box, opt)

	require.Equal(t, normal.Width(), inverted.Width())
	require.Equal(t, normal.Height(), inverted.Height())
	for row := 0; row < normal.Height(); row++ {
		assert.Equal(t, normal.Row(row), inverted.Row(row), "row %d", row)
	}
}

func TestComposeBoxesFromDetection(t *testing.T) {
	// End to end within memory: every detected box, composed tight, must
	// reproduce the plane subregion exactly.
	c := testbmp.New(32, 24)
	c.Rect(2, 3, 9, 9)
	c.Rect(3, 17, 8, 27)
	c.Rect(14, 4, 20, 8)
	c.Rect(15, 18, 19, 26)

	p := plane(t, c, false)
	boxes, err := detect.Boxes(slog.Default(), p)
	require.NoError(t, err)
	require.Len(t, boxes, 4)

	for _, box := range boxes {
		r := icon.Compose(p, box, icon.Options{})
		for row := 0; row < r.Height(); row++ {
			for col := 0; col < r.Width(); col++ {
				assert.Equal(t, p.Foreground(box.Top+row, box.Left+col), r.Foreground(row, col))
			}
		}
	}
}
