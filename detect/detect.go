// Package detect locates the individual icons inside a decoded bitmap plane:
// a coarse scan finds the rows and columns of the grid, then each grid cell
// is refined to the tight bounding box of the icon it holds.
package detect

import (
	"errors"
	"fmt"
	"log/slog"

	"iconsplit/bitmap"
)

// ErrNoIcons means the coarse scan found no foreground pixels at all.
var ErrNoIcons = errors.New("no icon rows found in bitmap")

// Band is an inclusive run of consecutive rows (or columns) that each
// contain at least one foreground pixel.
type Band struct {
	Start, End int
}

// Box is the tight bounding box of one icon, all coordinates inclusive.
type Box struct {
	Top, Bottom, Left, Right int
}

func (b Box) Width() int  { return b.Right - b.Left + 1 }
func (b Box) Height() int { return b.Bottom - b.Top + 1 }

// Boxes finds every icon in the plane, ordered row-major over the detected
// grid; that order fixes the numbering of the emitted files. A grid cell with
// no foreground pixels (an incomplete trailing row or column of icons) is
// logged as a warning and skipped.
func Boxes(logger *slog.Logger, p *bitmap.Plane) ([]Box, error) {
	rows := rowBands(p)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %dx%d pixels scanned", ErrNoIcons, p.Width(), p.Height())
	}
	cols := colBands(p)

	logger.Info("icon grid detected", "rows", len(rows), "cols", len(cols))

	var boxes []Box
	for _, rb := range rows {
		for _, cb := range cols {
			box, ok := refine(p, rb, cb)
			if !ok {
				logger.Warn("no pixels found within grid cell, skipping",
					"top", rb.Start, "bottom", rb.End, "left", cb.Start, "right", cb.End)
				continue
			}
			boxes = append(boxes, box)
		}
	}
	return boxes, nil
}

// MaxSize returns the largest icon width and height across all boxes, the
// target dimensions for same-size output.
func MaxSize(boxes []Box) (w, h int) {
	for _, b := range boxes {
		w = max(w, b.Width())
		h = max(h, b.Height())
	}
	return w, h
}

func rowBands(p *bitmap.Plane) []Band {
	var bands []Band
	open := false
	for row := 0; row < p.Height(); row++ {
		switch active := p.RowActive(row); {
		case active && !open:
			open = true
			bands = append(bands, Band{Start: row})
		case !active && open:
			open = false
			bands[len(bands)-1].End = row - 1
		}
	}
	if open {
		bands[len(bands)-1].End = p.Height() - 1
	}
	return bands
}

func colBands(p *bitmap.Plane) []Band {
	var bands []Band
	open := false
	for col := 0; col < p.Width(); col++ {
		active := false
		for row := 0; row < p.Height(); row++ {
			if p.Foreground(row, col) {
				active = true
				break
			}
		}
		switch {
		case active && !open:
			open = true
			bands = append(bands, Band{Start: col})
		case !active && open:
			open = false
			bands[len(bands)-1].End = col - 1
		}
	}
	if open {
		bands[len(bands)-1].End = p.Width() - 1
	}
	return bands
}

// refine narrows a row-band/column-band intersection down to the tight box
// of the icon inside it via four independent edge sweeps. The top sweep
// doubles as the emptiness check: if it finds nothing, the cell holds no icon.
func refine(p *bitmap.Plane, rb, cb Band) (Box, bool) {
	top, ok := topEdge(p, rb, cb)
	if !ok {
		return Box{}, false
	}
	bottom, _ := bottomEdge(p, rb, cb)
	left, _ := leftEdge(p, rb, cb)
	right, _ := rightEdge(p, rb, cb)
	return Box{Top: top, Bottom: bottom, Left: left, Right: right}, true
}

func topEdge(p *bitmap.Plane, rb, cb Band) (int, bool) {
	for row := rb.Start; row <= rb.End; row++ {
		for col := cb.Start; col <= cb.End; col++ {
			if p.Foreground(row, col) {
				return row, true
			}
		}
	}
	return 0, false
}

func bottomEdge(p *bitmap.Plane, rb, cb Band) (int, bool) {
	for row := rb.End; row >= rb.Start; row-- {
		for col := cb.Start; col <= cb.End; col++ {
			if p.Foreground(row, col) {
				return row, true
			}
		}
	}
	return 0, false
}

func leftEdge(p *bitmap.Plane, rb, cb Band) (int, bool) {
	for col := cb.Start; col <= cb.End; col++ {
		for row := rb.Start; row <= rb.End; row++ {
			if p.Foreground(row, col) {
				return col, true
			}
		}
	}
	return 0, false
}

func rightEdge(p *bitmap.Plane, rb, cb Band) (int, bool) {
	for col := cb.End; col >= cb.Start; col-- {
		for row := rb.Start; row <= rb.End; row++ {
			if p.Foreground(row, col) {
				return col, true
			}
		}
	}
	return 0, false
}
