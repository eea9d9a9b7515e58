package icon

import (
	"fmt"
	"io"

	"iconsplit/bitmap"
)

// Encode writes a complete bitmap file: the derived header and colour table
// followed by the raster rows in bitmap order, bottom row first, each padded
// with background bytes to the 4-byte stride. It returns the number of bytes
// written so the caller can verify the result against the calculated size.
func Encode(w io.Writer, header []byte, r *Raster) (int64, error) {
	n, err := w.Write(header)
	total := int64(n)
	if err != nil {
		return total, fmt.Errorf("could not write icon header: %w", err)
	}

	pad := make([]byte, bitmap.RowStride(r.width)-r.rowBytes)
	for i := range pad {
		pad[i] = 0xff
	}

	for row := r.height - 1; row >= 0; row-- {
		n, err = w.Write(r.Row(row))
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("could not write icon row %d: %w", row, err)
		}
		if len(pad) > 0 {
			n, err = w.Write(pad)
			total += int64(n)
			if err != nil {
				return total, fmt.Errorf("could not pad icon row %d: %w", row, err)
			}
		}
	}
	return total, nil
}
