// Package extract implements the icon extraction command: decode the source
// bitmap, locate every icon, and write each one to its own bitmap file.
package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"iconsplit/bitmap"
	"iconsplit/detect"
	"iconsplit/icon"
	"iconsplit/parallel"

	"github.com/alecthomas/kong"
)

const maxMargin = 1000

type CLICmd struct {
	Input    string `arg:"" help:"Source 1-bpp bitmap containing the icon grid"`
	Out      string `help:"Existing folder to place the icon files in" default:"."`
	SameSize bool   `help:"Pad every icon file to the dimensions of the largest icon" default:"false"`
	HMargin  int    `help:"Background pixels added left and right of each icon" default:"0"`
	VMargin  int    `help:"Background pixels added above and below each icon" default:"0"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	inputFile, err := filepath.Abs(c.Input)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(inputFile); err == nil && !info.Mode().IsRegular() {
			err = fmt.Errorf("not a regular file")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid input file %q: %w", c.Input, err)
	}
	c.Input = inputFile

	outDir, err := filepath.Abs(c.Out)
	if err == nil {
		if info, err = os.Stat(outDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid output path %q: %w", c.Out, err)
	}
	c.Out = outDir

	if c.HMargin < 0 || c.HMargin > maxMargin {
		return fmt.Errorf("horizontal margin must be between 0 and %d pixels, got %d", maxMargin, c.HMargin)
	}
	if c.VMargin < 0 || c.VMargin > maxMargin {
		return fmt.Errorf("vertical margin must be between 0 and %d pixels, got %d", maxMargin, c.VMargin)
	}
	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	logger := slog.Default().With("file", c.Input)

	data, err := os.ReadFile(c.Input)
	if err != nil {
		return fmt.Errorf("could not read input file %q: %w", c.Input, err)
	}

	hdr, err := bitmap.ParseHeader(data)
	if err != nil {
		return fmt.Errorf("invalid bitmap %q: %w", c.Input, err)
	}
	logger.Info("bitmap opened", "width", hdr.Width, "height", hdr.Height,
		"dataOffset", hdr.DataOffset, "inverted", hdr.Inverted)

	plane, err := bitmap.DecodePlane(data, hdr)
	if err != nil {
		return fmt.Errorf("could not decode bitmap %q: %w", c.Input, err)
	}

	boxes, err := detect.Boxes(logger, plane)
	if err != nil {
		return fmt.Errorf("could not segment bitmap %q: %w", c.Input, err)
	}

	opt := icon.Options{
		SameSize: c.SameSize,
		HMargin:  c.HMargin,
		VMargin:  c.VMargin,
	}
	opt.MaxWidth, opt.MaxHeight = detect.MaxSize(boxes)

	// File names are zero-padded so they sort in icon order.
	digits := len(strconv.Itoa(len(boxes)))

	var wroteCount, errCount atomic.Uint64
	var failed atomic.Bool
	for i, box := range boxes {
		if failed.Load() {
			break
		}
		pool.Do(func(i int, box detect.Box) func() {
			return func() {
				name := filepath.Join(c.Out, fmt.Sprintf("%0*d.bmp", digits, i))
				if err := writeIcon(name, data, hdr, plane, box, opt); err != nil {
					errCount.Add(1)
					failed.Store(true)
					logger.Error("could not write icon file", "icon", name, "error", err)
					return
				}
				wroteCount.Add(1)
				logger.Info("icon written", "icon", name,
					"width", box.Width(), "height", box.Height())
			}
		}(i, box))
	}
	pool.Wait()

	wrote := wroteCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "icons", len(boxes), "written", wrote, "errors", errors)

	if errors > 0 {
		return fmt.Errorf("failed to write %d of %d icon files", errors, len(boxes))
	}
	return nil
}

// writeIcon composes one icon and writes it as a standalone bitmap file,
// verifying afterwards that the file on disk has the calculated size.
func writeIcon(name string, src []byte, hdr bitmap.Header, plane *bitmap.Plane, box detect.Box, opt icon.Options) (err error) {
	raster := icon.Compose(plane, box, opt)
	header := hdr.Derived(src, raster.Width(), raster.Height())

	outFile, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", name, err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close %q: %w", name, closeErr)
		}
	}()

	written, err := icon.Encode(outFile, header, raster)
	if err != nil {
		return fmt.Errorf("could not encode %q: %w", name, err)
	}
	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush %q: %w", name, err)
	}

	want := hdr.FileSizeFor(raster.Width(), raster.Height())
	info, err := os.Stat(name)
	if err != nil {
		return fmt.Errorf("could not measure %q: %w", name, err)
	}
	if info.Size() != want || written != want {
		return fmt.Errorf("size of %q is %d bytes, calculated %d bytes", name, info.Size(), want)
	}
	return nil
}
