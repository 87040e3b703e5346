// slice.go is the sheet extraction pipeline: detect cells, crop content,
// composite onto output canvases.

package sheet

import (
	"fmt"
	"image"
	"log/slog"

	"tileforge/internal/imageio"
)

// SliceOptions controls sheet extraction.
type SliceOptions struct {
	// Grid switches from projection detection to a fixed grid.
	Grid bool
	// GridCols and GridRows shape the fixed grid. Rows defaults to 1.
	GridCols, GridRows int
	// Detect tunes projection detection when Grid is false.
	Detect DetectOptions
	// AlphaThreshold zeroes alpha at or below it before detection and
	// cropping; 0 disables the cleanup.
	AlphaThreshold uint8
	// Names label the extracted icons in order. Icons beyond the list
	// are dropped with a warning; blank or missing names fall back to
	// icon_NN.
	Names []string
	// Padding surrounds each icon's content with transparent pixels.
	Padding int
	// Uniform sizes every output to the largest content box plus
	// padding, keeping the set center-aligned when stacked.
	Uniform bool
	// MaxSize caps output dimensions, downscaling when exceeded; 0
	// disables.
	MaxSize int
}

// Icon is one extracted sheet cell.
type Icon struct {
	Name  string
	Image *image.NRGBA
}

// Slice extracts the icons from a sheet. Cells come from a fixed grid or
// from alpha projection, each cell is cropped to its content box, and
// the crops are composited onto tight or uniform canvases.
//
// Returns [ErrNoContent] when no cell holds any content.
func Slice(img *image.NRGBA, opts SliceOptions) ([]Icon, error) {
	work := img
	if opts.AlphaThreshold > 0 {
		work = imageio.Clone(img)
		ApplyAlphaFloor(work, opts.AlphaThreshold)
	}

	var crops []*image.NRGBA
	for _, cell := range cellRects(work, opts) {
		sub := Crop(work, cell)
		box, ok := ContentBox(sub, 0)
		if !ok {
			continue
		}
		crops = append(crops, Crop(sub, box))
	}
	if len(crops) == 0 {
		return nil, ErrNoContent
	}

	if len(opts.Names) > 0 && len(opts.Names) != len(crops) {
		slog.Warn("sheet section count does not match name count",
			"sections", len(crops), "names", len(opts.Names))
		if len(crops) > len(opts.Names) {
			crops = crops[:len(opts.Names)]
		}
	}

	canvasW, canvasH := 0, 0
	if opts.Uniform {
		for _, c := range crops {
			canvasW = max(canvasW, c.Rect.Dx())
			canvasH = max(canvasH, c.Rect.Dy())
		}
		canvasW += 2 * opts.Padding
		canvasH += 2 * opts.Padding
	}

	icons := make([]Icon, 0, len(crops))
	for i, c := range crops {
		var out *image.NRGBA
		if opts.Uniform {
			out = CenterOnCanvas(c, canvasW, canvasH)
		} else {
			out = PadCanvas(c, opts.Padding)
		}
		out = FitWithin(out, opts.MaxSize)

		name := ""
		if i < len(opts.Names) {
			name = opts.Names[i]
		}
		if name == "" {
			name = fmt.Sprintf("icon_%02d", i+1)
		}
		icons = append(icons, Icon{Name: name, Image: out})
	}
	return icons, nil
}

// cellRects returns the sheet cells to extract: a fixed grid, or
// projection-detected column spans over the full height.
func cellRects(img *image.NRGBA, opts SliceOptions) []image.Rectangle {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if opts.Grid {
		rowSpans := GridSpans(h, max(opts.GridRows, 1))
		colSpans := GridSpans(w, opts.GridCols)
		cells := make([]image.Rectangle, 0, len(rowSpans)*len(colSpans))
		for _, r := range rowSpans {
			for _, c := range colSpans {
				cells = append(cells, image.Rect(c.Start, r.Start, c.End, r.End))
			}
		}
		return cells
	}
	spans := DetectColumns(img, opts.Detect)
	cells := make([]image.Rectangle, 0, len(spans))
	for _, s := range spans {
		cells = append(cells, image.Rect(s.Start, 0, s.End, h))
	}
	return cells
}
