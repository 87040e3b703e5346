// Package sheet slices sprite sheets into individual icons and
// normalizes standalone textures onto clean square canvases.
//
// A sheet is a strip of icons separated by transparent gutters.
// [DetectColumns] finds the occupied column spans by alpha projection,
// [GridSpans] divides an axis evenly instead, and [Slice] runs the whole
// extraction: span detection, per-cell content crop, and tight or
// uniform-canvas output. [Normalize] handles single textures: background
// keying, content crop, and a Lanczos fit onto a margin-padded canvas.
//
// All functions take zero-origin NRGBA images and leave their inputs
// untouched unless documented otherwise.
package sheet

import "errors"

// ErrNoContent means an image had no pixels above the alpha threshold to
// slice or normalize. The pipeline treats it as a skip condition.
var ErrNoContent = errors.New("no content above alpha threshold")

// Span is a half-open run [Start, End) of occupied sheet columns.
type Span struct {
	Start, End int
}

// Width returns the span's column count.
func (s Span) Width() int { return s.End - s.Start }
