// detect.go finds icon cells in a sheet, either by alpha projection or
// by fixed grid division.

package sheet

import "image"

// DetectOptions tunes projection-based column detection. The zero value
// accepts any non-empty column and keeps every span.
type DetectOptions struct {
	// SumThreshold is the exclusive minimum per-column alpha sum for
	// the column to count as occupied. Sums run over raw 0-255 values.
	SumThreshold int
	// MinWidth drops detected spans narrower than this.
	MinWidth int
	// MergeGap merges neighboring spans separated by fewer than this
	// many empty columns.
	MergeGap int
}

// DetectColumns scans img's columns and returns the spans whose alpha
// projection clears the threshold, after dropping slivers and merging
// near-adjacent spans.
func DetectColumns(img *image.NRGBA, opts DetectOptions) []Span {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	occupied := make([]bool, w)
	for x := 0; x < w; x++ {
		sum := 0
		for y := 0; y < h; y++ {
			sum += int(img.Pix[y*img.Stride+x*4+3])
		}
		occupied[x] = sum > opts.SumThreshold
	}

	spans := runs(occupied)
	spans = filterSpans(spans, opts.MinWidth)
	return mergeSpans(spans, opts.MergeGap)
}

// GridSpans divides width into cols equal spans, the fixed-layout
// alternative to projection detection. The last span absorbs the
// remainder of a non-divisible width.
func GridSpans(width, cols int) []Span {
	if cols <= 0 || width <= 0 {
		return nil
	}
	spans := make([]Span, cols)
	cell := width / cols
	for i := 0; i < cols; i++ {
		spans[i] = Span{Start: i * cell, End: (i + 1) * cell}
	}
	spans[cols-1].End = width
	return spans
}

// runs converts a column occupancy mask into half-open spans.
func runs(occupied []bool) []Span {
	var spans []Span
	start := -1
	for x, on := range occupied {
		switch {
		case on && start < 0:
			start = x
		case !on && start >= 0:
			spans = append(spans, Span{Start: start, End: x})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, Span{Start: start, End: len(occupied)})
	}
	return spans
}

// filterSpans drops spans narrower than minWidth.
func filterSpans(spans []Span, minWidth int) []Span {
	if minWidth <= 0 {
		return spans
	}
	kept := spans[:0]
	for _, s := range spans {
		if s.Width() >= minWidth {
			kept = append(kept, s)
		}
	}
	return kept
}

// mergeSpans joins spans whose separating gap is below mergeGap.
func mergeSpans(spans []Span, mergeGap int) []Span {
	if mergeGap <= 0 || len(spans) < 2 {
		return spans
	}
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.Start-last.End < mergeGap {
			last.End = s.End
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}
