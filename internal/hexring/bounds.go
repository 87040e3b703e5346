// bounds.go estimates where the ring band sits in the distance field and
// derives shrink targets from it.

package hexring

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"
)

// Sentinel errors. The pipeline treats both as skip conditions: the file
// produced no usable ring and the batch moves on.
var (
	// ErrEmptyImage means no pixel cleared the alpha threshold.
	ErrEmptyImage = errors.New("no content above alpha threshold")
	// ErrDegenerateGeometry means an estimated or target band has
	// non-positive thickness.
	ErrDegenerateGeometry = errors.New("degenerate ring geometry")
)

// Bounds is a hexagonal annulus: the band between two concentric hex
// radii.
type Bounds struct {
	Inner, Outer float64
}

// Thickness returns the band width.
func (b Bounds) Thickness() float64 { return b.Outer - b.Inner }

// ShrinkPolicy picks which side of the band surrenders the removed width.
type ShrinkPolicy int

const (
	// ShrinkSymmetric keeps the band midpoint and trims both sides.
	ShrinkSymmetric ShrinkPolicy = iota
	// ShrinkInner keeps the outer edge and trims from the inside.
	ShrinkInner
	// ShrinkOuter keeps the inner edge and trims from the outside.
	ShrinkOuter
)

// ParseShrinkPolicy maps the manifest strings "symmetric", "inner" and
// "outer".
func ParseShrinkPolicy(s string) (ShrinkPolicy, error) {
	switch s {
	case "symmetric":
		return ShrinkSymmetric, nil
	case "inner":
		return ShrinkInner, nil
	case "outer":
		return ShrinkOuter, nil
	default:
		return 0, fmt.Errorf("unknown shrink policy %q (want symmetric, inner, or outer)", s)
	}
}

func (p ShrinkPolicy) String() string {
	switch p {
	case ShrinkInner:
		return "inner"
	case ShrinkOuter:
		return "outer"
	default:
		return "symmetric"
	}
}

// Shrink derives the target band for the given thickness factor.
func (b Bounds) Shrink(factor float64, policy ShrinkPolicy) Bounds {
	tt := b.Thickness() * factor
	switch policy {
	case ShrinkInner:
		return Bounds{Inner: b.Outer - tt, Outer: b.Outer}
	case ShrinkOuter:
		return Bounds{Inner: b.Inner, Outer: b.Inner + tt}
	default:
		mid := (b.Inner + b.Outer) / 2
		return Bounds{Inner: mid - tt/2, Outer: mid + tt/2}
	}
}

// EstimateBounds locates the ring band. It collects the field values of
// every pixel whose alpha exceeds opts.AlphaThreshold and takes the
// configured low and high percentiles, so a handful of stray opaque
// pixels cannot drag the bounds. img must match the field dimensions.
//
// Returns [ErrEmptyImage] when nothing clears the threshold and
// [ErrDegenerateGeometry] when the estimated band has no width.
func EstimateBounds(f *Field, img *image.NRGBA, opts Options) (Bounds, error) {
	samples := make([]float64, 0, f.W*f.H/4)
	for y := 0; y < f.H; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+f.W*4]
		for x := 0; x < f.W; x++ {
			if row[x*4+3] > opts.AlphaThreshold {
				samples = append(samples, f.At(x, y))
			}
		}
	}
	if len(samples) == 0 {
		return Bounds{}, ErrEmptyImage
	}
	sort.Float64s(samples)
	b := Bounds{
		Inner: percentile(samples, opts.InnerPercentile),
		Outer: percentile(samples, opts.OuterPercentile),
	}
	if b.Thickness() <= 0 {
		return Bounds{}, fmt.Errorf("%w: estimated band [%.2f, %.2f]", ErrDegenerateGeometry, b.Inner, b.Outer)
	}
	return b, nil
}

// percentile returns the p-th percentile of sorted (ascending) values,
// interpolating linearly between adjacent order statistics.
func percentile(sorted []float64, p float64) float64 {
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
