// squash.go is the radial warp compositor: the transform that actually
// moves ring content to make the band thinner.

package hexring

import (
	"fmt"
	"image"
	"math"
)

// distEpsilon guards the radial scale against division by zero at the
// exact image center.
const distEpsilon = 1e-3

// AlphaPolicy picks how the edge mask combines with content alpha.
type AlphaPolicy int

const (
	// AlphaSampled multiplies content alpha by the mask, preserving
	// interior transparency detail through the feathered edge.
	AlphaSampled AlphaPolicy = iota
	// AlphaGeometric takes the minimum of content alpha and mask,
	// producing a hard geometric edge.
	AlphaGeometric
)

// ParseAlphaPolicy maps the manifest strings "sampled" and "geometric".
func ParseAlphaPolicy(s string) (AlphaPolicy, error) {
	switch s {
	case "sampled":
		return AlphaSampled, nil
	case "geometric":
		return AlphaGeometric, nil
	default:
		return 0, fmt.Errorf("unknown alpha policy %q (want sampled or geometric)", s)
	}
}

func (p AlphaPolicy) String() string {
	if p == AlphaGeometric {
		return "geometric"
	}
	return "sampled"
}

// Options controls ring estimation and reshaping. [DefaultOptions]
// matches the values the tile frame sets were tuned with.
type Options struct {
	// Orientation selects the hex distance metric.
	Orientation Orientation
	// ThicknessFactor scales the band width; 0.6 keeps 60% of it.
	ThicknessFactor float64
	// EdgeSoftness feathers the cut alpha edge, in pixels.
	EdgeSoftness float64
	// AlphaThreshold is the exclusive alpha floor for a pixel to count
	// as ring content during estimation.
	AlphaThreshold uint8
	// InnerPercentile and OuterPercentile pick the band bounds from the
	// distance distribution of content pixels.
	InnerPercentile float64
	OuterPercentile float64
	// Shrink picks which side of the band gives up the removed width.
	Shrink ShrinkPolicy
	// Alpha picks how the edge mask combines with content alpha.
	Alpha AlphaPolicy
	// Margin widens the warped annulus, in pixels, so the feathered
	// edge has warped neighbors to land on.
	Margin float64
}

// DefaultOptions returns the tuned defaults: pointy orientation, full
// thickness, 1.5 px feather, alpha floor 20, percentiles 0.5 and 99.5,
// symmetric shrink, sampled alpha, 2 px margin.
func DefaultOptions() Options {
	return Options{
		Orientation:     PointyTop,
		ThicknessFactor: 1.0,
		EdgeSoftness:    1.5,
		AlphaThreshold:  20,
		InnerPercentile: 0.5,
		OuterPercentile: 99.5,
		Shrink:          ShrinkSymmetric,
		Alpha:           AlphaSampled,
		Margin:          2,
	}
}

// Squash compresses the ring band to the target thickness.
//
// The work happens in an annulus around the target band: every output
// pixel there maps back to a source radius by linear interpolation
// between the source bounds and samples the input with a Catmull-Rom
// kernel along its center ray. Pixels outside the annulus keep their
// input content verbatim. A final mask pass cuts the alpha to the target
// band with feathered edges, so the untouched outside ends up fully
// transparent.
func Squash(img *image.NRGBA, opts Options) (*image.NRGBA, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	f := NewField(w, h, opts.Orientation)

	src, err := EstimateBounds(f, img, opts)
	if err != nil {
		return nil, err
	}
	dst := src.Shrink(opts.ThicknessFactor, opts.Shrink)
	if dst.Thickness() <= 0 {
		return nil, fmt.Errorf("%w: target band [%.2f, %.2f]", ErrDegenerateGeometry, dst.Inner, dst.Outer)
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	lo, hi := dst.Inner-opts.Margin, dst.Outer+opts.Margin

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := f.At(x, y)
			o := out.PixOffset(x, y)
			if d < lo || d > hi {
				i := img.PixOffset(x, y)
				copy(out.Pix[o:o+4], img.Pix[i:i+4])
				continue
			}
			t := clamp01((d - dst.Inner) / dst.Thickness())
			dSrc := src.Inner + t*src.Thickness()
			scale := dSrc / math.Max(d, distEpsilon)
			px := sampleBicubic(img, cx+(float64(x)-cx)*scale, cy+(float64(y)-cy)*scale)
			out.Pix[o+0] = clampByte(px[0])
			out.Pix[o+1] = clampByte(px[1])
			out.Pix[o+2] = clampByte(px[2])
			out.Pix[o+3] = clampByte(px[3])
		}
	}

	applyMask(out, f, dst, opts)
	return out, nil
}

// applyMask cuts img's alpha to the band b in place. The mask rises from
// 0 at each bound to 1 one softness-width inside it, so alpha is zero
// everywhere outside the band and feathers inward.
func applyMask(img *image.NRGBA, f *Field, b Bounds, opts Options) {
	s := opts.EdgeSoftness
	if s <= 0 {
		s = distEpsilon // hard edge
	}
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			d := f.At(x, y)
			m := clamp01((d-b.Inner)/s) * clamp01((b.Outer-d)/s)
			i := img.PixOffset(x, y) + 3
			if opts.Alpha == AlphaGeometric {
				img.Pix[i] = min(img.Pix[i], clampByte(m*255))
			} else {
				img.Pix[i] = clampByte(float64(img.Pix[i]) * m)
			}
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampByte rounds v to the nearest byte, absorbing kernel overshoot.
func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
