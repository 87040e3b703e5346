// remask.go re-cuts ring alpha without resampling. The cheap sibling of
// [Squash]: content outside the target band is discarded instead of
// compressed into it, but every surviving pixel keeps its exact original
// texture.

package hexring

import (
	"fmt"
	"image"
)

// Remask estimates the ring band like [Squash] but leaves every pixel in
// place, cutting only the alpha channel down to the target band.
func Remask(img *image.NRGBA, opts Options) (*image.NRGBA, error) {
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
	copy(out.Pix, img.Pix)
	applyMask(out, f, dst, opts)
	return out, nil
}
