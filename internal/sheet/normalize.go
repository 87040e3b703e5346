// normalize.go cleans standalone textures: background keying, content
// crop, and a Lanczos fit onto a square canvas.

package sheet

import (
	"image"

	"github.com/nfnt/resize"

	"tileforge/internal/imageio"
)

// NormalizeOptions controls texture normalization.
type NormalizeOptions struct {
	// CanvasSize is the square output edge. 0 means crop-only output
	// sized to the content box, with no scaling.
	CanvasSize int
	// Margin is the canvas fraction kept clear around content; 0.1
	// leaves a 10% border.
	Margin float64
	// WhiteThreshold keys out pixels with all color channels above it
	// before cropping; 0 disables keying.
	WhiteThreshold uint8
	// AlphaThreshold is the exclusive content box floor.
	AlphaThreshold uint8
}

// Normalize keys out the background, crops to the content box, and fits
// the result onto a transparent square canvas. Content always rescales
// to fill the canvas minus margin, up or down.
//
// Returns [ErrNoContent] when nothing clears the alpha threshold.
func Normalize(img *image.NRGBA, opts NormalizeOptions) (*image.NRGBA, error) {
	work := img
	if opts.WhiteThreshold > 0 {
		work = imageio.Clone(img)
		KeyOutWhite(work, opts.WhiteThreshold)
	}

	box, ok := ContentBox(work, opts.AlphaThreshold)
	if !ok {
		return nil, ErrNoContent
	}
	content := Crop(work, box)
	if opts.CanvasSize <= 0 {
		return content, nil
	}

	target := float64(opts.CanvasSize) * (1 - opts.Margin)
	scale := target / float64(max(content.Rect.Dx(), content.Rect.Dy()))
	nw := max(int(float64(content.Rect.Dx())*scale), 1)
	nh := max(int(float64(content.Rect.Dy())*scale), 1)

	scaled := imageio.ToNRGBA(resize.Resize(uint(nw), uint(nh), content, resize.Lanczos3))
	return CenterOnCanvas(scaled, opts.CanvasSize, opts.CanvasSize), nil
}
