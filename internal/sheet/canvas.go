// canvas.go composites icons onto transparent canvases and caps output
// sizes.

package sheet

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// CenterOnCanvas returns a w by h transparent canvas with img drawn
// centered.
func CenterOnCanvas(img *image.NRGBA, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	x := (w - img.Rect.Dx()) / 2
	y := (h - img.Rect.Dy()) / 2
	r := image.Rect(x, y, x+img.Rect.Dx(), y+img.Rect.Dy())
	draw.Draw(out, r, img, img.Rect.Min, draw.Src)
	return out
}

// PadCanvas surrounds img with padding transparent pixels on every side.
func PadCanvas(img *image.NRGBA, padding int) *image.NRGBA {
	return CenterOnCanvas(img, img.Rect.Dx()+2*padding, img.Rect.Dy()+2*padding)
}

// FitWithin downscales img so neither dimension exceeds limit, keeping
// aspect ratio. Images already within the limit come back unchanged.
// Scaling runs premultiplied so transparent neighbors do not bleed dark
// fringes into icon edges.
func FitWithin(img *image.NRGBA, limit int) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if limit <= 0 || (w <= limit && h <= limit) {
		return img
	}
	scale := float64(limit) / float64(max(w, h))
	nw := max(int(float64(w)*scale+0.5), 1)
	nh := max(int(float64(h)*scale+0.5), 1)

	pre := image.NewRGBA(img.Rect)
	draw.Draw(pre, pre.Rect, img, img.Rect.Min, draw.Src)
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Rect, pre, pre.Rect, xdraw.Src, nil)
	out := image.NewNRGBA(dst.Rect)
	draw.Draw(out, out.Rect, dst, image.Point{}, draw.Src)
	return out
}
