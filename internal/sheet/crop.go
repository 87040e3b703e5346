// crop.go locates and extracts content boxes and cleans up channels
// before detection.

package sheet

import (
	"image"
	"image/draw"
)

// ContentBox returns the bounding box of pixels with alpha above
// threshold. ok is false when no pixel qualifies.
func ContentBox(img *image.NRGBA, threshold uint8) (box image.Rectangle, ok bool) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			if row[x*4+3] <= threshold {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// Crop copies the box region of img into a new zero-origin image.
func Crop(img *image.NRGBA, box image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, box.Dx(), box.Dy()))
	draw.Draw(out, out.Rect, img, box.Min, draw.Src)
	return out
}

// ApplyAlphaFloor zeroes alpha at or below threshold in place, clearing
// compression noise out of nominally transparent gutters. threshold 0
// leaves the image alone.
func ApplyAlphaFloor(img *image.NRGBA, threshold uint8) {
	if threshold == 0 {
		return
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] <= threshold {
			img.Pix[i] = 0
		}
	}
}

// KeyOutWhite zeroes the alpha of pixels whose red, green, and blue all
// exceed threshold, removing a white background in place. threshold 0
// disables keying.
func KeyOutWhite(img *image.NRGBA, threshold uint8) {
	if threshold == 0 {
		return
	}
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if img.Pix[i] > threshold && img.Pix[i+1] > threshold && img.Pix[i+2] > threshold {
			img.Pix[i+3] = 0
		}
	}
}
