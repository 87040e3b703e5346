// thin.go erodes a frame's opaque silhouette without resampling. Used
// for assets whose band is already the right shape but drawn too heavy.

package hexring

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
)

// thinMaskFloor is the exclusive alpha level above which a pixel counts
// as part of the silhouette being eroded.
const thinMaskFloor = 128

// Thin erodes the opaque silhouette by the given number of steps and
// zeroes the alpha of everything outside the eroded silhouette,
// including any soft fringe that never cleared the silhouette floor.
// Colors are untouched and nothing is resampled. iterations <= 0 returns
// an unmodified copy.
func Thin(img *image.NRGBA, iterations int) *image.NRGBA {
	out := image.NewNRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	if iterations <= 0 {
		return out
	}

	// Binary silhouette, white in and black out. Erosion of a two-tone
	// image is a plain minimum filter whatever the channel ranking.
	b := img.Rect
	mask := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] > thinMaskFloor {
				mask.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				mask.SetRGBA(x, y, color.RGBA{A: 255})
			}
		}
	}

	eroded := effect.Erode(mask, float64(iterations))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if eroded.RGBAAt(x, y).R < 128 {
				out.Pix[out.PixOffset(x, y)+3] = 0
			}
		}
	}
	return out
}
