// sample.go is the fractional-coordinate sampler behind [Squash]. The
// rect-to-rect scalers in x/image/draw cannot follow an arbitrary warp,
// so the kernel evaluation lives here.

package hexring

import (
	"image"
	"math"
)

// catmullRom evaluates the Catmull-Rom cubic kernel at offset t.
func catmullRom(t float64) float64 {
	if t < 0 {
		t = -t
	}
	switch {
	case t < 1:
		return ((1.5*t-2.5)*t)*t + 1
	case t < 2:
		return ((-0.5*t+2.5)*t-4)*t + 2
	default:
		return 0
	}
}

// sampleBicubic resamples img at the fractional point (x, y) with a 4x4
// Catmull-Rom kernel. Taps outside the image contribute zero in every
// channel, so content fades toward transparent at the canvas edge rather
// than smearing border pixels. At integer coordinates the result is the
// exact source pixel.
func sampleBicubic(img *image.NRGBA, x, y float64) [4]float64 {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)

	var wx, wy [4]float64
	for i := 0; i < 4; i++ {
		wx[i] = catmullRom(float64(i-1) - fx)
		wy[i] = catmullRom(float64(i-1) - fy)
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	var acc [4]float64
	for j := 0; j < 4; j++ {
		sy := y0 + j - 1
		if sy < 0 || sy >= h || wy[j] == 0 {
			continue
		}
		row := img.Pix[sy*img.Stride:]
		for i := 0; i < 4; i++ {
			sx := x0 + i - 1
			if sx < 0 || sx >= w {
				continue
			}
			wt := wx[i] * wy[j]
			if wt == 0 {
				continue
			}
			p := row[sx*4 : sx*4+4]
			acc[0] += wt * float64(p[0])
			acc[1] += wt * float64(p[1])
			acc[2] += wt * float64(p[2])
			acc[3] += wt * float64(p[3])
		}
	}
	return acc
}
