// ring.go renders anti-aliased hexagonal ring frames. A pixel's distance
// from center is the largest projection of its offset onto the hexagon's
// three edge normals, so iso-distance lines are concentric hexagons and a
// band between two distances forms a ring.

package main

import (
	"image"
	"image/color"
	"math"
)

// RingStyle describes one rendered hexagonal frame.
type RingStyle struct {
	// Size is the square canvas edge in pixels.
	Size int
	// Pointy selects vertex-up orientation; false renders flat-top.
	Pointy bool
	// Inner and Outer are the band bounds in pixels of hex distance.
	Inner, Outer float64
	// Feather is the linear alpha ramp width at both band edges, in pixels.
	Feather float64
	// Band colors the outer half of the ring, Rim the inner half, so the
	// band carries visible radial detail.
	Band, Rim color.NRGBA
}

// hexAxes returns the three edge-normal unit vectors for the orientation.
// Flat-top normals point at 0, 60 and 120 degrees; pointy-top is the same
// set rotated by 30.
func hexAxes(pointy bool) [3][2]float64 {
	start := 0.0
	if pointy {
		start = math.Pi / 6
	}
	var axes [3][2]float64
	for i := range axes {
		a := start + float64(i)*math.Pi/3
		axes[i] = [2]float64{math.Cos(a), math.Sin(a)}
	}
	return axes
}

// hexDistance is the hexagonal distance of (dx, dy) from the origin.
func hexDistance(dx, dy float64, axes [3][2]float64) float64 {
	var d float64
	for _, ax := range axes {
		if p := math.Abs(dx*ax[0] + dy*ax[1]); p > d {
			d = p
		}
	}
	return d
}

// coverage returns band opacity in [0, 1] at hex distance d, ramping
// linearly over the feather width at both edges.
func coverage(d, inner, outer, feather float64) float64 {
	if feather <= 0 {
		if d < inner || d > outer {
			return 0
		}
		return 1
	}
	up := clamp01((d - inner) / feather)
	down := clamp01((outer - d) / feather)
	return math.Min(up, down)
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

// RenderRing draws an anti-aliased hexagonal ring on a transparent canvas.
func RenderRing(s RingStyle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.Size, s.Size))
	center := float64(s.Size-1) / 2
	mid := (s.Inner + s.Outer) / 2
	axes := hexAxes(s.Pointy)

	for y := 0; y < s.Size; y++ {
		for x := 0; x < s.Size; x++ {
			d := hexDistance(float64(x)-center, float64(y)-center, axes)
			a := coverage(d, s.Inner, s.Outer, s.Feather)
			if a <= 0 {
				continue
			}
			c := s.Band
			if d < mid {
				c = s.Rim
			}
			c.A = uint8(a*float64(c.A) + 0.5)
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
