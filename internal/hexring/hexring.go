// Package hexring reshapes the hexagonal ring frames used by tile
// renderers: images whose opaque content forms a hex-shaped band around a
// transparent middle.
//
// The geometry is anchored on a hexagonal distance field ([NewField]):
// every pixel gets the radius of the concentric hexagon passing through
// it, so locating the ring reduces to two percentiles over the field
// values of opaque pixels ([EstimateBounds]). [Squash] compresses the
// band toward a thinner target by warping pixels radially inward and
// re-cutting the edge alpha, [Remask] re-cuts the alpha without moving
// any pixels, and [Thin] erodes the opaque silhouette outright.
//
// All functions take zero-origin NRGBA images and leave their inputs
// untouched. Output dimensions always equal input dimensions.
package hexring

import (
	"fmt"
	"math"
)

// Orientation selects the hex distance metric.
type Orientation int

const (
	// PointyTop hexes have vertices on the vertical axis and flat faces
	// on the left and right.
	PointyTop Orientation = iota
	// FlatTop hexes have vertices on the horizontal axis.
	FlatTop
)

// ParseOrientation maps the manifest strings "pointy" and "flat".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "pointy":
		return PointyTop, nil
	case "flat":
		return FlatTop, nil
	default:
		return 0, fmt.Errorf("unknown orientation %q (want pointy or flat)", s)
	}
}

func (o Orientation) String() string {
	if o == FlatTop {
		return "flat"
	}
	return "pointy"
}

// hexHalf is sqrt(3)/2, the apothem of a unit hexagon.
var hexHalf = math.Sqrt(3) / 2

// Field holds per-pixel hexagonal distances for a W by H raster. The
// distance at a pixel is the face distance of the concentric hexagon
// passing through it, measured from the image center in pixels. A pure
// function of dimensions and orientation; pixel content never enters.
//
// Non-square rasters produce a stretched field and therefore stretched
// rings. That matches how such assets are drawn, so it is preserved
// rather than corrected.
type Field struct {
	W, H int
	d    []float64
}

// NewField computes the distance field for a w by h raster. Coordinates
// are centered on (w/2, h/2).
func NewField(w, h int, o Orientation) *Field {
	f := &Field{W: w, H: h, d: make([]float64, w*h)}
	cx := float64(w) / 2
	cy := float64(h) / 2
	i := 0
	for row := 0; row < h; row++ {
		y := math.Abs(float64(row) - cy)
		for col := 0; col < w; col++ {
			x := math.Abs(float64(col) - cx)
			if o == FlatTop {
				f.d[i] = math.Max(x*hexHalf+y*0.5, y)
			} else {
				f.d[i] = math.Max(y*hexHalf+x*0.5, x)
			}
			i++
		}
	}
	return f
}

// At returns the distance at pixel (x, y).
func (f *Field) At(x, y int) float64 {
	return f.d[y*f.W+x]
}
