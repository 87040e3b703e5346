// hexring_test.go tests orientation parsing and the hexagonal distance
// field, and holds the synthetic ring helpers shared by the transform
// tests.

package hexring

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// ringImage builds a w by h image whose pixels with field distance in
// [inner, outer] are opaque. The red channel encodes the pixel's own
// distance so warp tests can verify where content was sampled from.
func ringImage(w, h int, o Orientation, inner, outer float64) *image.NRGBA {
	f := NewField(w, h, o)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := f.At(x, y)
			if d >= inner && d <= outer {
				img.SetNRGBA(x, y, color.NRGBA{R: uint8(math.Min(d, 255)), G: 128, B: 64, A: 255})
			}
		}
	}
	return img
}

// measuredBounds estimates the band of img with default thresholds.
func measuredBounds(t *testing.T, img *image.NRGBA, o Orientation) Bounds {
	t.Helper()
	opts := DefaultOptions()
	opts.Orientation = o
	f := NewField(img.Rect.Dx(), img.Rect.Dy(), o)
	b, err := EstimateBounds(f, img, opts)
	if err != nil {
		t.Fatalf("EstimateBounds on result failed: %v", err)
	}
	return b
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{"pointy", PointyTop, false},
		{"flat", FlatTop, false},
		{"diagonal", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseOrientation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOrientation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOrientation(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got.String() != tt.in {
			t.Errorf("String() = %q, want %q", got.String(), tt.in)
		}
	}
}

func TestFieldValues(t *testing.T) {
	// 200x200 raster, center at (100, 100), probes 50 px out along the
	// axes. Face directions read the straight distance, vertex
	// directions read sqrt(3)/2 of it.
	tests := []struct {
		name string
		o    Orientation
		x, y int
		want float64
	}{
		{"pointy face direction", PointyTop, 150, 100, 50},
		{"pointy vertex direction", PointyTop, 100, 150, 50 * hexHalf},
		{"flat vertex direction", FlatTop, 150, 100, 50 * hexHalf},
		{"flat face direction", FlatTop, 100, 150, 50},
		{"center", PointyTop, 100, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewField(200, 200, tt.o)
			if got := f.At(tt.x, tt.y); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("At(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestFieldSymmetry(t *testing.T) {
	// The center sits at (W/2, H/2) exactly, so (c, r) and (W-c, H-r)
	// are mirror pairs.
	f := NewField(64, 64, PointyTop)
	probes := []struct{ x, y int }{{1, 1}, {10, 3}, {20, 40}, {63, 63}}
	for _, p := range probes {
		got, want := f.At(64-p.x, 64-p.y), f.At(p.x, p.y)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("At(%d, %d) = %v, mirror At(%d, %d) = %v", 64-p.x, 64-p.y, got, p.x, p.y, want)
		}
	}
}

func TestFieldDimensions(t *testing.T) {
	f := NewField(120, 48, FlatTop)
	if f.W != 120 || f.H != 48 {
		t.Fatalf("field dims = (%d, %d), want (120, 48)", f.W, f.H)
	}
	// Corners must be reachable without panics.
	_ = f.At(0, 0)
	_ = f.At(119, 47)
}
