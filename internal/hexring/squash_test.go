// squash_test.go tests the radial warp: dimension invariance, identity
// at factor 1.0, the halved-band reference scenario, monotonic thinning
// across factors, alpha policy ordering, and shrink policy placement.

package hexring

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func TestSquashPreservesDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"square", 128, 128},
		{"wide", 160, 96},
		{"tall", 96, 160},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := ringImage(tt.w, tt.h, PointyTop, 20, 35)
			opts := DefaultOptions()
			opts.ThicknessFactor = 0.6
			out, err := Squash(img, opts)
			if err != nil {
				t.Fatalf("Squash failed: %v", err)
			}
			if out.Bounds() != img.Bounds() {
				t.Errorf("bounds = %v, want %v", out.Bounds(), img.Bounds())
			}
		})
	}
}

func TestSquashIdentityAtFactorOne(t *testing.T) {
	// Factor 1.0 with symmetric shrink maps every band distance to
	// itself, so pixels clear of the feather must come through exactly.
	img := ringImage(256, 256, PointyTop, 60, 90)
	out, err := Squash(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Squash failed: %v", err)
	}

	f := NewField(256, 256, PointyTop)
	checked := 0
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			if d := f.At(x, y); d < 64 || d > 86 {
				continue
			}
			i := img.PixOffset(x, y)
			o := out.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				diff := int(out.Pix[o+c]) - int(img.Pix[i+c])
				if diff < -1 || diff > 1 {
					t.Fatalf("pixel (%d, %d) channel %d = %d, want %d", x, y, c, out.Pix[o+c], img.Pix[i+c])
				}
			}
			checked++
		}
	}
	if checked == 0 {
		t.Fatal("probe region missed the band entirely")
	}
}

func TestSquashReferenceScenario(t *testing.T) {
	// 512x512 pointy ring spanning distances 180..220, red channel
	// encoding each pixel's own distance. Halving the band symmetrically
	// lands it on 190..210 with the midpoint sampled from the midpoint.
	img := ringImage(512, 512, PointyTop, 180, 220)
	opts := DefaultOptions()
	opts.ThicknessFactor = 0.5
	out, err := Squash(img, opts)
	if err != nil {
		t.Fatalf("Squash failed: %v", err)
	}

	// Probes along the +x face direction, where distance equals offset.
	alphaAt := func(dx int) uint8 { return out.NRGBAAt(256+dx, 256).A }
	if a := alphaAt(150); a != 0 {
		t.Errorf("alpha at distance 150 = %d, want 0", a)
	}
	if a := alphaAt(185); a != 0 {
		t.Errorf("alpha at distance 185 = %d, want 0", a)
	}
	if a := alphaAt(215); a != 0 {
		t.Errorf("alpha at distance 215 = %d, want 0", a)
	}
	if a := alphaAt(200); a != 255 {
		t.Errorf("alpha at distance 200 = %d, want 255", a)
	}
	if r := out.NRGBAAt(456, 256).R; r < 195 || r > 205 {
		t.Errorf("red at distance 200 = %d, want about 200 (old band midpoint)", r)
	}

	got := measuredBounds(t, out, PointyTop)
	if math.Abs(got.Inner-190) > 2.5 {
		t.Errorf("output Inner = %.2f, want about 190", got.Inner)
	}
	if math.Abs(got.Outer-210) > 2.5 {
		t.Errorf("output Outer = %.2f, want about 210", got.Outer)
	}
}

func TestSquashThinsMonotonically(t *testing.T) {
	img := ringImage(256, 256, PointyTop, 60, 90)
	prev := math.Inf(1)
	for _, factor := range []float64{1.0, 0.7, 0.4} {
		opts := DefaultOptions()
		opts.ThicknessFactor = factor
		out, err := Squash(img, opts)
		if err != nil {
			t.Fatalf("Squash(factor %v) failed: %v", factor, err)
		}
		got := measuredBounds(t, out, PointyTop).Thickness()
		if got >= prev {
			t.Errorf("thickness at factor %v = %.2f, not below %.2f", factor, got, prev)
		}
		if want := 30 * factor; math.Abs(got-want) > 3 {
			t.Errorf("thickness at factor %v = %.2f, want about %.2f", factor, got, want)
		}
		prev = got
	}
}

func TestSquashAlphaPolicyOrdering(t *testing.T) {
	// Semi-transparent content separates the policies: geometric keeps
	// content alpha wherever the mask allows at least that much, while
	// sampled attenuates through the whole feather.
	img := image.NewNRGBA(image.Rect(0, 0, 128, 128))
	f := NewField(128, 128, PointyTop)
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			if d := f.At(x, y); d >= 30 && d <= 50 {
				img.SetNRGBA(x, y, color.NRGBA{R: 200, A: 100})
			}
		}
	}

	opts := DefaultOptions()
	opts.ThicknessFactor = 0.6
	sampled, err := Squash(img, opts)
	if err != nil {
		t.Fatalf("Squash sampled: %v", err)
	}
	opts.Alpha = AlphaGeometric
	geometric, err := Squash(img, opts)
	if err != nil {
		t.Fatalf("Squash geometric: %v", err)
	}

	higher := 0
	for i := 3; i < len(sampled.Pix); i += 4 {
		if geometric.Pix[i] < sampled.Pix[i] {
			t.Fatalf("geometric alpha %d below sampled alpha %d at byte %d", geometric.Pix[i], sampled.Pix[i], i)
		}
		if geometric.Pix[i] > sampled.Pix[i] {
			higher++
		}
	}
	if higher == 0 {
		t.Error("expected geometric to keep more alpha somewhere in the feather")
	}
}

func TestSquashShrinkPolicyPlacement(t *testing.T) {
	img := ringImage(256, 256, PointyTop, 60, 90)
	tests := []struct {
		name      string
		policy    ShrinkPolicy
		wantInner float64
		wantOuter float64
	}{
		{"symmetric", ShrinkSymmetric, 67.5, 82.5},
		{"inner keeps outer", ShrinkInner, 75, 90},
		{"outer keeps inner", ShrinkOuter, 60, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.ThicknessFactor = 0.5
			opts.Shrink = tt.policy
			out, err := Squash(img, opts)
			if err != nil {
				t.Fatalf("Squash failed: %v", err)
			}
			got := measuredBounds(t, out, PointyTop)
			if math.Abs(got.Inner-tt.wantInner) > 2.5 {
				t.Errorf("Inner = %.2f, want about %.2f", got.Inner, tt.wantInner)
			}
			if math.Abs(got.Outer-tt.wantOuter) > 2.5 {
				t.Errorf("Outer = %.2f, want about %.2f", got.Outer, tt.wantOuter)
			}
		})
	}
}

func TestSquashFlatOrientation(t *testing.T) {
	img := ringImage(256, 256, FlatTop, 60, 90)
	opts := DefaultOptions()
	opts.Orientation = FlatTop
	opts.ThicknessFactor = 0.5
	out, err := Squash(img, opts)
	if err != nil {
		t.Fatalf("Squash failed: %v", err)
	}
	got := measuredBounds(t, out, FlatTop).Thickness()
	if math.Abs(got-15) > 2.5 {
		t.Errorf("thickness = %.2f, want about 15", got)
	}
}

func TestSquashEmptyInput(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	if _, err := Squash(img, DefaultOptions()); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("error = %v, want ErrEmptyImage", err)
	}
}
