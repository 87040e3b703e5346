// thin_test.go tests silhouette erosion: opaque area shrinking by the
// expected amounts, color preservation, soft-fringe removal, and the
// zero-iteration copy.

package hexring

import (
	"image"
	"image/color"
	"testing"
)

func opaqueCount(img *image.NRGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			n++
		}
	}
	return n
}

func TestThinShrinksSilhouette(t *testing.T) {
	// A 40x40 opaque square away from the canvas edge: eroding by r
	// leaves a (40-2r) square.
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 10; y < 50; y++ {
		for x := 10; x < 50; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 30, G: 200, B: 90, A: 255})
		}
	}

	one := Thin(img, 1)
	three := Thin(img, 3)

	n0, n1, n3 := opaqueCount(img), opaqueCount(one), opaqueCount(three)
	if n1 >= n0 || n3 >= n1 {
		t.Fatalf("opaque counts not strictly decreasing: %d, %d, %d", n0, n1, n3)
	}
	if want := 38 * 38; n1 != want {
		t.Errorf("opaque after 1 step = %d, want %d", n1, want)
	}
	if want := 34 * 34; n3 != want {
		t.Errorf("opaque after 3 steps = %d, want %d", n3, want)
	}

	if a := one.NRGBAAt(10, 30).A; a != 0 {
		t.Errorf("border pixel alpha = %d, want 0", a)
	}
	if c := one.NRGBAAt(30, 30); c != (color.NRGBA{R: 30, G: 200, B: 90, A: 255}) {
		t.Errorf("interior pixel = %v, want original color", c)
	}
	// Cut pixels lose alpha but never their color bytes.
	if c := one.NRGBAAt(10, 30); c.R != 30 || c.G != 200 || c.B != 90 {
		t.Errorf("cut pixel lost its color: %v", c)
	}
}

func TestThinDropsSoftFringe(t *testing.T) {
	// A pixel that never clears the silhouette floor loses its alpha
	// outright, as does anything within eroding reach of the hole it
	// makes.
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 10; y < 50; y++ {
		for x := 10; x < 50; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	img.SetNRGBA(30, 30, color.NRGBA{R: 255, A: 100})

	out := Thin(img, 1)
	if a := out.NRGBAAt(30, 30).A; a != 0 {
		t.Errorf("soft pixel alpha = %d, want 0", a)
	}
	if a := out.NRGBAAt(31, 31).A; a != 0 {
		t.Errorf("neighbor of soft pixel alpha = %d, want 0", a)
	}
	if a := out.NRGBAAt(33, 33).A; a != 255 {
		t.Errorf("distant interior alpha = %d, want 255", a)
	}
}

func TestThinZeroIterationsCopies(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.SetNRGBA(4, 4, color.NRGBA{R: 9, A: 200})

	out := Thin(img, 0)
	if out.NRGBAAt(4, 4) != (color.NRGBA{R: 9, A: 200}) {
		t.Fatal("zero iterations should return the image unchanged")
	}
	out.SetNRGBA(4, 4, color.NRGBA{})
	if img.NRGBAAt(4, 4) != (color.NRGBA{R: 9, A: 200}) {
		t.Error("mutating the copy changed the input")
	}
}
