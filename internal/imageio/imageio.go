// Package imageio loads and saves the PNG images the pipeline transforms.
//
// All pipeline stages operate on *image.NRGBA with bounds anchored at the
// origin; [ToNRGBA] normalizes any decoded image into that representation.
// [Save] writes atomically so an interrupted run never leaves a truncated
// asset behind. Remote inputs are handled by [Fetcher].
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	_ "image/jpeg" // source textures are occasionally JPEG

	"tileforge/internal/atomicfile"
)

// encoder favors speed over output size. Outputs are intermediate game
// assets that downstream packers recompress anyway.
var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Load reads and decodes the image at path into a zero-origin NRGBA image.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ToNRGBA(img), nil
}

// ToNRGBA converts img to NRGBA with bounds anchored at (0,0). The input is
// returned unchanged when it already has that shape.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Clone returns a deep copy of img.
func Clone(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

// Save encodes img as PNG and writes it to path atomically, creating parent
// directories as needed.
func Save(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := atomicfile.Write(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
