// sheet.go renders the demo sprite sheet and textures: a capital letter
// centered on a solid background, in the style of game item icons.

package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// IconStyle describes one rendered icon cell.
type IconStyle struct {
	// Letter is drawn centered; only its first rune is used.
	Letter string
	// Bg fills the cell, Fg colors the glyph.
	Bg, Fg color.NRGBA
	// Size is the square cell edge in pixels.
	Size int
	// FontSize is the font size in points at 72 DPI.
	FontSize float64
}

// loadFont parses the embedded Go Bold face. Using the toolchain's bundled
// font keeps the generator free of network and filesystem dependencies.
func loadFont() (*opentype.Font, error) {
	return opentype.Parse(gobold.TTF)
}

// drawLetter draws a glyph string centered in the rectangle using the
// measured pixel bounds of the rendered glyphs.
func drawLetter(dst *image.NRGBA, rect image.Rectangle, letter string, fg color.NRGBA, otFont *opentype.Font, fontSize float64) error {
	face, err := opentype.NewFace(otFont, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("create font face: %w", err)
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, letter)
	glyphW := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphH := (bounds.Max.Y - bounds.Min.Y).Ceil()

	originX := rect.Min.X + (rect.Dx()-glyphW)/2 - bounds.Min.X.Floor()
	originY := rect.Min.Y + (rect.Dy()-glyphH)/2 - bounds.Min.Y.Floor()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(originX, originY),
	}
	d.DrawString(letter)
	return nil
}

// RenderIcon draws a centered capital letter on a solid square background.
func RenderIcon(style IconStyle, otFont *opentype.Font) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, style.Size, style.Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(style.Bg), image.Point{}, draw.Src)

	letter := style.Letter[:1]
	if err := drawLetter(img, img.Bounds(), letter, style.Fg, otFont, style.FontSize); err != nil {
		return nil, fmt.Errorf("render %q: %w", letter, err)
	}
	return img, nil
}

// RenderSheet lays icons out left to right in a single row, separated and
// surrounded by transparent gutters, the layout column slicing expects.
func RenderSheet(icons []*image.NRGBA, gutter int) *image.NRGBA {
	cell := 0
	for _, icon := range icons {
		if h := icon.Bounds().Dy(); h > cell {
			cell = h
		}
	}
	width := gutter
	for _, icon := range icons {
		width += icon.Bounds().Dx() + gutter
	}
	sheet := image.NewNRGBA(image.Rect(0, 0, width, cell+2*gutter))

	x := gutter
	for _, icon := range icons {
		b := icon.Bounds()
		dst := image.Rect(x, gutter, x+b.Dx(), gutter+b.Dy())
		draw.Draw(sheet, dst, icon, b.Min, draw.Src)
		x += b.Dx() + gutter
	}
	return sheet
}

// RenderTexture draws a dark letter on an opaque white canvas, offset toward
// the top-left so normalize jobs have background to key and content to
// recenter.
func RenderTexture(letter string, width, height int, otFont *opentype.Font) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}), image.Point{}, draw.Src)

	// Content occupies the top-left two thirds of the canvas.
	region := image.Rect(0, 0, width*2/3, height*2/3)
	ink := color.NRGBA{R: 0x2E, G: 0x2A, B: 0x24, A: 0xFF}
	if err := drawLetter(img, region, letter[:1], ink, otFont, float64(min(width, height))/2); err != nil {
		return nil, err
	}
	return img, nil
}
