// gen-samples generates demo input art for the tileforge pipeline.
//
// It renders two hexagonal ring frames, a three-icon sprite sheet, and a
// pair of white-background textures, laid out to match the input globs in
// the starter manifest written by `tileforge init`. Running this tool and
// then `tileforge run` from the repo root exercises every job type.
//
// Usage:
//
//	cd tools/gen-samples && go run .
//	cd tools/gen-samples && go run . -out ../../assets
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	// Default path assumes running from tools/gen-samples/
	outDir := flag.String("out", "../../assets", "Base output directory (frames/, sheets/ and textures/ are created beneath it)")
	flag.Parse()

	otFont, err := loadFont()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: parse embedded font: %v\n", err)
		os.Exit(1)
	}

	total := 0

	// Ring frames, one per orientation
	rings := []struct {
		name  string
		style RingStyle
	}{
		{"ring_pointy.png", RingStyle{
			Size: 512, Pointy: true,
			Inner: 180, Outer: 220, Feather: 2,
			Band: color.NRGBA{R: 0xB8, G: 0x86, B: 0x3B, A: 0xFF},
			Rim:  color.NRGBA{R: 0x8A, G: 0x5A, B: 0x20, A: 0xFF},
		}},
		{"ring_flat.png", RingStyle{
			Size: 512, Pointy: false,
			Inner: 170, Outer: 225, Feather: 2,
			Band: color.NRGBA{R: 0x6E, G: 0x6E, B: 0x78, A: 0xFF},
			Rim:  color.NRGBA{R: 0x46, G: 0x46, B: 0x50, A: 0xFF},
		}},
	}
	for _, r := range rings {
		writeImage(filepath.Join(*outDir, "frames", r.name), RenderRing(r.style))
		total++
	}

	// Sprite sheet: three item icons in one row
	styles := []IconStyle{
		{Letter: "S", Size: 96, FontSize: 64, Bg: color.NRGBA{R: 0x4A, G: 0x6F, B: 0x8A, A: 0xFF}, Fg: color.NRGBA{R: 0xF2, G: 0xF2, B: 0xF2, A: 0xFF}},
		{Letter: "H", Size: 96, FontSize: 64, Bg: color.NRGBA{R: 0x4F, G: 0x7A, B: 0x4A, A: 0xFF}, Fg: color.NRGBA{R: 0xF2, G: 0xF2, B: 0xF2, A: 0xFF}},
		{Letter: "P", Size: 96, FontSize: 64, Bg: color.NRGBA{R: 0x6E, G: 0x4A, B: 0x8A, A: 0xFF}, Fg: color.NRGBA{R: 0xF2, G: 0xF2, B: 0xF2, A: 0xFF}},
	}
	icons := make([]*image.NRGBA, 0, len(styles))
	for _, s := range styles {
		icon, err := RenderIcon(s, otFont)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: render icon %s: %v\n", s.Letter, err)
			os.Exit(1)
		}
		icons = append(icons, icon)
	}
	writeImage(filepath.Join(*outDir, "sheets", "icons.png"), RenderSheet(icons, 24))
	total++

	// Textures: letters on white, off-center, odd canvas sizes. The nested
	// directory matches the starter manifest's ** glob.
	texA, err := RenderTexture("A", 300, 200, otFont)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: render texture A: %v\n", err)
		os.Exit(1)
	}
	writeImage(filepath.Join(*outDir, "textures", "emblem_a.png"), texA)
	total++

	texB, err := RenderTexture("B", 240, 320, otFont)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: render texture B: %v\n", err)
		os.Exit(1)
	}
	writeImage(filepath.Join(*outDir, "textures", "detail", "emblem_b.png"), texB)
	total++

	fmt.Printf("Done. Generated %d sample images under %s.\n", total, *outDir)
}

// writeImage encodes img as PNG at path, creating parent directories.
func writeImage(path string, img image.Image) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: create output dir: %v\n", err)
		os.Exit(1)
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: write %s: %v\n", path, err)
		os.Exit(1)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "error: encode %s: %v\n", path, err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error: write %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("  %s\n", path)
}
