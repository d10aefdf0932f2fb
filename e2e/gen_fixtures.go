//go:build ignore

// gen_fixtures creates small test images for the batch smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(filepath.Join(dir, "scenes"), 0o755); err != nil {
		fatal(err)
	}
	rng := rand.New(rand.NewPCG(7, 11))

	// Noisy gradient: exercises the codec at every level.
	write(filepath.Join(dir, "gradient.jpg"), noisyGradient(320, 180, rng))

	// Flat regions with hard edges: watershed and k-means should agree.
	for i := 1; i <= 3; i++ {
		write(filepath.Join(dir, "scenes", fmt.Sprintf("blocks-%d.png", i)), blocks(160, 120, i+1))
	}

	// Salt-and-pepper noise over a flat field for the median filter.
	write(filepath.Join(dir, "salt.png"), salted(96, 96, rng))

	// Translucent icon: alpha passes through untouched.
	write(filepath.Join(dir, "icon.png"), alphaDisc(64))

	// TIFF source via x/image.
	write(filepath.Join(dir, "scan.tiff"), noisyGradient(120, 160, rng))

	fmt.Fprintf(os.Stderr, "gen_fixtures: created 7 fixtures in %s\n", dir)
}

func noisyGradient(w, h int, rng *rand.Rand) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := rng.IntN(31) - 15
			img.SetNRGBA(x, y, color.NRGBA{
				R: clamp(x*255/w + n),
				G: clamp(y*255/h + n),
				B: clamp(128 + n),
				A: 255,
			})
		}
	}
	return img
}

func blocks(w, h, n int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			band := x * n / w
			v := uint8(30 + band*200/n)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: 255 - v, B: uint8(band * 40), A: 255})
		}
	}
	return img
}

func salted(w, h int, rng *rand.Rand) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 120, G: 140, B: 160, A: 255}
			switch r := rng.IntN(100); {
			case r < 3:
				c = color.NRGBA{A: 255}
			case r < 6:
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func alphaDisc(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-c, y-c
			if dx*dx+dy*dy <= c*c {
				img.SetNRGBA(x, y, color.NRGBA{R: 230, G: 90, B: 40, A: uint8(255 - (dx*dx+dy*dy)*200/(c*c))})
			}
		}
	}
	return img
}

func clamp(v int) uint8 {
	return uint8(min(255, max(0, v)))
}

func write(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fatal(err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".jpg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 92})
	case ".tiff":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "gen_fixtures:", err)
	os.Exit(1)
}
