package pipeline

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/pixlab/internal/preset"
	"github.com/AnyUserName/pixlab/internal/report"
	"github.com/rs/zerolog"
)

func writePNG(t *testing.T, path string, w, h int, alpha bool) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{uint8(40 + x*4), uint8(60 + y*3), 120, 255}
			if x > w/2 {
				c = color.NRGBA{200, 30, uint8(y * 2), 255}
			}
			if alpha && y < h/4 {
				c.A = 100
			}
			img.SetNRGBA(x, y, c)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestScanImages(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "b.png"), 4, 4, false)
	writePNG(t, filepath.Join(in, "sub", "a.PNG"), 4, 4, false)
	writePNG(t, filepath.Join(in, ".hidden", "x.png"), 4, 4, false)
	writePNG(t, filepath.Join(in, "out", "old.png"), 4, 4, false)
	if err := os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, err := ScanImages(in, filepath.Join(in, "out"))
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for _, s := range sources {
		keys = append(keys, s.Key)
	}
	if got := strings.Join(keys, ","); got != "b,sub/a" {
		t.Fatalf("keys = %s", got)
	}
	if sources[1].Format != "png" || sources[1].RelPath != "sub/a.PNG" || sources[1].Size == 0 {
		t.Errorf("source: %+v", sources[1])
	}
}

func TestRunEndToEnd(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePNG(t, filepath.Join(in, "photo.png"), 48, 32, false)
	writePNG(t, filepath.Join(in, "icons", "logo.png"), 20, 20, true)
	if err := os.WriteFile(filepath.Join(in, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	pre := preset.Get("preview")
	pre.MaxDim = 24
	pre.Formats = []string{"png"}
	pre.Bitstream = true
	p := New(Config{InputDir: in, OutputDir: out, Preset: pre, Workers: 2, Logger: zerolog.Nop()})

	r, err := p.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(r.Images) != 2 || r.Stats.Failed != 1 {
		t.Fatalf("images=%d failed=%d", len(r.Images), r.Stats.Failed)
	}

	photo := r.Images["photo"]
	if photo.Original.Width != 48 || photo.Working.Width != 24 || photo.Working.Height != 16 {
		t.Errorf("dims: %+v %+v", photo.Original, photo.Working)
	}
	if photo.Compression == nil || photo.Compression.Method != "dwt" || photo.Compression.EncodedSizeBytes == 0 {
		t.Errorf("compression: %+v", photo.Compression)
	}
	if photo.Segmentation == nil || photo.Segmentation.Count != pre.Segments {
		t.Errorf("segmentation: %+v", photo.Segmentation)
	}
	kinds := map[string]int{}
	for _, o := range photo.Outputs {
		kinds[o.Kind]++
	}
	for _, k := range []string{KindCompressed, KindVisualization, KindSegmented, KindMarkers, KindBitstream} {
		if kinds[k] != 1 {
			t.Errorf("kind %s: %d outputs", k, kinds[k])
		}
	}

	logo := r.Images["icons/logo"]
	if !logo.Original.HasAlpha {
		t.Error("alpha not detected")
	}
	for _, o := range logo.Outputs {
		if !strings.HasPrefix(o.Path, "icons/logo.") {
			t.Errorf("output path %s", o.Path)
		}
	}

	if errs := report.Validate(r, out); len(errs) != 0 {
		t.Errorf("report invalid: %v", errs)
	}
	if err := report.WriteJSON(r, filepath.Join(out, report.FileName)); err != nil {
		t.Fatal(err)
	}
}

func TestRunAllFail(t *testing.T) {
	in := t.TempDir()
	if err := os.WriteFile(filepath.Join(in, "bad.jpg"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := New(Config{InputDir: in, OutputDir: t.TempDir(), Preset: preset.Get("preview"), Logger: zerolog.Nop()})
	if _, err := p.Run(); err == nil {
		t.Error("expected failure when every image fails")
	}
}

func TestRunEmptyDir(t *testing.T) {
	p := New(Config{InputDir: t.TempDir(), OutputDir: t.TempDir(), Preset: preset.Get("balanced"), Logger: zerolog.Nop()})
	if _, err := p.Run(); err == nil || !strings.Contains(err.Error(), "no images") {
		t.Errorf("err = %v", err)
	}
}
