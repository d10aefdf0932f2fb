package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

func TestParsePoint(t *testing.T) {
	x, y, err := parsePoint(" 3, 7")
	if err != nil || x != 3 || y != 7 {
		t.Errorf("got %d,%d %v", x, y, err)
	}
	for _, bad := range []string{"3", "a,1", "1,b"} {
		if _, _, err := parsePoint(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestWithSuffix(t *testing.T) {
	tests := []struct{ in, want string }{
		{"out.png", "out.red.png"},
		{"dir.v2/hist", "dir.v2/hist.red.png"},
		{"a/b.jpg", "a/b.red.jpg"},
	}
	for _, tt := range tests {
		if got := withSuffix(tt.in, "red"); got != tt.want {
			t.Errorf("withSuffix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatBytes(512); got != "512 B" {
		t.Errorf("got %s", got)
	}
	if got := formatBytes(3 << 20); got != "3.0 MB" {
		t.Errorf("got %s", got)
	}
}

func TestCompressDecompressCommands(t *testing.T) {
	dir := t.TempDir()
	buf, err := pixbuf.New(24, 16, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range buf.Pix {
		buf.Pix[i] = uint8(60 + (i*7)%120)
	}
	src := filepath.Join(dir, "src.png")
	if err := saveBuffer(src, buf, 0); err != nil {
		t.Fatal(err)
	}

	stream := filepath.Join(dir, "x.pxc")
	recon := filepath.Join(dir, "recon.png")
	rootCmd.SetArgs([]string{"compress", src, "-m", "dwt", "-l", "40", "-o", recon, "--bitstream", stream})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("compress: %v", err)
	}

	back := filepath.Join(dir, "back.png")
	rootCmd.SetArgs([]string{"decompress", stream, "-o", back})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("decompress: %v", err)
	}

	a, err := loadImage(recon, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := loadImage(back, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !pixbuf.Equal(a, b) {
		t.Error("decompressed stream differs from compress output")
	}
	if _, err := os.Stat(stream); err != nil {
		t.Error(err)
	}
}

func TestExecute_ReportsErrorOnce(t *testing.T) {
	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	defer rootCmd.SetErr(nil)

	dir := t.TempDir()
	rootCmd.SetArgs([]string{"decompress", filepath.Join(dir, "missing.pxc"), "-o", filepath.Join(dir, "x.png")})
	if err := Execute(); err == nil {
		t.Fatal("expected error")
	}
	if n := strings.Count(stderr.String(), "read stream"); n != 1 {
		t.Errorf("error printed %d times:\n%s", n, stderr.String())
	}
}
