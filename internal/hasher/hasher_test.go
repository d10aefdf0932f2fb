package hasher

import (
	"bytes"
	"testing"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

func TestContentHash(t *testing.T) {
	// xxhash64 of the empty input.
	if got := ContentHash(nil, 0); got != "ef46db3751d8e999" {
		t.Errorf("empty: got %s", got)
	}
	if got := ContentHash([]byte("pixlab"), 8); len(got) != 8 {
		t.Errorf("truncation: %q", got)
	}
	data := []byte("some image bytes")
	r, err := ContentHashReader(bytes.NewReader(data), OutputHexLen)
	if err != nil {
		t.Fatal(err)
	}
	if r != ContentHash(data, OutputHexLen) {
		t.Error("reader and slice hashes differ")
	}
}

func TestFingerprint(t *testing.T) {
	a, _ := pixbuf.New(4, 2, 3)
	b, _ := pixbuf.New(2, 4, 3) // same samples, different shape
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("shape not part of fingerprint")
	}
	c := a.Clone()
	if Fingerprint(a) != Fingerprint(c) {
		t.Error("equal buffers differ")
	}
	c.Pix[5] = 1
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("sample change not detected")
	}
	if len(Fingerprint(a)) != 16 {
		t.Errorf("length %d", len(Fingerprint(a)))
	}
}
