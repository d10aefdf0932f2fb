// Package hasher computes the xxHash64 digests used for content-addressed
// output names and buffer fingerprints.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
	"github.com/cespare/xxhash/v2"
)

// OutputHexLen is the digest length used in report entries; file names use
// the first 8 characters of it.
const OutputHexLen = 16

func format(sum uint64, hexLen int) string {
	full := hex.EncodeToString(binary.BigEndian.AppendUint64(nil, sum))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to hexLen (0 = full 16 chars).
func ContentHash(data []byte, hexLen int) string {
	return format(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return format(h.Sum64(), hexLen), nil
}

// Fingerprint identifies a buffer by its shape and samples. Two buffers
// share a fingerprint only if they are (with overwhelming likelihood) equal.
func Fingerprint(b *pixbuf.Buffer) string {
	h := xxhash.New()
	var hdr [12]byte
	binary.BigEndian.PutUint32(hdr[0:], uint32(b.Width))
	binary.BigEndian.PutUint32(hdr[4:], uint32(b.Height))
	binary.BigEndian.PutUint32(hdr[8:], uint32(b.Channels))
	_, _ = h.Write(hdr[:])
	_, _ = h.Write(b.Pix)
	return format(h.Sum64(), 0)
}
