package redshirt2

import (
	"crypto/sha1"
	"hash"
)

// checksum accumulates a SHA-1 digest over screened payload bytes exactly as
// they exist on the stream. The finished digest has every aligned 4-byte word
// byte-reversed, reproducing the representation the original application
// stored in its headers. That word swap is a legacy quirk and must never be
// "corrected" for conventional endianness.
type checksum struct {
	h hash.Hash
}

func newChecksum() *checksum {
	return &checksum{h: sha1.New()}
}

func (c *checksum) update(p []byte) {
	// hash.Hash never returns an error from Write.
	_, _ = c.h.Write(p)
}

func (c *checksum) sum() [sha1.Size]byte {
	var out [sha1.Size]byte
	c.h.Sum(out[:0])
	for i := 0; i < len(out); i += 4 {
		out[i], out[i+3] = out[i+3], out[i]
		out[i+1], out[i+2] = out[i+2], out[i+1]
	}
	return out
}
