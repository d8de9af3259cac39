package cursor

const screenMask byte = 0x80

// Screen applies the payload screen to every byte of buf in place.
// The screen is its own inverse, so the same call encodes and decodes.
func Screen(buf []byte) {
	for i := range buf {
		buf[i] ^= screenMask
	}
}
