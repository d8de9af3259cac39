package redshirt

import "errors"

var (
	// ErrBadHeader indicates that the marker at the start of the stream does not match the expected format marker.
	ErrBadHeader = errors.New("bad header")
	// ErrBadChecksum indicates that the digest stored in a Redshirt 2 header does not match the digest of the stored payload.
	ErrBadChecksum = errors.New("bad checksum")
	// ErrInvalidSeek indicates a seek to a negative or overflowing position, or to a position before the start of the payload.
	ErrInvalidSeek = errors.New("invalid seek to a negative or overflowing position")
	// ErrNotSeekable indicates that the wrapped stream does not support seeking.
	ErrNotSeekable = errors.New("stream does not support seeking")
)
