// Package redshirt2 reads and writes Redshirt 2-protected data.
//
// The format is a 9-byte marker, a 20-byte digest of the screened payload,
// and the screened payload itself. A Reader verifies the digest over the
// whole stream before exposing any payload byte. A Writer patches the digest
// into the header when it is finalized with Close or Unwrap, and does not
// support seeking since the digest has to cover the stream exactly as
// written.
package redshirt2

import (
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"syscall"

	bin "github.com/saylorsolutions/binmap"
	"github.com/saylorsolutions/redshirt/internal/cursor"
	"github.com/saylorsolutions/redshirt/pkg/redshirt"
)

const (
	markerLen = 9
	headerLen = markerLen + sha1.Size
)

var marker = [markerLen]byte{'R', 'E', 'D', 'S', 'H', 'R', 'T', '2', 0}

type header struct {
	marker [markerLen]byte
	digest [sha1.Size]byte
}

func (h *header) mapper() bin.Mapper {
	maps := make([]bin.Mapper, 0, headerLen)
	for i := range h.marker {
		maps = append(maps, bin.Byte(&h.marker[i]))
	}
	for i := range h.digest {
		maps = append(maps, bin.Byte(&h.digest[i]))
	}
	return bin.MapSequence(maps...)
}

var _ io.ReadSeeker = (*Reader)(nil)

// Reader reads Redshirt 2-protected data from a stream.
type Reader struct {
	src io.ReadSeeker
	cur *cursor.Cursor
}

// NewReader validates the header at the current position of src and verifies
// the stored digest against the entire remainder of the stream. Only when the
// digest matches is a Reader returned, positioned at logical offset 0. A
// marker mismatch fails with redshirt.ErrBadHeader, a digest mismatch with
// redshirt.ErrBadChecksum.
//
// The verification pass reads the whole payload once, so construction cost is
// proportional to stream length.
func NewReader(src io.ReadSeeker) (*Reader, error) {
	var h header
	if err := h.mapper().Read(src, binary.BigEndian); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if h.marker != marker {
		return nil, redshirt.ErrBadHeader
	}
	// The digest covers the payload bytes as stored, so this pass reads the
	// raw stream without screening anything.
	sum := newChecksum()
	buf := make([]byte, cursor.ChunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			sum.update(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	if sum.sum() != h.digest {
		return nil, redshirt.ErrBadChecksum
	}
	if _, err := src.Seek(headerLen, io.SeekStart); err != nil {
		return nil, err
	}
	return &Reader{src: src, cur: cursor.NewReader(src)}, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	return r.cur.Read(p)
}

// Seek moves to a logical payload offset.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	return r.cur.Seek(offset, whence)
}

// Unwrap releases and returns the wrapped stream. The Reader must not be used
// afterwards.
func (r *Reader) Unwrap() io.ReadSeeker {
	src := r.src
	r.src, r.cur = nil, nil
	return src
}
