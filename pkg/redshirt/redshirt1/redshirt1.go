// Package redshirt1 reads and writes Redshirt 1-protected data.
//
// The format is a 9-byte marker followed by the screened payload. There is no
// integrity digest, so both the Reader and the Writer support seeking within
// the payload.
package redshirt1

import (
	"encoding/binary"
	"fmt"
	"io"

	bin "github.com/saylorsolutions/binmap"
	"github.com/saylorsolutions/redshirt/internal/cursor"
	"github.com/saylorsolutions/redshirt/pkg/redshirt"
)

const markerLen = 9

var marker = [markerLen]byte{'R', 'E', 'D', 'S', 'H', 'I', 'R', 'T', 0}

type header struct {
	marker [markerLen]byte
}

func (h *header) mapper() bin.Mapper {
	maps := make([]bin.Mapper, markerLen)
	for i := range h.marker {
		maps[i] = bin.Byte(&h.marker[i])
	}
	return bin.MapSequence(maps...)
}

var (
	_ io.ReadSeeker  = (*Reader)(nil)
	_ io.WriteSeeker = (*Writer)(nil)
)

// Reader reads Redshirt 1-protected data from a stream.
type Reader struct {
	src io.Reader
	cur *cursor.Cursor
}

// NewReader validates the marker at the current position of src and returns a
// Reader positioned at logical offset 0, the first payload byte. A marker
// mismatch fails with redshirt.ErrBadHeader and leaves src positioned after
// the marker bytes.
func NewReader(src io.Reader) (*Reader, error) {
	var h header
	if err := h.mapper().Read(src, binary.BigEndian); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if h.marker != marker {
		return nil, redshirt.ErrBadHeader
	}
	return &Reader{src: src, cur: cursor.NewReader(src)}, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	return r.cur.Read(p)
}

// Seek moves to a logical payload offset. It fails with
// redshirt.ErrNotSeekable when the wrapped stream cannot seek.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	return r.cur.Seek(offset, whence)
}

// Unwrap releases and returns the wrapped stream. The Reader must not be used
// afterwards.
func (r *Reader) Unwrap() io.Reader {
	src := r.src
	r.src, r.cur = nil, nil
	return src
}

// Writer writes Redshirt 1-protected data to a stream.
type Writer struct {
	dst io.Writer
	cur *cursor.Cursor
}

// NewWriter writes the marker to dst and returns a Writer positioned at
// logical offset 0.
func NewWriter(dst io.Writer) (*Writer, error) {
	h := header{marker: marker}
	if err := h.mapper().Write(dst, binary.BigEndian); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return &Writer{dst: dst, cur: cursor.NewWriter(dst)}, nil
}

// Write screens p and writes it to the stream, one 16 KiB chunk at a time.
func (w *Writer) Write(p []byte) (int, error) {
	return w.cur.Write(p)
}

// Seek moves to a logical payload offset. With no digest to invalidate,
// rewriting payload bytes in place is safe.
func (w *Writer) Seek(offset int64, whence int) (int64, error) {
	return w.cur.Seek(offset, whence)
}

// Unwrap releases and returns the wrapped stream. The Writer must not be used
// afterwards.
func (w *Writer) Unwrap() io.Writer {
	dst := w.dst
	w.dst, w.cur = nil, nil
	return dst
}
