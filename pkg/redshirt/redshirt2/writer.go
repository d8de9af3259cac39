package redshirt2

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"

	"github.com/saylorsolutions/redshirt/internal/cursor"
)

var _ io.WriteCloser = (*Writer)(nil)

// Writer writes Redshirt 2-protected data to a stream. The header is written
// with a placeholder digest, and Close patches in the real digest once all
// payload bytes have been written. A Writer that is discarded without Close
// or Unwrap leaves the placeholder in place, and the stream will fail
// verification when read back.
type Writer struct {
	dst    io.WriteSeeker
	cur    *cursor.Cursor
	sum    *checksum
	closed bool
}

// NewWriter writes the marker and a placeholder digest to dst and returns a
// Writer positioned at logical offset 0.
func NewWriter(dst io.WriteSeeker) (*Writer, error) {
	h := header{marker: marker}
	if err := h.mapper().Write(dst, binary.BigEndian); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return &Writer{dst: dst, cur: cursor.NewWriter(dst), sum: newChecksum()}, nil
}

// Write screens p and writes it to the stream, one 16 KiB chunk at a time,
// feeding each chunk to the running digest exactly as it was accepted by the
// stream.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("write after finalization: %w", fs.ErrClosed)
	}
	var written int
	for written < len(p) {
		chunk, err := w.cur.WriteChunk(p[written:])
		w.sum.update(chunk)
		written += len(chunk)
		if err != nil {
			return written, err
		}
		if len(chunk) == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// Close finalizes the stream: it seeks back to the header, overwrites the
// placeholder with the digest of everything written, and restores the write
// position. Close is idempotent; only the first call does any work.
//
// The digest cannot be patched during automatic cleanup, so every stream must
// be finalized through Close or Unwrap to be readable.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	off := w.cur.Offset()
	if _, err := w.dst.Seek(markerLen, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to digest field: %w", err)
	}
	digest := w.sum.sum()
	if _, err := w.dst.Write(digest[:]); err != nil {
		return fmt.Errorf("patching digest: %w", err)
	}
	if _, err := w.dst.Seek(headerLen+int64(off), io.SeekStart); err != nil {
		return fmt.Errorf("restoring write position: %w", err)
	}
	w.closed = true
	return nil
}

// Unwrap finalizes the stream if needed and returns it. The Writer must not
// be used afterwards.
func (w *Writer) Unwrap() (io.WriteSeeker, error) {
	if err := w.Close(); err != nil {
		return nil, err
	}
	dst := w.dst
	w.dst, w.cur, w.sum = nil, nil, nil
	return dst, nil
}
