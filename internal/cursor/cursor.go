// Package cursor implements the screened stream cursor shared by both
// Redshirt codecs. A Cursor sits between a codec and its byte stream,
// screening every payload byte that passes through and tracking a logical
// offset that starts at 0 on the first payload byte, no matter how many
// header bytes were consumed before the Cursor took over.
package cursor

import (
	"io"
	"math"

	"github.com/saylorsolutions/redshirt/pkg/redshirt"
)

// ChunkSize is the most bytes a single screened write will hand to the
// underlying stream.
const ChunkSize = 16384

// Cursor wraps a byte stream for screened reads or writes. The zero value is
// not usable; construct with NewReader or NewWriter.
type Cursor struct {
	src     io.Reader
	dst     io.Writer
	seeker  io.Seeker
	base    int64
	hasBase bool
	offset  uint64
	chunk   [ChunkSize]byte
}

// NewReader wraps a stream for screened reads. Seeking is available when src
// also implements io.Seeker.
func NewReader(src io.Reader) *Cursor {
	c := &Cursor{src: src}
	c.seeker, _ = src.(io.Seeker)
	return c
}

// NewWriter wraps a stream for screened writes. Seeking is available when dst
// also implements io.Seeker.
func NewWriter(dst io.Writer) *Cursor {
	c := &Cursor{dst: dst}
	c.seeker, _ = dst.(io.Seeker)
	return c
}

// Offset returns the current logical offset.
func (c *Cursor) Offset() uint64 {
	return c.offset
}

func (c *Cursor) Read(p []byte) (int, error) {
	n, err := c.src.Read(p)
	Screen(p[:n])
	c.offset += uint64(n)
	return n, err
}

// WriteChunk screens up to ChunkSize bytes of p and writes them to the
// stream, returning the screened bytes the stream actually accepted. The
// returned slice aliases the Cursor's scratch buffer and is only valid until
// the next write.
func (c *Cursor) WriteChunk(p []byte) ([]byte, error) {
	sz := len(p)
	if sz > ChunkSize {
		sz = ChunkSize
	}
	buf := c.chunk[:sz]
	copy(buf, p)
	Screen(buf)
	n, err := c.dst.Write(buf)
	c.offset += uint64(n)
	return buf[:n], err
}

func (c *Cursor) Write(p []byte) (int, error) {
	var written int
	for written < len(p) {
		chunk, err := c.WriteChunk(p[written:])
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

// Seek moves the cursor to a logical offset and returns it. The first call
// captures the absolute stream position that corresponds to logical offset 0,
// so purely sequential codecs never query the stream position at all.
func (c *Cursor) Seek(offset int64, whence int) (int64, error) {
	if c.seeker == nil {
		return 0, redshirt.ErrNotSeekable
	}
	if !c.hasBase {
		pos, err := c.seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		c.base = pos - int64(c.offset)
		c.hasBase = true
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		if offset < 0 || offset > math.MaxInt64-c.base {
			return 0, redshirt.ErrInvalidSeek
		}
		pos, err := c.seeker.Seek(c.base+offset, io.SeekStart)
		if err != nil {
			return 0, err
		}
		abs = pos
	case io.SeekCurrent:
		// Checked rather than wrapping arithmetic: the target offset is
		// validated before the stream moves.
		if offset < 0 {
			if uint64(-offset) > c.offset {
				return 0, redshirt.ErrInvalidSeek
			}
		} else if uint64(offset) > math.MaxUint64-c.offset {
			return 0, redshirt.ErrInvalidSeek
		}
		pos, err := c.seeker.Seek(offset, io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		abs = pos
	case io.SeekEnd:
		pos, err := c.seeker.Seek(offset, io.SeekEnd)
		if err != nil {
			return 0, err
		}
		if pos < c.base {
			// Landed before the payload; put the stream back where it was.
			if _, err := c.seeker.Seek(c.base+int64(c.offset), io.SeekStart); err != nil {
				return 0, err
			}
			return 0, redshirt.ErrInvalidSeek
		}
		abs = pos
	default:
		return 0, redshirt.ErrInvalidSeek
	}
	c.offset = uint64(abs - c.base)
	return int64(c.offset), nil
}
