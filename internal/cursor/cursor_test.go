package cursor

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/saylorsolutions/redshirt/pkg/redshirt"
	"github.com/stretchr/testify/assert"
)

type memStream struct {
	buf []byte
	pos int64
}

func (m *memStream) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memStream) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:], p)
	m.pos += int64(n)
	return n, nil
}

func (m *memStream) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = m.pos + offset
	case io.SeekEnd:
		pos = int64(len(m.buf)) + offset
	}
	if pos < 0 {
		return 0, errors.New("seek to negative position")
	}
	m.pos = pos
	return pos, nil
}

func screened(data string) []byte {
	buf := []byte(data)
	Screen(buf)
	return buf
}

func TestScreenInvolutive(t *testing.T) {
	buf := []byte("Hello world!")
	Screen(buf)
	assert.Equal(t, []byte("\xC8\xE5\xEC\xEC\xEF\xA0\xF7\xEF\xF2\xEC\xE4\xA1"), buf)
	Screen(buf)
	assert.Equal(t, []byte("Hello world!"), buf)
}

func TestCursorRead(t *testing.T) {
	c := NewReader(bytes.NewReader(screened("some payload")))
	out := make([]byte, 12)
	_, err := io.ReadFull(c, out)
	assert.NoError(t, err)
	assert.Equal(t, "some payload", string(out))
	assert.Equal(t, uint64(12), c.Offset())
}

func TestCursorWrite(t *testing.T) {
	var dst memStream
	c := NewWriter(&dst)
	n, err := c.Write([]byte("some payload"))
	assert.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, screened("some payload"), dst.buf)
	assert.Equal(t, uint64(12), c.Offset())
}

func TestCursorWriteMultiChunk(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, ChunkSize*2+17)
	var dst memStream
	c := NewWriter(&dst)
	n, err := c.Write(data)
	assert.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, uint64(len(data)), c.Offset())
	expect := bytes.Repeat([]byte{0x42 ^ 0x80}, len(data))
	assert.Equal(t, expect, dst.buf)
}

func TestCursorWriteChunkCaps(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, ChunkSize+1)
	var dst memStream
	c := NewWriter(&dst)
	chunk, err := c.WriteChunk(data)
	assert.NoError(t, err)
	assert.Len(t, chunk, ChunkSize)
	assert.Equal(t, uint64(ChunkSize), c.Offset())
}

func TestCursorSeekLazyBase(t *testing.T) {
	// Three header bytes consumed on the raw stream before the cursor takes
	// over; logical offset 0 must land on the first payload byte.
	src := bytes.NewReader(append([]byte("hdr"), screened("payload")...))
	header := make([]byte, 3)
	_, err := io.ReadFull(src, header)
	assert.NoError(t, err)

	c := NewReader(src)
	out := make([]byte, 3)
	_, err = io.ReadFull(c, out)
	assert.NoError(t, err)
	assert.Equal(t, "pay", string(out))

	off, err := c.Seek(0, io.SeekStart)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), off)
	_, err = io.ReadFull(c, out)
	assert.NoError(t, err)
	assert.Equal(t, "pay", string(out))
}

func TestCursorSeekCurrentNegative(t *testing.T) {
	c := NewReader(bytes.NewReader(screened("payload")))
	_, err := c.Seek(-1, io.SeekCurrent)
	assert.ErrorIs(t, err, redshirt.ErrInvalidSeek)
}

func TestCursorSeekStartOverflow(t *testing.T) {
	src := bytes.NewReader(append([]byte("hdr"), screened("payload")...))
	header := make([]byte, 3)
	_, err := io.ReadFull(src, header)
	assert.NoError(t, err)

	c := NewReader(src)
	_, err = c.Seek(math.MaxInt64, io.SeekStart)
	assert.ErrorIs(t, err, redshirt.ErrInvalidSeek)
	_, err = c.Seek(-1, io.SeekStart)
	assert.ErrorIs(t, err, redshirt.ErrInvalidSeek)
}

func TestCursorSeekEndBeforeBase(t *testing.T) {
	src := bytes.NewReader(append([]byte("hdr"), screened("payload")...))
	header := make([]byte, 3)
	_, err := io.ReadFull(src, header)
	assert.NoError(t, err)

	c := NewReader(src)
	out := make([]byte, 3)
	_, err = io.ReadFull(c, out)
	assert.NoError(t, err)

	// Would land inside the header; the stream position must be restored.
	_, err = c.Seek(-8, io.SeekEnd)
	assert.ErrorIs(t, err, redshirt.ErrInvalidSeek)
	assert.Equal(t, uint64(3), c.Offset())
	_, err = io.ReadFull(c, out)
	assert.NoError(t, err)
	assert.Equal(t, "loa", string(out))
}

func TestCursorNotSeekable(t *testing.T) {
	c := NewReader(bytes.NewBufferString(string(screened("payload"))))
	_, err := c.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, redshirt.ErrNotSeekable)
}
