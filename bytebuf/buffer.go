package bytebuf

import (
	"errors"
	"fmt"
	"io"
)

// ErrInvalidPosition is returned by SetPosition for positions outside [0, Len()].
var ErrInvalidPosition = errors.New("bytebuf: invalid position")

// Buffer is a byte container with a single read/write cursor.
// The zero value is an empty buffer ready to use.
type Buffer struct {
	buf []byte
	pos int
}

// New returns a Buffer holding data with the position at 0.
// The buffer takes ownership of data.
func New(data []byte) *Buffer {
	return &Buffer{buf: data}
}

// WriteByte writes c at the current position and advances it.
// It never fails; the error return satisfies io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	if b.pos < len(b.buf) {
		b.buf[b.pos] = c
	} else {
		b.buf = append(b.buf, c)
	}
	b.pos++
	return nil
}

// Write writes p at the current position, overwriting existing bytes and
// growing the buffer as needed. It always returns len(p), nil.
func (b *Buffer) Write(p []byte) (int, error) {
	n := copy(b.buf[b.pos:], p)
	b.buf = append(b.buf, p[n:]...)
	b.pos += len(p)
	return len(p), nil
}

// WriteString is Write for strings.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

// WriteBytes is Write without the io.Writer return values.
func (b *Buffer) WriteBytes(p []byte) {
	_, _ = b.Write(p)
}

// ReadByte reads one byte at the current position.
// It returns io.EOF once the position reaches the end.
func (b *Buffer) ReadByte() (byte, error) {
	if b.pos >= len(b.buf) {
		return 0, io.EOF
	}
	c := b.buf[b.pos]
	b.pos++
	return c, nil
}

// ReadBytes rewinds to the start and returns a copy of at most n bytes,
// leaving the position after the last byte returned. Asking for more than is
// available returns what there is.
func (b *Buffer) ReadBytes(n int) []byte {
	b.pos = 0
	if n < 0 {
		n = 0
	}
	end := min(n, len(b.buf))
	out := make([]byte, end)
	copy(out, b.buf[:end])
	b.pos = end
	return out
}

// Position returns the current cursor position.
func (b *Buffer) Position() int {
	return b.pos
}

// SetPosition moves the cursor. Valid positions are 0 through Len().
func (b *Buffer) SetPosition(pos int) error {
	if pos < 0 || pos > len(b.buf) {
		return fmt.Errorf("%w: %d (length %d)", ErrInvalidPosition, pos, len(b.buf))
	}
	b.pos = pos
	return nil
}

// Len returns the total number of bytes written, independent of the position.
func (b *Buffer) Len() int {
	return len(b.buf)
}
