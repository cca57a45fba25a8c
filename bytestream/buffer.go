package bytestream

import "github.com/thebagchi/cbor/errs"

// BufferReader reads from a contiguous byte slice, aliasing it for every
// zero-copy span it returns. It allocates nothing.
type BufferReader struct {
	buf []byte
	pos int
}

// NewBufferReader wraps data for reading. data is aliased for the
// lifetime of the reader and any span it returns; callers must not
// mutate it while decoding is in progress.
func NewBufferReader(data []byte) *BufferReader {
	return &BufferReader{buf: data}
}

// Pos returns the current read position, the number of bytes consumed so
// far.
func (b *BufferReader) Pos() int { return b.pos }

// Remaining returns the number of unread bytes.
func (b *BufferReader) Remaining() int { return len(b.buf) - b.pos }

// Seek repositions the reader to an absolute offset previously obtained
// from Pos. Used by the structural walker to restore position after a
// field extraction.
func (b *BufferReader) Seek(pos int) {
	b.pos = pos
}

func (b *BufferReader) ReadByte() (byte, error) {
	if b.pos >= len(b.buf) {
		return 0, errs.New(errs.BufferUnderflow, "read byte past end of buffer")
	}
	v := b.buf[b.pos]
	b.pos++
	return v, nil
}

func (b *BufferReader) PeekByte() (byte, error) {
	if b.pos >= len(b.buf) {
		return 0, errs.New(errs.BufferUnderflow, "peek byte past end of buffer")
	}
	return b.buf[b.pos], nil
}

func (b *BufferReader) ReadSpan(n int) ([]byte, error) {
	if n < 0 || b.pos+n > len(b.buf) {
		return nil, errs.New(errs.BufferUnderflow, "read span of %d bytes past end of buffer", n)
	}
	span := b.buf[b.pos : b.pos+n]
	b.pos += n
	return span, nil
}

func (b *BufferReader) ReadUintBE(n int) (uint64, error) {
	if !validWidth(n) {
		return 0, errInvalidWidth(n)
	}
	span, err := b.ReadSpan(n)
	if err != nil {
		return 0, err
	}
	return getUintBE(span, n), nil
}

// BufferWriter writes into a fixed-capacity, caller-owned byte slice. It
// never reallocates: once dst is exhausted, every subsequent write fails
// with BufferOverflow. This is the zero-allocation encode path spec.md §5
// requires of the buffer substrate.
type BufferWriter struct {
	buf []byte
	pos int
}

// NewBufferWriter wraps dst for writing. dst is exclusively borrowed for
// the duration of encoding; its capacity bounds the largest item this
// writer can produce.
func NewBufferWriter(dst []byte) *BufferWriter {
	return &BufferWriter{buf: dst}
}

// Written returns the slice of dst written so far.
func (b *BufferWriter) Written() []byte { return b.buf[:b.pos] }

// Pos returns the current write position.
func (b *BufferWriter) Pos() int { return b.pos }

func (b *BufferWriter) WriteByte(v byte) error {
	if b.pos >= len(b.buf) {
		return errs.New(errs.BufferOverflow, "write byte past end of buffer")
	}
	b.buf[b.pos] = v
	b.pos++
	return nil
}

func (b *BufferWriter) WriteSpan(p []byte) error {
	if b.pos+len(p) > len(b.buf) {
		return errs.New(errs.BufferOverflow, "write span of %d bytes past end of buffer", len(p))
	}
	copy(b.buf[b.pos:], p)
	b.pos += len(p)
	return nil
}

func (b *BufferWriter) WriteUintBE(v uint64, n int) error {
	if !validWidth(n) {
		return errInvalidWidth(n)
	}
	if b.pos+n > len(b.buf) {
		return errs.New(errs.BufferOverflow, "write %d-byte integer past end of buffer", n)
	}
	putUintBE(b.buf[b.pos:b.pos+n], v, n)
	b.pos += n
	return nil
}

// Flush is a no-op for the buffer substrate: every write already lands
// directly in the caller's buffer.
func (b *BufferWriter) Flush() error { return nil }

var (
	_ Reader = (*BufferReader)(nil)
	_ Writer = (*BufferWriter)(nil)
)
