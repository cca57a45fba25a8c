// Package bytestream implements the byte-level codec (C1) and its I/O
// adapter (C4): the primitive read/write operations every higher layer of
// the codec is built from, over either a fixed caller-owned buffer or an
// arbitrary io.Reader/io.Writer.
//
// # Two substrates, one surface
//
// BufferReader/BufferWriter and StreamReader/StreamWriter all implement
// Reader/Writer. Callers above this package (head, and the type-directed
// encoder/decoder) never branch on which substrate is attached except
// where the substrate's zero-copy behavior differs, which this package
// documents per method.
//
// # Thread safety
//
// None of the types in this package are safe for concurrent use. Each
// holds its own position/refill state and must be owned by a single
// goroutine for its lifetime, matching the single-threaded, cooperative
// execution model described for the rest of the codec.
package bytestream

import (
	"encoding/binary"

	"github.com/thebagchi/cbor/errs"
)

// traceEnabled is a compile-time debug hook, in the spirit of the
// teacher's bitbuffer.Codec.Trace: flip it locally to print refill/flush
// events to stderr while debugging a stream substrate. It is not wired to
// any logging library because nothing in the hot path needs one.
const traceEnabled = false

// Reader is the read half of the byte-level codec (C1), implemented by
// either substrate.
type Reader interface {
	// ReadByte returns the next byte and advances the position by one.
	// Fails with BufferUnderflow if no byte remains.
	ReadByte() (byte, error)
	// PeekByte returns the next byte without advancing the position.
	// Fails with BufferUnderflow if no byte remains.
	PeekByte() (byte, error)
	// ReadSpan returns exactly n bytes and advances the position by n.
	// In buffer mode the returned slice aliases the input and must not
	// be retained past the input's lifetime. In stream mode the returned
	// slice aliases the refill buffer and is invalidated by the next
	// read; it fails with InvalidLength if n exceeds the refill buffer's
	// capacity.
	ReadSpan(n int) ([]byte, error)
	// ReadUintBE reads an n-byte (n in {1,2,4,8}) big-endian unsigned
	// integer and advances the position by n.
	ReadUintBE(n int) (uint64, error)
}

// Writer is the write half of the byte-level codec (C1), implemented by
// either substrate.
type Writer interface {
	// WriteByte appends one byte. Fails with BufferOverflow in buffer
	// mode once the destination is exhausted.
	WriteByte(b byte) error
	// WriteSpan appends p in full.
	WriteSpan(p []byte) error
	// WriteUintBE appends v as an n-byte (n in {1,2,4,8}) big-endian
	// unsigned integer.
	WriteUintBE(v uint64, n int) error
	// Flush commits any buffered-but-unwritten bytes to the underlying
	// destination. A no-op for the buffer substrate.
	Flush() error
}

func putUintBE(dst []byte, v uint64, n int) {
	switch n {
	case 1:
		dst[0] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(dst, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(dst, uint32(v))
	case 8:
		binary.BigEndian.PutUint64(dst, v)
	}
}

func getUintBE(src []byte, n int) uint64 {
	switch n {
	case 1:
		return uint64(src[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(src))
	case 4:
		return uint64(binary.BigEndian.Uint32(src))
	case 8:
		return binary.BigEndian.Uint64(src)
	}
	return 0
}

func validWidth(n int) bool {
	return n == 1 || n == 2 || n == 4 || n == 8
}

func errInvalidWidth(n int) error {
	return errs.New(errs.InvalidLength, "unsupported integer width %d", n)
}
