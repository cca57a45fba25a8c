package cbor

import (
	"math"
	"unicode/utf8"

	"github.com/thebagchi/cbor/bytestream"
	"github.com/thebagchi/cbor/errs"
	"github.com/thebagchi/cbor/head"
)

// Decoder parses typed values from a bytestream.Reader, dispatching on
// the major type of each head it reads per spec.md §4.3 (C3), with a
// single read position shared by every method (see spec.md §5).
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	r     bytestream.Reader
	cfg   *Config
	depth depthTracker
}

// NewDecoder creates a Decoder reading from r, bounded by cfg. If cfg is
// nil, NewConfig()'s defaults are used.
func NewDecoder(r bytestream.Reader, cfg *Config) *Decoder {
	if cfg == nil {
		cfg, _ = NewConfig()
	}
	return &Decoder{r: r, cfg: cfg, depth: newDepthTracker(cfg.MaxDepth)}
}

// --- Floats ---

// DecodeFloat16 decodes a CBOR half-precision float (major type 7,
// additional info 25) and returns its raw IEEE 754-2008 binary16 bit
// pattern; Go has no native float16 type to widen it into.
func (d *Decoder) DecodeFloat16() (uint16, error) {
	h, err := head.DecodeHead(d.r)
	if err != nil {
		return 0, err
	}
	if h.Major != head.MajorFloat || h.AI != head.AIFloat16 {
		return 0, errs.New(errs.InvalidFloat, "expected half-precision float, got major %d additional info %d", h.Major, h.AI)
	}
	return uint16(h.Arg), nil
}

// DecodeFloat32 decodes a CBOR single-precision float (major type 7,
// additional info 26). Additional info is checked explicitly rather than
// inferred from the argument's byte width, since AIUint32 and AIFloat32
// share the additional-info value 26 and only the major type tells them
// apart — this
// package never implicitly widens a narrower numeric encoding into a
// float.
func (d *Decoder) DecodeFloat32() (float32, error) {
	h, err := head.DecodeHead(d.r)
	if err != nil {
		return 0, err
	}
	if h.Major != head.MajorFloat || h.AI != head.AIFloat32 {
		return 0, errs.New(errs.InvalidFloat, "expected single-precision float, got major %d additional info %d", h.Major, h.AI)
	}
	return math.Float32frombits(uint32(h.Arg)), nil
}

// DecodeFloat64 decodes a CBOR double-precision float (major type 7,
// additional info 27).
func (d *Decoder) DecodeFloat64() (float64, error) {
	h, err := head.DecodeHead(d.r)
	if err != nil {
		return 0, err
	}
	if h.Major != head.MajorFloat || h.AI != head.AIFloat64 {
		return 0, errs.New(errs.InvalidFloat, "expected double-precision float, got major %d additional info %d", h.Major, h.AI)
	}
	return math.Float64frombits(h.Arg), nil
}

// --- Boolean, null, unit ---

// DecodeBool decodes a CBOR boolean (major type 7, additional info 20 or
// 21), failing InvalidBool for any other additional info under major
// type 7 and TypeMismatch for any other major type.
func (d *Decoder) DecodeBool() (bool, error) {
	h, err := head.DecodeHead(d.r)
	if err != nil {
		return false, err
	}
	if h.Major != head.MajorFloat {
		return false, errs.New(errs.TypeMismatch, "expected major type %d (bool), got %d", head.MajorFloat, h.Major)
	}
	switch h.AI {
	case head.AIFalse:
		return false, nil
	case head.AITrue:
		return true, nil
	default:
		return false, errs.New(errs.InvalidBool, "additional info %d is not a boolean", h.AI)
	}
}

// DecodeNull consumes a CBOR null value (major type 7, additional info
// 22) and fails otherwise.
func (d *Decoder) DecodeNull() error {
	h, err := head.DecodeHead(d.r)
	if err != nil {
		return err
	}
	if h.Major != head.MajorFloat || h.AI != head.AINull {
		return errs.New(errs.TypeMismatch, "expected null, got major %d additional info %d", h.Major, h.AI)
	}
	return nil
}

// --- Optional ---

// isNullAhead reports whether the next byte, without consuming it, is
// the null encoding (major type 7, additional info 22). Only supported
// when the underlying substrate allows a non-consuming peek.
func (d *Decoder) isNullAhead() (bool, error) {
	b, err := d.r.PeekByte()
	if err != nil {
		return false, err
	}
	return b == (head.MajorFloat<<5)|head.AINull, nil
}

// DecodeOptional reports whether the next value is present, consuming
// and decoding it via decode if so, or consuming the null marker and
// returning (false, nil) otherwise.
func (d *Decoder) DecodeOptional(decode func(*Decoder) error) (bool, error) {
	isNull, err := d.isNullAhead()
	if err != nil {
		return false, err
	}
	if isNull {
		return false, d.DecodeNull()
	}
	if err := decode(d); err != nil {
		return false, err
	}
	return true, nil
}

// --- Strings ---

// spanCopier is implemented by stream-mode readers whose refill buffer
// may be smaller than a requested span, per spec.md §4.3's "copy into
// caller buffer" variant for stream-mode strings.
type spanCopier interface {
	ReadSpanInto(dst []byte) error
}

// readPayload reads n bytes as a zero-copy alias when the substrate can
// return one directly (buffer mode, or a stream whose refill buffer is
// large enough); otherwise it falls back to copying through the
// substrate's ReadSpanInto, allocating an owned buffer of the payload's
// size. This is only safe for callers that copy the result before
// returning it to their own caller (DecodeText does, via the string(span)
// conversion); see readPayloadCopy for callers that hand the slice back
// directly.
func (d *Decoder) readPayload(n int) ([]byte, error) {
	span, err := d.r.ReadSpan(n)
	if err == nil {
		return span, nil
	}
	kind, ok := errs.Of(err)
	if !ok || kind != errs.InvalidLength {
		return nil, err
	}
	copier, ok := d.r.(spanCopier)
	if !ok {
		return nil, err
	}
	dst := make([]byte, n)
	if err := copier.ReadSpanInto(dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// readPayloadCopy reads n bytes and always returns an owned slice: a
// zero-copy alias in buffer mode (safe, since nothing else in this
// package mutates the input), but always a fresh copy in stream mode —
// even when n fits inside the refill buffer and ReadSpan would otherwise
// succeed directly — since a stream-mode span aliases the refill buffer
// and a later refill/compact can silently overwrite it. spec.md §3's
// Lifecycle guarantee ("decoded byte-span slices in stream mode are
// copied into a caller-provided buffer") applies to every stream-mode
// span handed back to the caller, not only ones too large for the
// refill buffer to hold directly.
func (d *Decoder) readPayloadCopy(n int) ([]byte, error) {
	if copier, ok := d.r.(spanCopier); ok {
		dst := make([]byte, n)
		if err := copier.ReadSpanInto(dst); err != nil {
			return nil, err
		}
		return dst, nil
	}
	return d.r.ReadSpan(n)
}

// DecodeText decodes a CBOR text string (major type 3). The payload is
// read zero-copy where the substrate allows it, but the returned string is
// always a fresh copy made by the string conversion, in buffer and stream
// mode alike; it never aliases the input buffer. Length is
// checked against Config.MaxStringLength, and content is validated as
// UTF-8 when Config.ValidateUTF8 is set.
func (d *Decoder) DecodeText() (string, error) {
	h, err := head.DecodeHead(d.r)
	if err != nil {
		return "", err
	}
	if h.Major != head.MajorText {
		return "", errs.New(errs.TypeMismatch, "expected major type %d (text), got %d", head.MajorText, h.Major)
	}
	if h.Indefinite {
		return "", errs.New(errs.InvalidIndefiniteLength, "indefinite-length text strings are not supported")
	}
	if err := head.CheckStringLength(h.Arg, d.cfg.MaxStringLength); err != nil {
		return "", err
	}
	span, err := d.readPayload(int(h.Arg))
	if err != nil {
		return "", err
	}
	if d.cfg.ValidateUTF8 && !utf8.Valid(span) {
		return "", errs.New(errs.InvalidUtf8, "text string is not well-formed UTF-8")
	}
	return string(span), nil
}

// DecodeBytes decodes a CBOR byte string (major type 2). In buffer mode
// the returned slice aliases the input buffer's backing array; callers
// that retain it beyond the next decode call must copy it themselves. In
// stream mode the returned slice is always a fresh copy, since nothing
// else keeps a stream-mode span stable across the next refill.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	h, err := head.DecodeHead(d.r)
	if err != nil {
		return nil, err
	}
	if h.Major != head.MajorBytes {
		return nil, errs.New(errs.TypeMismatch, "expected major type %d (bytes), got %d", head.MajorBytes, h.Major)
	}
	if h.Indefinite {
		return nil, errs.New(errs.InvalidIndefiniteLength, "indefinite-length byte strings are not supported")
	}
	if err := head.CheckStringLength(h.Arg, d.cfg.MaxStringLength); err != nil {
		return nil, err
	}
	return d.readPayloadCopy(int(h.Arg))
}
