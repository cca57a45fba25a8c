package cbor

import (
	"math"
	"unicode/utf8"

	"github.com/thebagchi/cbor/bytestream"
	"github.com/thebagchi/cbor/errs"
	"github.com/thebagchi/cbor/head"
)

// Encoder serializes typed values onto a bytestream.Writer, dispatching
// on the static shape of each value per spec.md §4.3 (C3) and bounding
// nesting depth per §4.3's depth bookkeeping.
//
// An Encoder is not safe for concurrent use and must not be shared
// between goroutines; each instance owns its position and depth counter.
type Encoder struct {
	w     bytestream.Writer
	cfg   *Config
	depth depthTracker
}

// NewEncoder creates an Encoder writing to w, bounded by cfg. If cfg is
// nil, NewConfig()'s defaults are used.
func NewEncoder(w bytestream.Writer, cfg *Config) *Encoder {
	if cfg == nil {
		cfg, _ = NewConfig()
	}
	return &Encoder{w: w, cfg: cfg, depth: newDepthTracker(cfg.MaxDepth)}
}

// Flush commits any buffered-but-unwritten bytes to the underlying
// destination (a no-op for a buffer substrate).
func (e *Encoder) Flush() error {
	return e.w.Flush()
}

// --- Unsigned integers ---

// EncodeUint8 encodes v as a CBOR unsigned integer (major type 0).
func (e *Encoder) EncodeUint8(v uint8) error { return head.EncodeHead(e.w, head.MajorUint, uint64(v)) }

// EncodeUint16 encodes v as a CBOR unsigned integer (major type 0).
func (e *Encoder) EncodeUint16(v uint16) error {
	return head.EncodeHead(e.w, head.MajorUint, uint64(v))
}

// EncodeUint32 encodes v as a CBOR unsigned integer (major type 0).
func (e *Encoder) EncodeUint32(v uint32) error {
	return head.EncodeHead(e.w, head.MajorUint, uint64(v))
}

// EncodeUint64 encodes v as a CBOR unsigned integer (major type 0).
func (e *Encoder) EncodeUint64(v uint64) error { return head.EncodeHead(e.w, head.MajorUint, v) }

// --- Signed integers ---
//
// Negative n encodes as major type 1 with argument (-n-1), per RFC 8949
// §3.1. The encode side never hits the int64-minimum edge case the
// decode side must guard (negating n+1 is always representable in
// uint64 for any int64 n), so no special-casing is needed here.

func encodeSigned(w bytestream.Writer, v int64) error {
	if v >= 0 {
		return head.EncodeHead(w, head.MajorUint, uint64(v))
	}
	return head.EncodeHead(w, head.MajorNeg, uint64(-(v + 1)))
}

// EncodeInt8 encodes v as a CBOR integer (major type 0 or 1).
func (e *Encoder) EncodeInt8(v int8) error { return encodeSigned(e.w, int64(v)) }

// EncodeInt16 encodes v as a CBOR integer (major type 0 or 1).
func (e *Encoder) EncodeInt16(v int16) error { return encodeSigned(e.w, int64(v)) }

// EncodeInt32 encodes v as a CBOR integer (major type 0 or 1).
func (e *Encoder) EncodeInt32(v int32) error { return encodeSigned(e.w, int64(v)) }

// EncodeInt64 encodes v as a CBOR integer (major type 0 or 1).
func (e *Encoder) EncodeInt64(v int64) error { return encodeSigned(e.w, v) }

// --- Floats ---

// EncodeFloat16 encodes bits as a CBOR half-precision float (major type
// 7, additional info 25). Go has no native float16 type, so the raw
// IEEE 754-2008 binary16 bit pattern is passed through unchanged; this
// package never produces this encoding itself (spec.md's Non-goals
// exclude float-shrinking), but callers that already have a half-float
// payload (e.g. re-encoding a decoded one) can emit it bit-exactly.
func (e *Encoder) EncodeFloat16(bits uint16) error {
	if err := e.w.WriteByte((head.MajorFloat << 5) | head.AIFloat16); err != nil {
		return err
	}
	return e.w.WriteUintBE(uint64(bits), 2)
}

// EncodeFloat32 encodes v as a CBOR single-precision float (major type 7,
// additional info 26).
func (e *Encoder) EncodeFloat32(v float32) error {
	if err := e.w.WriteByte((head.MajorFloat << 5) | head.AIFloat32); err != nil {
		return err
	}
	return e.w.WriteUintBE(uint64(math.Float32bits(v)), 4)
}

// EncodeFloat64 encodes v as a CBOR double-precision float (major type 7,
// additional info 27).
func (e *Encoder) EncodeFloat64(v float64) error {
	if err := e.w.WriteByte((head.MajorFloat << 5) | head.AIFloat64); err != nil {
		return err
	}
	return e.w.WriteUintBE(math.Float64bits(v), 8)
}

// --- Boolean, null, unit ---

// EncodeBool encodes v as a CBOR boolean (major type 7, additional info
// 20 or 21).
func (e *Encoder) EncodeBool(v bool) error {
	ai := head.AIFalse
	if v {
		ai = head.AITrue
	}
	return e.w.WriteByte((head.MajorFloat << 5) | ai)
}

// EncodeNull encodes the CBOR null value (major type 7, additional info
// 22). Also used to encode the unit (empty) value and an absent Optional.
func (e *Encoder) EncodeNull() error {
	return e.w.WriteByte((head.MajorFloat << 5) | head.AINull)
}

// --- Optional ---

// EncodeOptional encodes present as v via encode, or null if present is
// false.
func (e *Encoder) EncodeOptional(present bool, encode func(*Encoder) error) error {
	if !present {
		return e.EncodeNull()
	}
	return encode(e)
}

// --- Strings ---

// EncodeText encodes s as a CBOR text string (major type 3). If
// Config.ValidateUTF8 is set, s is validated before writing and
// InvalidUtf8 is returned for ill-formed input; byte length is checked
// against Config.MaxStringLength.
func (e *Encoder) EncodeText(s string) error {
	if uint64(len(s)) > e.cfg.MaxStringLength {
		return errs.New(errs.InvalidLength, "text string of %d bytes exceeds configured maximum %d", len(s), e.cfg.MaxStringLength)
	}
	if e.cfg.ValidateUTF8 && !utf8.ValidString(s) {
		return errs.New(errs.InvalidUtf8, "text string is not well-formed UTF-8")
	}
	if err := head.EncodeHead(e.w, head.MajorText, uint64(len(s))); err != nil {
		return err
	}
	return e.w.WriteSpan([]byte(s))
}

// EncodeBytes encodes b as a CBOR byte string (major type 2), without
// UTF-8 validation. Byte length is checked against
// Config.MaxStringLength.
func (e *Encoder) EncodeBytes(b []byte) error {
	if uint64(len(b)) > e.cfg.MaxStringLength {
		return errs.New(errs.InvalidLength, "byte string of %d bytes exceeds configured maximum %d", len(b), e.cfg.MaxStringLength)
	}
	if err := head.EncodeHead(e.w, head.MajorBytes, uint64(len(b))); err != nil {
		return err
	}
	return e.w.WriteSpan(b)
}
