package cbor

import (
	"math"

	"github.com/thebagchi/cbor/errs"
	"github.com/thebagchi/cbor/head"
)

// decodeUnsigned reads a head of major type 0 and validates its argument
// fits in the requested bit width.
func (d *Decoder) decodeUnsigned(bits int) (uint64, error) {
	h, err := head.DecodeHead(d.r)
	if err != nil {
		return 0, err
	}
	if h.Major != head.MajorUint {
		return 0, errs.New(errs.TypeMismatch, "expected major type %d (uint), got %d", head.MajorUint, h.Major)
	}
	if bits < 64 {
		max := uint64(1)<<uint(bits) - 1
		if h.Arg > max {
			return 0, errs.New(errs.IntegerOverflow, "value %d overflows %d-bit unsigned range", h.Arg, bits)
		}
	}
	return h.Arg, nil
}

// DecodeUint8 decodes a CBOR unsigned integer (major type 0) into uint8,
// failing IntegerOverflow if the value doesn't fit.
func (d *Decoder) DecodeUint8() (uint8, error) {
	v, err := d.decodeUnsigned(8)
	return uint8(v), err
}

// DecodeUint16 decodes a CBOR unsigned integer (major type 0) into uint16.
func (d *Decoder) DecodeUint16() (uint16, error) {
	v, err := d.decodeUnsigned(16)
	return uint16(v), err
}

// DecodeUint32 decodes a CBOR unsigned integer (major type 0) into uint32.
func (d *Decoder) DecodeUint32() (uint32, error) {
	v, err := d.decodeUnsigned(32)
	return uint32(v), err
}

// DecodeUint64 decodes a CBOR unsigned integer (major type 0) into uint64.
func (d *Decoder) DecodeUint64() (uint64, error) {
	return d.decodeUnsigned(64)
}

// decodeSigned reads a head of major type 0 (non-negative) or 1 (negative)
// and returns the represented value as int64, validating it fits in the
// requested bit width.
//
// Major type 1's argument n represents the value -(n+1). For a 64-bit
// result the valid range of n is 0..2^63-1 (giving v from -1 down to
// math.MinInt64 inclusive); n == 2^63 would represent -(2^63+1), a
// magnitude one past math.MinInt64 that int64 cannot hold, so it is
// rejected as overflow rather than silently wrapping through two's
// complement truncation.
func (d *Decoder) decodeSigned(bits int) (int64, error) {
	h, err := head.DecodeHead(d.r)
	if err != nil {
		return 0, err
	}
	switch h.Major {
	case head.MajorUint:
		if bits < 64 {
			max := uint64(1)<<uint(bits-1) - 1
			if h.Arg > max {
				return 0, errs.New(errs.IntegerOverflow, "value %d overflows %d-bit signed range", h.Arg, bits)
			}
		} else if h.Arg > math.MaxInt64 {
			return 0, errs.New(errs.IntegerOverflow, "value %d overflows int64 range", h.Arg)
		}
		return int64(h.Arg), nil
	case head.MajorNeg:
		maxMagnitude := uint64(1) << uint(bits-1)
		if h.Arg >= maxMagnitude {
			return 0, errs.New(errs.IntegerOverflow, "negative value -%d-1 overflows %d-bit signed range", h.Arg, bits)
		}
		return -int64(h.Arg) - 1, nil
	default:
		return 0, errs.New(errs.TypeMismatch, "expected major type %d or %d (int), got %d", head.MajorUint, head.MajorNeg, h.Major)
	}
}

// DecodeInt8 decodes a CBOR integer (major type 0 or 1) into int8.
func (d *Decoder) DecodeInt8() (int8, error) {
	v, err := d.decodeSigned(8)
	return int8(v), err
}

// DecodeInt16 decodes a CBOR integer (major type 0 or 1) into int16.
func (d *Decoder) DecodeInt16() (int16, error) {
	v, err := d.decodeSigned(16)
	return int16(v), err
}

// DecodeInt32 decodes a CBOR integer (major type 0 or 1) into int32.
func (d *Decoder) DecodeInt32() (int32, error) {
	v, err := d.decodeSigned(32)
	return int32(v), err
}

// DecodeInt64 decodes a CBOR integer (major type 0 or 1) into int64.
func (d *Decoder) DecodeInt64() (int64, error) {
	return d.decodeSigned(64)
}
