package cbor

import (
	"github.com/thebagchi/cbor/errs"
	"github.com/thebagchi/cbor/head"
)

// EncodeSlice encodes items as a CBOR array (major type 4) of definite
// length, calling encode once per element in order.
func EncodeSlice[T any](e *Encoder, items []T, encode func(*Encoder, T) error) error {
	if err := e.depth.enter(); err != nil {
		return err
	}
	defer e.depth.exit()

	if err := head.EncodeHead(e.w, head.MajorArray, uint64(len(items))); err != nil {
		return err
	}
	for _, item := range items {
		if err := encode(e, item); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSlice decodes a CBOR array (major type 4), definite or
// indefinite length, calling decode once per element. The resulting
// slice's length is capped by Config.MaxCollectionSize regardless of
// whether the array declares a definite count, so an indefinite-length
// array cannot exhaust memory before DecodeSlice notices.
func DecodeSlice[T any](d *Decoder, decode func(*Decoder) (T, error)) ([]T, error) {
	if err := d.depth.enter(); err != nil {
		return nil, err
	}
	defer d.depth.exit()

	h, err := head.DecodeHead(d.r)
	if err != nil {
		return nil, err
	}
	if h.Major != head.MajorArray {
		return nil, errs.New(errs.TypeMismatch, "expected major type %d (array), got %d", head.MajorArray, h.Major)
	}

	if h.Indefinite {
		if !d.cfg.EnableIndefiniteLength {
			return nil, errs.New(errs.InvalidIndefiniteLength, "indefinite-length arrays are disabled by configuration")
		}
		var out []T
		for {
			peek, err := d.r.PeekByte()
			if err != nil {
				return nil, err
			}
			if peek == head.Break {
				_, _ = d.r.ReadByte()
				return out, nil
			}
			if uint64(len(out)) >= d.cfg.MaxCollectionSize {
				return nil, errs.New(errs.InvalidLength, "array exceeds configured maximum %d elements", d.cfg.MaxCollectionSize)
			}
			item, err := decode(d)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
	}

	if err := head.CheckCollectionSize(h.Arg, d.cfg.MaxCollectionSize); err != nil {
		return nil, err
	}
	out := make([]T, 0, h.Arg)
	for i := uint64(0); i < h.Arg; i++ {
		item, err := decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// EncodeFixedArray encodes items as a CBOR array (major type 4) of
// exactly len(items) elements. It differs from EncodeSlice only in
// name, making the fixed-cardinality intent explicit at call sites.
func EncodeFixedArray[T any](e *Encoder, items []T, encode func(*Encoder, T) error) error {
	return EncodeSlice(e, items, encode)
}

// EncodeIndefiniteSlice encodes items as an indefinite-length CBOR array
// (major type 4, additional info 31), terminated by a break marker, and
// fails with UnsupportedValue if Config.EnableIndefiniteLength is false.
func EncodeIndefiniteSlice[T any](e *Encoder, items []T, encode func(*Encoder, T) error) error {
	if !e.cfg.EnableIndefiniteLength {
		return errs.New(errs.UnsupportedValue, "indefinite-length arrays are disabled by configuration")
	}
	if err := e.depth.enter(); err != nil {
		return err
	}
	defer e.depth.exit()

	if err := head.EncodeIndefiniteHead(e.w, head.MajorArray); err != nil {
		return err
	}
	for _, item := range items {
		if err := encode(e, item); err != nil {
			return err
		}
	}
	return head.EncodeBreak(e.w)
}

// DecodeFixedArray decodes a CBOR array (major type 4) that must contain
// exactly n elements, failing InvalidLength if the declared or actual
// element count differs from n.
func DecodeFixedArray[T any](d *Decoder, n int, decode func(*Decoder) (T, error)) ([]T, error) {
	if err := d.depth.enter(); err != nil {
		return nil, err
	}
	defer d.depth.exit()

	h, err := head.DecodeHead(d.r)
	if err != nil {
		return nil, err
	}
	if h.Major != head.MajorArray {
		return nil, errs.New(errs.TypeMismatch, "expected major type %d (array), got %d", head.MajorArray, h.Major)
	}

	if h.Indefinite {
		if !d.cfg.EnableIndefiniteLength {
			return nil, errs.New(errs.InvalidIndefiniteLength, "indefinite-length arrays are disabled by configuration")
		}
		out := make([]T, 0, n)
		for {
			peek, err := d.r.PeekByte()
			if err != nil {
				return nil, err
			}
			if peek == head.Break {
				_, _ = d.r.ReadByte()
				break
			}
			if len(out) >= n {
				return nil, errs.New(errs.InvalidLength, "array has more than the expected %d elements", n)
			}
			item, err := decode(d)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		if len(out) != n {
			return nil, errs.New(errs.InvalidLength, "array has %d elements, expected exactly %d", len(out), n)
		}
		return out, nil
	}

	if h.Arg != uint64(n) {
		return nil, errs.New(errs.InvalidLength, "array has %d elements, expected exactly %d", h.Arg, n)
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		item, err := decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
