package cbor

import (
	"github.com/thebagchi/cbor/errs"
	"github.com/thebagchi/cbor/head"
)

// RecordField describes one key/value pair to emit from EncodeRecord:
// Name becomes a CBOR text-string key, and Encode writes the
// corresponding value.
type RecordField struct {
	Name   string
	Encode func(*Encoder) error
}

// EncodeRecord encodes fields as a CBOR map (major type 5) of definite
// length, in the order given. spec.md's record codec never reorders
// keys into canonical order (see doc.go's scope note).
func EncodeRecord(e *Encoder, fields []RecordField) error {
	if err := e.depth.enter(); err != nil {
		return err
	}
	defer e.depth.exit()

	if err := head.EncodeHead(e.w, head.MajorMap, uint64(len(fields))); err != nil {
		return err
	}
	for _, f := range fields {
		if err := e.EncodeText(f.Name); err != nil {
			return err
		}
		if err := f.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// FieldSpec describes one expected key in DecodeRecord: Name is matched
// against each map key in turn, Decode consumes the value when matched,
// and Optional controls whether a record lacking this key is an error.
type FieldSpec struct {
	Name     string
	Optional bool
	Decode   func(*Decoder) error
}

// DecodeRecord decodes a CBOR map (major type 5), definite or indefinite
// length, matching each key against fields by name. Keys with no match
// in fields are skipped structurally (via Skip) rather than erroring,
// since this package only supports UTF-8 text record keys, not arbitrary
// map key types (see doc.go's scope note). A duplicate match for a
// field already found is an error unless Config.AllowDuplicateKeys is
// set, in which case the later value overwrites the earlier one. Any
// non-Optional field left unmatched after the map closes fails with
// MissingRequiredField.
func DecodeRecord(d *Decoder, fields []FieldSpec) error {
	if err := d.depth.enter(); err != nil {
		return err
	}
	defer d.depth.exit()

	h, err := head.DecodeHead(d.r)
	if err != nil {
		return err
	}
	if h.Major != head.MajorMap {
		return errs.New(errs.TypeMismatch, "expected major type %d (map), got %d", head.MajorMap, h.Major)
	}

	found := make([]bool, len(fields))
	matchAndDecode := func() error {
		key, err := d.DecodeText()
		if err != nil {
			return err
		}
		idx := -1
		for i, f := range fields {
			if f.Name == key {
				idx = i
				break
			}
		}
		if idx < 0 {
			return d.Skip()
		}
		if found[idx] && !d.cfg.AllowDuplicateKeys {
			return errs.New(errs.MalformedInput, "duplicate key %q in record", key)
		}
		found[idx] = true
		return fields[idx].Decode(d)
	}

	if h.Indefinite {
		if !d.cfg.EnableIndefiniteLength {
			return errs.New(errs.InvalidIndefiniteLength, "indefinite-length maps are disabled by configuration")
		}
		for {
			peek, err := d.r.PeekByte()
			if err != nil {
				return err
			}
			if peek == head.Break {
				_, _ = d.r.ReadByte()
				break
			}
			if err := matchAndDecode(); err != nil {
				return err
			}
		}
	} else {
		if err := head.CheckCollectionSize(h.Arg, d.cfg.MaxCollectionSize); err != nil {
			return err
		}
		for i := uint64(0); i < h.Arg; i++ {
			if err := matchAndDecode(); err != nil {
				return err
			}
		}
	}

	for i, f := range fields {
		if !found[i] && !f.Optional {
			return errs.New(errs.MissingRequiredField, "record is missing required field %q", f.Name)
		}
	}
	return nil
}
