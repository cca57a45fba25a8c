package cbor

import (
	"github.com/thebagchi/cbor/errs"
	"github.com/thebagchi/cbor/head"
)

// Skip consumes and discards exactly one CBOR item, descending into
// composite shapes as needed (spec.md §4.5's structural walker, C5).
// It understands every major type including tag (major type 6, which
// this package never produces on encode but must still traverse on
// decode) and both definite- and indefinite-length collections.
func (d *Decoder) Skip() error {
	h, err := head.DecodeHead(d.r)
	if err != nil {
		return err
	}
	return d.skipBody(h)
}

func (d *Decoder) skipBody(h head.Head) error {
	switch h.Major {
	case head.MajorUint, head.MajorNeg:
		return nil

	case head.MajorBytes, head.MajorText:
		if h.Indefinite {
			return d.skipIndefiniteChunks(h.Major)
		}
		if err := head.CheckStringLength(h.Arg, d.cfg.MaxStringLength); err != nil {
			return err
		}
		_, err := d.r.ReadSpan(int(h.Arg))
		return err

	case head.MajorArray:
		if err := d.depth.enter(); err != nil {
			return err
		}
		defer d.depth.exit()
		if h.Indefinite {
			return d.skipUntilBreak(1)
		}
		if err := head.CheckCollectionSize(h.Arg, d.cfg.MaxCollectionSize); err != nil {
			return err
		}
		for i := uint64(0); i < h.Arg; i++ {
			if err := d.Skip(); err != nil {
				return err
			}
		}
		return nil

	case head.MajorMap:
		if err := d.depth.enter(); err != nil {
			return err
		}
		defer d.depth.exit()
		if h.Indefinite {
			return d.skipUntilBreak(2)
		}
		if err := head.CheckCollectionSize(h.Arg, d.cfg.MaxCollectionSize); err != nil {
			return err
		}
		for i := uint64(0); i < h.Arg; i++ {
			if err := d.Skip(); err != nil { // key
				return err
			}
			if err := d.Skip(); err != nil { // value
				return err
			}
		}
		return nil

	case head.MajorTag:
		// The tag argument has already been consumed as h.Arg; the
		// tagged value follows as exactly one item.
		return d.Skip()

	case head.MajorFloat:
		switch h.AI {
		case head.AIFalse, head.AITrue, head.AINull, head.AIUndefined:
			return nil
		case head.AIUint8:
			return nil // one-byte simple value (32-255), follower already consumed into h.Arg
		case head.AIFloat16, head.AIFloat32, head.AIFloat64:
			return nil
		case head.AIIndefinite:
			return errs.New(errs.InvalidBreakCode, "break marker encountered outside any indefinite frame")
		default:
			return nil // unassigned simple value (AI 0-19), no follower bytes
		}

	default:
		return errs.New(errs.MalformedInput, "unknown major type %d", h.Major)
	}
}

// skipIndefiniteChunks skips the definite-length chunks of an
// indefinite-length byte or text string, through the terminating break.
func (d *Decoder) skipIndefiniteChunks(major byte) error {
	for {
		peek, err := d.r.PeekByte()
		if err != nil {
			return err
		}
		if peek == head.Break {
			_, _ = d.r.ReadByte()
			return nil
		}
		h, err := head.DecodeHead(d.r)
		if err != nil {
			return err
		}
		if h.Major != major || h.Indefinite {
			return errs.New(errs.MalformedInput, "invalid chunk in indefinite-length string")
		}
		if _, err := d.r.ReadSpan(int(h.Arg)); err != nil {
			return err
		}
	}
}

// skipUntilBreak skips itemsPerEntry items (1 for array elements, 2 for
// map key/value pairs) repeatedly until a break marker is found.
func (d *Decoder) skipUntilBreak(itemsPerEntry int) error {
	for {
		peek, err := d.r.PeekByte()
		if err != nil {
			return err
		}
		if peek == head.Break {
			_, _ = d.r.ReadByte()
			return nil
		}
		for i := 0; i < itemsPerEntry; i++ {
			if err := d.Skip(); err != nil {
				return err
			}
		}
	}
}
