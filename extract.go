package cbor

import (
	"github.com/thebagchi/cbor/errs"
	"github.com/thebagchi/cbor/head"
)

// rewindable is implemented by bytestream readers that can restore a
// previously recorded position, which only a fixed-buffer substrate can
// do cheaply (see bytestream.BufferReader.Seek). A stream substrate
// discards bytes behind its read position during refill/compact, so it
// cannot support this.
type rewindable interface {
	Pos() int
	Seek(pos int)
}

// ExtractField scans the CBOR map at the decoder's current position for
// a key matching name, decoding its value via decode when found. Unlike
// DecodeRecord, ExtractField always restores the decoder's position to
// where it started, so repeated calls against the same map (looking for
// different fields) are idempotent and independent of call order.
//
// This requires a rewindable substrate (bytestream.NewBufferReader);
// resolved per spec.md's open question, stream-mode decoders cannot
// support ExtractField and it fails with UnsupportedValue.
func (d *Decoder) ExtractField(name string, decode func(*Decoder) error) (bool, error) {
	rw, ok := d.r.(rewindable)
	if !ok {
		return false, errs.New(errs.UnsupportedValue, "ExtractField requires a rewindable (buffer-mode) substrate")
	}
	start := rw.Pos()

	found, err := d.extractField(name, decode)
	rw.Seek(start)
	return found, err
}

func (d *Decoder) extractField(name string, decode func(*Decoder) error) (bool, error) {
	h, err := head.DecodeHead(d.r)
	if err != nil {
		return false, err
	}
	if h.Major != head.MajorMap {
		return false, errs.New(errs.TypeMismatch, "expected major type %d (map), got %d", head.MajorMap, h.Major)
	}

	visit := func() (bool, error) {
		key, err := d.DecodeText()
		if err != nil {
			return false, err
		}
		if key != name {
			return false, d.Skip()
		}
		return true, decode(d)
	}

	if h.Indefinite {
		if !d.cfg.EnableIndefiniteLength {
			return false, errs.New(errs.InvalidIndefiniteLength, "indefinite-length maps are disabled by configuration")
		}
		for {
			peek, err := d.r.PeekByte()
			if err != nil {
				return false, err
			}
			if peek == head.Break {
				_, _ = d.r.ReadByte()
				return false, nil
			}
			matched, err := visit()
			if err != nil {
				return false, err
			}
			if matched {
				return true, nil
			}
		}
	}

	if err := head.CheckCollectionSize(h.Arg, d.cfg.MaxCollectionSize); err != nil {
		return false, err
	}
	for i := uint64(0); i < h.Arg; i++ {
		matched, err := visit()
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
