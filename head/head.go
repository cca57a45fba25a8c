// Package head implements the CBOR head protocol (C2): encoding and
// decoding the (major type, argument) pair that prefixes every CBOR item,
// per RFC 8949 §3 and the five-class length table it defines.
//
// Dispatch is grounded on the major-type/additional-info table shown by
// synadia-labs/cbor-go's canonical-length checks (a major type extracted
// from the top 3 bits, additional info from the bottom 5, and a switch
// over the {direct, +1, +2, +4, +8, indefinite} classes) — adapted here to
// also choose the minimal class on encode, which that package's decoder
// only ever validates rather than produces.
package head

import (
	"github.com/thebagchi/cbor/bytestream"
	"github.com/thebagchi/cbor/errs"
)

// Major type constants (RFC 8949 §3.1).
const (
	MajorUint  byte = 0
	MajorNeg   byte = 1
	MajorBytes byte = 2
	MajorText  byte = 3
	MajorArray byte = 4
	MajorMap   byte = 5
	MajorTag   byte = 6
	MajorFloat byte = 7
)

// Additional-info constants.
const (
	AIUint8      byte = 24
	AIUint16     byte = 25
	AIUint32     byte = 26
	AIUint64     byte = 27
	aiReservedLo byte = 28
	aiReservedHi byte = 30
	AIIndefinite byte = 31
)

// Simple-value additional-info constants (major type 7).
const (
	AIFalse     byte = 20
	AITrue      byte = 21
	AINull      byte = 22
	AIUndefined byte = 23
	AIFloat16   byte = 25
	AIFloat32   byte = 26
	AIFloat64   byte = 27
)

// Break is the single-byte break marker (major type 7, additional info
// 31) that terminates an indefinite-length item.
const Break byte = (MajorFloat << 5) | AIIndefinite

// classOf returns the additional-info class and extra-byte count needed
// to encode u as the minimal argument, per spec.md §4.2's table.
func classOf(u uint64) (ai byte, extra int) {
	switch {
	case u <= 23:
		return byte(u), 0
	case u <= 0xFF:
		return AIUint8, 1
	case u <= 0xFFFF:
		return AIUint16, 2
	case u <= 0xFFFFFFFF:
		return AIUint32, 4
	default:
		return AIUint64, 8
	}
}

// EncodeHead writes the initial byte and, if needed, the argument bytes
// for (major, arg), always choosing the smallest class that fits arg.
func EncodeHead(w bytestream.Writer, major byte, arg uint64) error {
	ai, extra := classOf(arg)
	if err := w.WriteByte((major << 5) | ai); err != nil {
		return err
	}
	if extra == 0 {
		return nil
	}
	return w.WriteUintBE(arg, extra)
}

// EncodeIndefiniteHead writes the initial byte for an indefinite-length
// item of the given major type (only valid for byte string, text string,
// array, and map).
func EncodeIndefiniteHead(w bytestream.Writer, major byte) error {
	return w.WriteByte((major << 5) | AIIndefinite)
}

// EncodeBreak writes the break marker that terminates an indefinite-length
// item.
func EncodeBreak(w bytestream.Writer) error {
	return w.WriteByte(Break)
}

// Head is a decoded initial byte plus its argument.
type Head struct {
	Major byte
	// AI is the raw 5-bit additional info from the initial byte. For
	// major type 7 this distinguishes simple values (AI 20-23) from
	// the three float widths (AI 25/26/27), which all funnel their
	// follower bytes through Arg identically to an integer argument.
	AI         byte
	Arg        uint64
	Indefinite bool
}

// DecodeHead reads one initial byte and its argument bytes (if any),
// reporting the major type, argument, and whether this is an
// indefinite-length marker (additional info 31).
//
// Additional info in the reserved range 28-30 fails with
// InvalidAdditionalInfo, per RFC 8949 §3's reservation of those codes.
func DecodeHead(r bytestream.Reader) (Head, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Head{}, err
	}
	major := b >> 5
	ai := b & 0x1F

	switch {
	case ai <= 23:
		return Head{Major: major, AI: ai, Arg: uint64(ai)}, nil
	case ai == AIUint8:
		v, err := r.ReadUintBE(1)
		if err != nil {
			return Head{}, err
		}
		return Head{Major: major, AI: ai, Arg: v}, nil
	case ai == AIUint16:
		v, err := r.ReadUintBE(2)
		if err != nil {
			return Head{}, err
		}
		return Head{Major: major, AI: ai, Arg: v}, nil
	case ai == AIUint32:
		v, err := r.ReadUintBE(4)
		if err != nil {
			return Head{}, err
		}
		return Head{Major: major, AI: ai, Arg: v}, nil
	case ai == AIUint64:
		v, err := r.ReadUintBE(8)
		if err != nil {
			return Head{}, err
		}
		return Head{Major: major, AI: ai, Arg: v}, nil
	case ai == AIIndefinite:
		return Head{Major: major, AI: ai, Indefinite: true}, nil
	default:
		return Head{}, errs.New(errs.InvalidAdditionalInfo, "reserved additional info %d for major type %d", ai, major)
	}
}

// IsBreak reports whether h is the break marker (major type 7, additional
// info 31).
func (h Head) IsBreak() bool {
	return h.Major == MajorFloat && h.Indefinite
}

// CheckCollectionSize validates arg (an array/map element count) against
// the configured maximum, per spec.md §4.2's guarded length limits.
// Integer payload values (major types 0/1) must never be passed through
// this check — see spec.md §9's open question about the source's bug.
func CheckCollectionSize(arg uint64, max uint64) error {
	if arg > max {
		return errs.New(errs.InvalidLength, "collection size %d exceeds configured maximum %d", arg, max)
	}
	return nil
}

// CheckStringLength validates arg (a byte/text string length) against the
// configured maximum.
func CheckStringLength(arg uint64, max uint64) error {
	if arg > max {
		return errs.New(errs.InvalidLength, "string length %d exceeds configured maximum %d", arg, max)
	}
	return nil
}
