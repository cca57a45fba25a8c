package cbor_test

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cbor "github.com/thebagchi/cbor"
	"github.com/thebagchi/cbor/bytestream"
	"github.com/thebagchi/cbor/errs"
)

func TestIntegerRoundTrip(t *testing.T) {
	dst := make([]byte, 64)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)

	require.NoError(t, e.EncodeUint8(200))
	require.NoError(t, e.EncodeInt32(-1000000))
	require.NoError(t, e.EncodeInt64(math.MinInt64))
	require.NoError(t, e.EncodeUint64(math.MaxUint64))

	r := bytestream.NewBufferReader(w.Written())
	d := cbor.NewDecoder(r, nil)

	u8, err := d.DecodeUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(200), u8)

	i32, err := d.DecodeInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-1000000), i32)

	i64, err := d.DecodeInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i64)

	u64, err := d.DecodeUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u64)
}

func TestNegativeBoundaryRoundTrip(t *testing.T) {
	for _, v := range []int64{-1, -24, -25, -256, -257, -65536, -65537} {
		dst := make([]byte, 16)
		w := bytestream.NewBufferWriter(dst)
		e := cbor.NewEncoder(w, nil)
		require.NoError(t, e.EncodeInt64(v))

		d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
		got, err := d.DecodeInt64()
		require.NoError(t, err)
		assert.Equal(t, v, got, "value %d", v)
	}
}

func TestIntegerOverflowOnNarrowDecode(t *testing.T) {
	// Scenario 9: decoding 1B FF FF FF FF FF FF FF FF into a u8 fails with IntegerOverflow.
	r := bytestream.NewBufferReader([]byte{0x1B, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	d := cbor.NewDecoder(r, nil)
	_, err := d.DecodeUint8()
	require.Error(t, err)
	kind, ok := errs.Of(err)
	require.True(t, ok)
	assert.Equal(t, errs.IntegerOverflow, kind)
}

func TestFloatRoundTripBitExact(t *testing.T) {
	values := []float64{0, 1, -1, 3.14159, math.Inf(1), math.Inf(-1)}
	for _, v := range values {
		dst := make([]byte, 16)
		w := bytestream.NewBufferWriter(dst)
		e := cbor.NewEncoder(w, nil)
		require.NoError(t, e.EncodeFloat64(v))

		d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
		got, err := d.DecodeFloat64()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	// NaN round-trips as NaN without payload-bit equality being required.
	dst := make([]byte, 16)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)
	require.NoError(t, e.EncodeFloat64(math.NaN()))
	d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
	got, err := d.DecodeFloat64()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestFloatDecodeOfUintIsInvalidFloat(t *testing.T) {
	dst := make([]byte, 16)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)
	require.NoError(t, e.EncodeUint32(26)) // same numeric value as AIFloat32, different AI
	d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
	_, err := d.DecodeFloat32()
	require.Error(t, err)
	kind, _ := errs.Of(err)
	assert.Equal(t, errs.InvalidFloat, kind)
}

func TestBoolDecodeErrors(t *testing.T) {
	// Scenario 10: F8 (AI 24 simple value) is an unassigned simple, InvalidBool for bool request.
	r := bytestream.NewBufferReader([]byte{0xF8, 0x2A})
	d := cbor.NewDecoder(r, nil)
	_, err := d.DecodeBool()
	require.Error(t, err)
	kind, _ := errs.Of(err)
	assert.Equal(t, errs.InvalidBool, kind)

	// 18 2A (uint, major 0) into a boolean fails with TypeMismatch.
	r2 := bytestream.NewBufferReader([]byte{0x18, 0x2A})
	d2 := cbor.NewDecoder(r2, nil)
	_, err2 := d2.DecodeBool()
	require.Error(t, err2)
	kind2, _ := errs.Of(err2)
	assert.Equal(t, errs.TypeMismatch, kind2)
}

func TestTextStringScenario(t *testing.T) {
	dst := make([]byte, 16)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)
	require.NoError(t, e.EncodeText("hello"))
	assert.Equal(t, []byte{0x65, 0x68, 0x65, 0x6C, 0x6C, 0x6F}, w.Written())

	d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
	s, err := d.DecodeText()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestTextStringDecodeInBufferMode(t *testing.T) {
	data := []byte{0x65, 0x68, 0x65, 0x6C, 0x6C, 0x6F}
	d := cbor.NewDecoder(bytestream.NewBufferReader(data), nil)
	s, err := d.DecodeText()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestInvalidUtf8Rejected(t *testing.T) {
	// Text string header for length 1, followed by an invalid UTF-8 byte.
	r := bytestream.NewBufferReader([]byte{0x61, 0xFF})
	d := cbor.NewDecoder(r, nil)
	_, err := d.DecodeText()
	require.Error(t, err)
	kind, _ := errs.Of(err)
	assert.Equal(t, errs.InvalidUtf8, kind)
}

func TestOptionalRoundTrip(t *testing.T) {
	dst := make([]byte, 16)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)
	require.NoError(t, e.EncodeOptional(true, func(e *cbor.Encoder) error { return e.EncodeUint8(42) }))
	require.NoError(t, e.EncodeOptional(false, func(e *cbor.Encoder) error { return e.EncodeUint8(0) }))

	d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
	var got uint8
	present, err := d.DecodeOptional(func(d *cbor.Decoder) error {
		v, err := d.DecodeUint8()
		got = v
		return err
	})
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, uint8(42), got)

	present2, err := d.DecodeOptional(func(d *cbor.Decoder) error {
		t.Fatal("decode callback must not run for absent optional")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, present2)
}

func TestArrayScenario(t *testing.T) {
	dst := make([]byte, 16)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)
	require.NoError(t, cbor.EncodeSlice(e, []uint32{1, 2, 3, 4, 5}, func(e *cbor.Encoder, v uint32) error {
		return e.EncodeUint32(v)
	}))
	assert.Equal(t, []byte{0x85, 0x01, 0x02, 0x03, 0x04, 0x05}, w.Written())

	d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
	out, err := cbor.DecodeSlice(d, func(d *cbor.Decoder) (uint32, error) { return d.DecodeUint32() })
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3, 4, 5}, out)
}

func TestIndefiniteArrayRoundTripAndDisabled(t *testing.T) {
	dst := make([]byte, 16)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)
	require.NoError(t, cbor.EncodeIndefiniteSlice(e, []uint32{1, 2, 3}, func(e *cbor.Encoder, v uint32) error {
		return e.EncodeUint32(v)
	}))
	assert.Equal(t, []byte{0x9F, 0x01, 0x02, 0x03, 0xFF}, w.Written())

	d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
	out, err := cbor.DecodeSlice(d, func(d *cbor.Decoder) (uint32, error) { return d.DecodeUint32() })
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, out)

	cfg, err := cbor.NewConfig(cbor.WithIndefiniteLength(false))
	require.NoError(t, err)
	d2 := cbor.NewDecoder(bytestream.NewBufferReader([]byte{0x9F, 0x01, 0x02, 0x03, 0xFF}), cfg)
	_, err = cbor.DecodeSlice(d2, func(d *cbor.Decoder) (uint32, error) { return d.DecodeUint32() })
	require.Error(t, err)
	kind, _ := errs.Of(err)
	assert.Equal(t, errs.InvalidIndefiniteLength, kind)
}

func TestRecordScenario(t *testing.T) {
	dst := make([]byte, 64)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)

	name, age, active := "Alice", uint32(30), true
	require.NoError(t, cbor.EncodeRecord(e, []cbor.RecordField{
		{Name: "name", Encode: func(e *cbor.Encoder) error { return e.EncodeText(name) }},
		{Name: "age", Encode: func(e *cbor.Encoder) error { return e.EncodeUint32(age) }},
		{Name: "active", Encode: func(e *cbor.Encoder) error { return e.EncodeBool(active) }},
	}))

	expect := []byte{
		0xA3,
		0x64, 0x6E, 0x61, 0x6D, 0x65, 0x65, 0x41, 0x6C, 0x69, 0x63, 0x65,
		0x63, 0x61, 0x67, 0x65, 0x18, 0x1E,
		0x66, 0x61, 0x63, 0x74, 0x69, 0x76, 0x65, 0xF5,
	}
	assert.Equal(t, expect, w.Written())

	var gotName string
	var gotAge uint32
	var gotActive bool
	d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
	require.NoError(t, cbor.DecodeRecord(d, []cbor.FieldSpec{
		{Name: "name", Decode: func(d *cbor.Decoder) error {
			v, err := d.DecodeText()
			gotName = v
			return err
		}},
		{Name: "age", Decode: func(d *cbor.Decoder) error {
			v, err := d.DecodeUint32()
			gotAge = v
			return err
		}},
		{Name: "active", Decode: func(d *cbor.Decoder) error {
			v, err := d.DecodeBool()
			gotActive = v
			return err
		}},
	}))
	assert.Equal(t, "Alice", gotName)
	assert.Equal(t, uint32(30), gotAge)
	assert.True(t, gotActive)
}

func TestExtractFieldWithoutMaterializingOthers(t *testing.T) {
	encoded := []byte{
		0xA3,
		0x64, 0x6E, 0x61, 0x6D, 0x65, 0x65, 0x41, 0x6C, 0x69, 0x63, 0x65,
		0x63, 0x61, 0x67, 0x65, 0x18, 0x1E,
		0x66, 0x61, 0x63, 0x74, 0x69, 0x76, 0x65, 0xF5,
	}
	d := cbor.NewDecoder(bytestream.NewBufferReader(encoded), nil)

	var age uint32
	found, err := d.ExtractField("age", func(d *cbor.Decoder) error {
		v, err := d.DecodeUint32()
		age = v
		return err
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint32(30), age)

	// Idempotent: repeating the extraction (or extracting a different
	// field) against the same starting position works identically.
	var age2 uint32
	found2, err := d.ExtractField("age", func(d *cbor.Decoder) error {
		v, err := d.DecodeUint32()
		age2 = v
		return err
	})
	require.NoError(t, err)
	assert.True(t, found2)
	assert.Equal(t, age, age2)

	found3, err := d.ExtractField("missing", func(d *cbor.Decoder) error { return nil })
	require.NoError(t, err)
	assert.False(t, found3)
}

func TestMissingRequiredFieldFails(t *testing.T) {
	dst := make([]byte, 32)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)
	require.NoError(t, cbor.EncodeRecord(e, []cbor.RecordField{
		{Name: "age", Encode: func(e *cbor.Encoder) error { return e.EncodeUint32(30) }},
	}))

	d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
	err := cbor.DecodeRecord(d, []cbor.FieldSpec{
		{Name: "name", Decode: func(d *cbor.Decoder) error { _, err := d.DecodeText(); return err }},
		{Name: "age", Decode: func(d *cbor.Decoder) error { _, err := d.DecodeUint32(); return err }},
	})
	require.Error(t, err)
	kind, _ := errs.Of(err)
	assert.Equal(t, errs.MissingRequiredField, kind)
}

func TestOptionalFieldAllowedMissing(t *testing.T) {
	dst := make([]byte, 32)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)
	require.NoError(t, cbor.EncodeRecord(e, []cbor.RecordField{
		{Name: "age", Encode: func(e *cbor.Encoder) error { return e.EncodeUint32(30) }},
	}))

	d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
	err := cbor.DecodeRecord(d, []cbor.FieldSpec{
		{Name: "nickname", Optional: true, Decode: func(d *cbor.Decoder) error { _, err := d.DecodeText(); return err }},
		{Name: "age", Decode: func(d *cbor.Decoder) error { _, err := d.DecodeUint32(); return err }},
	})
	require.NoError(t, err)
}

func TestSkipInvariantLeavesPositionAtEnd(t *testing.T) {
	dst := make([]byte, 64)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)
	require.NoError(t, cbor.EncodeRecord(e, []cbor.RecordField{
		{Name: "name", Encode: func(e *cbor.Encoder) error { return e.EncodeText("Alice") }},
		{Name: "age", Encode: func(e *cbor.Encoder) error { return e.EncodeUint32(30) }},
	}))
	encoded := w.Written()

	r := bytestream.NewBufferReader(encoded)
	d := cbor.NewDecoder(r, nil)
	require.NoError(t, d.Skip())
	assert.Equal(t, len(encoded), r.Pos())
}

func TestSkipHandlesIndefiniteNesting(t *testing.T) {
	// Indefinite array [1, 2, 3]: 9F 01 02 03 FF, followed by a trailing marker byte.
	encoded := []byte{0x9F, 0x01, 0x02, 0x03, 0xFF, 0xAA}
	r := bytestream.NewBufferReader(encoded)
	d := cbor.NewDecoder(r, nil)
	require.NoError(t, d.Skip())
	assert.Equal(t, 5, r.Pos())
}

func TestIndefiniteArrayDisabledOnDecodeFailsExplicitly(t *testing.T) {
	// Scenario 7: decoding 9F 01 02 03 FF with enable_indefinite_length=false fails.
	cfg, err := cbor.NewConfig(cbor.WithIndefiniteLength(false))
	require.NoError(t, err)
	d := cbor.NewDecoder(bytestream.NewBufferReader([]byte{0x9F, 0x01, 0x02, 0x03, 0xFF}), cfg)
	_, err = cbor.DecodeSlice(d, func(d *cbor.Decoder) (uint32, error) { return d.DecodeUint32() })
	require.Error(t, err)
	kind, _ := errs.Of(err)
	assert.Equal(t, errs.InvalidIndefiniteLength, kind)
}

func TestDepthLimit(t *testing.T) {
	cfg, err := cbor.NewConfig(cbor.WithMaxDepth(2))
	require.NoError(t, err)

	dst := make([]byte, 64)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, cfg)

	encodeNested := func(depth int) error {
		var rec func(int) error
		rec = func(d int) error {
			if d == 0 {
				return e.EncodeUint8(1)
			}
			return cbor.EncodeSlice(e, []int{0}, func(e *cbor.Encoder, _ int) error {
				return rec(d - 1)
			})
		}
		return rec(depth)
	}

	require.NoError(t, encodeNested(2))

	dst2 := make([]byte, 64)
	w2 := bytestream.NewBufferWriter(dst2)
	e2 := cbor.NewEncoder(w2, cfg)
	var rec2 func(int) error
	rec2 = func(d int) error {
		if d == 0 {
			return e2.EncodeUint8(1)
		}
		return cbor.EncodeSlice(e2, []int{0}, func(e *cbor.Encoder, _ int) error {
			return rec2(d - 1)
		})
	}
	err = rec2(3)
	require.Error(t, err)
	kind, _ := errs.Of(err)
	assert.Equal(t, errs.DepthExceeded, kind)
}

func TestTruncatedArgumentUnderflow(t *testing.T) {
	// Scenario 8: decoding 18 (argument-class 24, no follower byte) fails with BufferUnderflow.
	r := bytestream.NewBufferReader([]byte{0x18})
	d := cbor.NewDecoder(r, nil)
	_, err := d.DecodeUint8()
	require.Error(t, err)
	kind, _ := errs.Of(err)
	assert.Equal(t, errs.BufferUnderflow, kind)
}

func TestStreamDecodeBytesSurvivesLaterRefill(t *testing.T) {
	// Byte string header for length 2, followed by payload "ab", then a
	// second item whose decode forces a refill/compact of the same
	// underlying buffer.
	encoded := []byte{0x42, 'a', 'b', 0x01}
	sr := bytestream.NewStreamReader(bytesReader(encoded), 2)
	d := cbor.NewDecoder(sr, nil)

	got, err := d.DecodeBytes()
	require.NoError(t, err)
	before := append([]byte(nil), got...)

	_, err = d.DecodeUint8()
	require.NoError(t, err)

	assert.Equal(t, before, got, "byte-string payload must not be corrupted by a later refill")
	assert.Equal(t, []byte("ab"), got)
}

func TestSkipHandlesOneByteSimpleValue(t *testing.T) {
	// MT 7, AI 24 (one-byte simple value, e.g. 32), followed by a marker byte.
	encoded := []byte{0xF8, 0x20, 0xAA}
	r := bytestream.NewBufferReader(encoded)
	d := cbor.NewDecoder(r, nil)
	require.NoError(t, d.Skip())
	assert.Equal(t, 2, r.Pos())
}

func TestSkipRejectsStrayBreakMarker(t *testing.T) {
	r := bytestream.NewBufferReader([]byte{0xFF})
	d := cbor.NewDecoder(r, nil)
	err := d.Skip()
	require.Error(t, err)
	kind, _ := errs.Of(err)
	assert.Equal(t, errs.InvalidBreakCode, kind)
}

func TestStreamDecodeTextCopiesThroughRefill(t *testing.T) {
	encoded := []byte{0x65, 0x68, 0x65, 0x6C, 0x6C, 0x6F}
	sr := bytestream.NewStreamReader(bytesReader(encoded), 2)
	d := cbor.NewDecoder(sr, nil)
	s, err := d.DecodeText()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

type bytesReaderT struct {
	data []byte
	pos  int
}

func bytesReader(data []byte) *bytesReaderT { return &bytesReaderT{data: data} }

func (r *bytesReaderT) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
