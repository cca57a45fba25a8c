package cbor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cbor "github.com/thebagchi/cbor"
	"github.com/thebagchi/cbor/bytestream"
	"github.com/thebagchi/cbor/errs"
)

func TestFixedArrayWrongLengthFails(t *testing.T) {
	dst := make([]byte, 16)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)
	require.NoError(t, cbor.EncodeFixedArray(e, []uint8{1, 2, 3}, func(e *cbor.Encoder, v uint8) error {
		return e.EncodeUint8(v)
	}))

	d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
	_, err := cbor.DecodeFixedArray(d, 4, func(d *cbor.Decoder) (uint8, error) { return d.DecodeUint8() })
	require.Error(t, err)
	kind, _ := errs.Of(err)
	assert.Equal(t, errs.InvalidLength, kind)
}

func TestFixedArrayIndefiniteRoundTrip(t *testing.T) {
	dst := make([]byte, 16)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)
	require.NoError(t, cbor.EncodeIndefiniteSlice(e, []uint8{1, 2, 3}, func(e *cbor.Encoder, v uint8) error {
		return e.EncodeUint8(v)
	}))

	d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), nil)
	out, err := cbor.DecodeFixedArray(d, 3, func(d *cbor.Decoder) (uint8, error) { return d.DecodeUint8() })
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2, 3}, out)
}

func TestCollectionSizeLimitEnforced(t *testing.T) {
	cfg, err := cbor.NewConfig(cbor.WithMaxCollectionSize(2))
	require.NoError(t, err)

	dst := make([]byte, 16)
	w := bytestream.NewBufferWriter(dst)
	e := cbor.NewEncoder(w, nil)
	require.NoError(t, cbor.EncodeSlice(e, []uint8{1, 2, 3}, func(e *cbor.Encoder, v uint8) error {
		return e.EncodeUint8(v)
	}))

	d := cbor.NewDecoder(bytestream.NewBufferReader(w.Written()), cfg)
	_, err = cbor.DecodeSlice(d, func(d *cbor.Decoder) (uint8, error) { return d.DecodeUint8() })
	require.Error(t, err)
	kind, _ := errs.Of(err)
	assert.Equal(t, errs.InvalidLength, kind)
}
