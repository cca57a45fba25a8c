// Package cbor implements a deterministic-subset CBOR (RFC 8949) codec:
// a type-directed encoder/decoder driven at call time by the shape of the
// value being encoded or decoded, built on top of the bytestream and head
// packages.
//
// # Substrates
//
// An Encoder writes to any bytestream.Writer (a fixed buffer via
// bytestream.NewBufferWriter, or an io.Writer via
// bytestream.NewStreamWriter); a Decoder reads from any bytestream.Reader
// the same way. Every shape-specific method works identically over
// either substrate except where zero-copy behavior differs, which is
// documented per method.
//
// # Scope
//
// This package omits CBOR major type 6 (tag) on encode entirely and only
// skips it on decode (see Decoder.Skip); it does not reorder map keys
// into canonical order, does not shrink floats to a narrower width on
// encode, and only supports UTF-8 text keys for records, never arbitrary
// map key types.
package cbor
