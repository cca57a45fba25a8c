package cbor

import "github.com/thebagchi/cbor/options"

// Config bounds the resource usage of an Encoder or Decoder and toggles a
// handful of strictness knobs. A Config is immutable once built by
// NewConfig and may be shared read-only across independent Encoder/Decoder
// instances (it holds no mutable state of its own).
type Config struct {
	// MaxStringLength bounds the byte length of any text or byte string
	// accepted on decode or produced on encode.
	MaxStringLength uint64
	// MaxCollectionSize bounds the element count of any array or map.
	MaxCollectionSize uint64
	// MaxDepth bounds nested-item depth (arrays, maps, indefinite items).
	MaxDepth int
	// StreamBufferSize is the capacity of the refill/stage buffer used
	// when a stream substrate is attached.
	StreamBufferSize int
	// EnableIndefiniteLength, when false, makes the encoder refuse to
	// emit indefinite-length items and the decoder refuse to accept them.
	EnableIndefiniteLength bool
	// ValidateUTF8, when true, validates text string payloads on both
	// encode and decode.
	ValidateUTF8 bool
	// UseSIMD is advisory only: it has no semantic effect in this
	// implementation, but is retained on Config so callers
	// that flip it do not need a build that silently ignores the field.
	UseSIMD bool
	// AllowDuplicateKeys, when false, makes a repeated field key in a
	// decoded record fail with MalformedInput instead of letting the
	// later occurrence win.
	AllowDuplicateKeys bool
}

// Default limits. Chosen to be generous for hand-written protocol
// messages while still bounding resource usage against hostile input.
const (
	DefaultMaxStringLength   = 1 << 20 // 1 MiB
	DefaultMaxCollectionSize = 1 << 16 // 65536 elements
	DefaultMaxDepth          = 32
	DefaultStreamBufferSize  = 4096
)

// NewConfig builds a Config from its defaults plus the given options,
// applied in order.
func NewConfig(opts ...options.Option[*Config]) (*Config, error) {
	cfg := &Config{
		MaxStringLength:        DefaultMaxStringLength,
		MaxCollectionSize:      DefaultMaxCollectionSize,
		MaxDepth:               DefaultMaxDepth,
		StreamBufferSize:       DefaultStreamBufferSize,
		EnableIndefiniteLength: true,
		ValidateUTF8:           true,
		UseSIMD:                false,
		AllowDuplicateKeys:     true,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithMaxStringLength overrides MaxStringLength.
func WithMaxStringLength(n uint64) options.Option[*Config] {
	return func(c *Config) error { c.MaxStringLength = n; return nil }
}

// WithMaxCollectionSize overrides MaxCollectionSize.
func WithMaxCollectionSize(n uint64) options.Option[*Config] {
	return func(c *Config) error { c.MaxCollectionSize = n; return nil }
}

// WithMaxDepth overrides MaxDepth.
func WithMaxDepth(n int) options.Option[*Config] {
	return func(c *Config) error { c.MaxDepth = n; return nil }
}

// WithStreamBufferSize overrides StreamBufferSize.
func WithStreamBufferSize(n int) options.Option[*Config] {
	return func(c *Config) error { c.StreamBufferSize = n; return nil }
}

// WithIndefiniteLength enables or disables indefinite-length item support.
func WithIndefiniteLength(enabled bool) options.Option[*Config] {
	return func(c *Config) error { c.EnableIndefiniteLength = enabled; return nil }
}

// WithUTF8Validation enables or disables UTF-8 validation of text strings.
func WithUTF8Validation(enabled bool) options.Option[*Config] {
	return func(c *Config) error { c.ValidateUTF8 = enabled; return nil }
}

// WithSIMD sets the advisory UseSIMD flag.
func WithSIMD(enabled bool) options.Option[*Config] {
	return func(c *Config) error { c.UseSIMD = enabled; return nil }
}

// WithDuplicateKeys enables or disables tolerance of duplicate field keys
// in a decoded record.
func WithDuplicateKeys(allowed bool) options.Option[*Config] {
	return func(c *Config) error { c.AllowDuplicateKeys = allowed; return nil }
}
