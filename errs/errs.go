// Package errs defines the error taxonomy shared by every layer of the
// codec: the byte-level substrate, the head protocol, the type-directed
// encoder/decoder, and the structural walker.
//
// Every fallible operation in this module returns an *Error (or wraps one),
// never a bare string and never a panic. Callers compare against a Kind
// with errors.As, not by matching error text.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies which invariant of the wire format or configuration was
// violated. See the package-level table in the project specification for
// the full description of when each Kind is raised.
type Kind uint8

const (
	// Unknown is the zero value and is never intentionally returned.
	Unknown Kind = iota
	BufferOverflow
	BufferUnderflow
	IoError
	TypeMismatch
	InvalidLength
	InvalidAdditionalInfo
	InvalidFloat
	InvalidBool
	InvalidUtf8
	InvalidIndefiniteLength
	InvalidBreakCode
	MissingBreakMarker
	IntegerOverflow
	NegativeIntegerForUnsigned
	DepthExceeded
	MissingRequiredField
	UnsupportedValue
	MalformedInput
	OutOfMemory
)

var names = [...]string{
	Unknown:                    "unknown",
	BufferOverflow:             "buffer overflow",
	BufferUnderflow:            "buffer underflow",
	IoError:                    "io error",
	TypeMismatch:               "type mismatch",
	InvalidLength:              "invalid length",
	InvalidAdditionalInfo:      "invalid additional info",
	InvalidFloat:               "invalid float",
	InvalidBool:                "invalid bool",
	InvalidUtf8:                "invalid utf-8",
	InvalidIndefiniteLength:    "invalid indefinite length",
	InvalidBreakCode:           "invalid break code",
	MissingBreakMarker:         "missing break marker",
	IntegerOverflow:            "integer overflow",
	NegativeIntegerForUnsigned: "negative integer for unsigned",
	DepthExceeded:              "depth exceeded",
	MissingRequiredField:       "missing required field",
	UnsupportedValue:           "unsupported value",
	MalformedInput:             "malformed input",
	OutOfMemory:                "out of memory",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) < len(names) {
		return names[k]
	}
	return "invalid kind"
}

// Error is the concrete error type returned by every package in this
// module. It always carries a Kind and a human-readable message, and may
// wrap an underlying cause (for example an *Error of Kind IoError wraps
// the reader/writer's own error).
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// New creates an *Error of the given Kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error of the given Kind that wraps cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cbor: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("cbor: %s: %s", e.Kind, e.Msg)
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, errs.New(errs.BufferUnderflow, "")) style comparisons
// only need the Kind to match, not the message.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// Of reports the Kind of err if it is (or wraps) an *Error, and false
// otherwise.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return Unknown, false
}
