// Package options implements a small generic functional-options pattern,
// adapted from the same idiom arloliu/mebo uses internally
// (internal/options) to configure its encoders. Config (in the cbor
// package) is the only consumer today, but the pattern is generic over any
// target type so it is not tied to Config's shape.
package options

// Option configures a value of type T. Apply runs the option's function
// against the target; a non-nil error aborts the remaining options.
type Option[T any] func(T) error

// Apply runs every option against target in order, stopping at the first
// error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(target); err != nil {
			return err
		}
	}
	return nil
}
