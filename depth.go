package cbor

import "github.com/thebagchi/cbor/errs"

// depthTracker is the shared bookkeeping spec.md §4.3 describes: every
// recursive entry into a composite shape (array, map, or indefinite item)
// increments a counter, every exit decrements it, and exceeding the
// configured maximum at entry fails with DepthExceeded. Encoder and
// Decoder each embed their own instance; the logic is shared, the state
// is not (each instance owns its own position per spec.md §5).
type depthTracker struct {
	depth int
	max   int
}

func newDepthTracker(max int) depthTracker {
	return depthTracker{max: max}
}

func (d *depthTracker) enter() error {
	d.depth++
	if d.depth > d.max {
		return errs.New(errs.DepthExceeded, "nesting depth %d exceeds configured maximum %d", d.depth, d.max)
	}
	return nil
}

func (d *depthTracker) exit() {
	d.depth--
}
