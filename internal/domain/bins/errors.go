package bins

import "errors"

// Sentinel kinds for bin classification errors.
var (
	// ErrBadThresholds indicates a threshold vector with the wrong arity
	// or out-of-order values.
	ErrBadThresholds = errors.New("bad thresholds")
)
