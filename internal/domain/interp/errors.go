package interp

import "errors"

// Sentinel kinds for interpolation errors.
var (
	// ErrInterpolation indicates the bounding search failed; with a sorted,
	// totally ordered row this signals a data defect, not a user error.
	ErrInterpolation = errors.New("interpolation failed")

	// ErrLabelParse indicates a reference column label carried no numeric rank.
	ErrLabelParse = errors.New("label parse failed")
)
