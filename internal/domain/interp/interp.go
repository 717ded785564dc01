// Package interp converts an observed measurement value into a continuous
// percentile (or z-score) by linear interpolation against one reference row.
package interp

import (
	"fmt"
	"regexp"
	"sort"
)

// Pair couples a reference column label with its threshold value for one
// gestational-age row, e.g. {"50th Percentile", 161.95} or {"-2 SD", 147.1}.
type Pair struct {
	Label string
	Value float64
}

// signed integer, with or without an ordinal suffix or SD notation.
var labelNumberRe = regexp.MustCompile(`-?\d+`)

// ParseLabel extracts the numeric rank from a column label:
// "97th Percentile" -> 97, "3rd Percentile" -> 3, "-2 SD" -> -2.
func ParseLabel(label string) (float64, error) {
	m := labelNumberRe.FindString(label)
	if m == "" {
		return 0, fmt.Errorf("%w: no numeric value in label %q", ErrLabelParse, label)
	}
	var n float64
	if _, err := fmt.Sscanf(m, "%f", &n); err != nil {
		return 0, fmt.Errorf("%w: label %q: %v", ErrLabelParse, label, err)
	}
	return n, nil
}

// Interpolate returns the continuous rank for value against the row's
// labeled thresholds. Values at or below the lowest threshold clamp to the
// lowest label's rank; values at or above the highest clamp to the highest.
// In between, the rank is linearly interpolated between the bounding pair.
func Interpolate(pairs []Pair, value float64) (float64, error) {
	if len(pairs) < 2 {
		return 0, fmt.Errorf("%w: need at least two reference pairs, got %d", ErrInterpolation, len(pairs))
	}

	sorted := make([]Pair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })

	lowest, highest := sorted[0], sorted[len(sorted)-1]
	if value <= lowest.Value {
		return ParseLabel(lowest.Label)
	}
	if value >= highest.Value {
		return ParseLabel(highest.Label)
	}

	for i := 1; i < len(sorted); i++ {
		low, high := sorted[i-1], sorted[i]
		if value < low.Value || value > high.Value {
			continue
		}
		lowRank, err := ParseLabel(low.Label)
		if err != nil {
			return 0, err
		}
		highRank, err := ParseLabel(high.Label)
		if err != nil {
			return 0, err
		}
		if high.Value == low.Value {
			return lowRank, nil
		}
		frac := (value - low.Value) / (high.Value - low.Value)
		return lowRank + frac*(highRank-lowRank), nil
	}

	// Unreachable for sorted, totally ordered input; kept as an invariant check.
	return 0, fmt.Errorf("%w: no bounding pair for value %v", ErrInterpolation, value)
}
