// Package bins partitions the percentile axis into the eight canonical
// clinical bins used for fetal biometry interpretation.
//
// The partition is fixed at the seven standard cut points {3, 5, 10, 50,
// 90, 95, 97}. Every interval is lower-inclusive and upper-exclusive;
// Below3P has no lower bound and Above97P no upper bound, so a percentile
// of exactly 97 classifies as Above97P and exactly 3 as Between3P5P. The
// same rule applies to both classification entry points.
package bins

import (
	"fmt"
	"strings"
)

// Bin is one of the eight canonical percentile intervals.
type Bin int

// Canonical bins, in ascending percentile order.
const (
	Below3P Bin = iota
	Between3P5P
	Between5P10P
	Between10P50P
	Between50P90P
	Between90P95P
	Between95P97P
	Above97P
)

// CutPointCount is the number of standard percentile cut points.
const CutPointCount = 7

// CutPoints are the standard percentile boundaries, ascending.
var CutPoints = [CutPointCount]float64{3, 5, 10, 50, 90, 95, 97}

var binKeys = [...]string{
	"below_3p",
	"between_3p_5p",
	"between_5p_10p",
	"between_10p_50p",
	"between_50p_90p",
	"between_90p_95p",
	"between_95p_97p",
	"above_97p",
}

// All returns the eight bins in ascending order.
func All() []Bin {
	return []Bin{
		Below3P,
		Between3P5P,
		Between5P10P,
		Between10P50P,
		Between50P90P,
		Between90P95P,
		Between95P97P,
		Above97P,
	}
}

// Key returns the canonical string label, e.g. "between_10p_50p".
func (b Bin) Key() string {
	if b < 0 || int(b) >= len(binKeys) {
		return fmt.Sprintf("bin(%d)", int(b))
	}
	return binKeys[b]
}

func (b Bin) String() string { return b.Key() }

// Normal reports whether the bin lies in the default normal range
// (10th to 90th percentile).
func (b Bin) Normal() bool {
	return b == Between10P50P || b == Between50P90P
}

// Parse resolves a bin from its canonical string label.
func Parse(s string) (Bin, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for i, k := range binKeys {
		if k == needle {
			return Bin(i), nil
		}
	}
	return 0, fmt.Errorf("unknown percentile bin: %q", s)
}

// ClassifyPercentile maps a percentile to its bin: p < 3 is Below3P,
// 3 <= p < 5 is Between3P5P, and so on up to p >= 97 which is Above97P.
func ClassifyPercentile(p float64) Bin {
	for i, cut := range CutPoints {
		if p < cut {
			return Bin(i)
		}
	}
	return Above97P
}

// ClassifyThresholds maps a raw value to its bin given the row's seven
// percentile threshold values in ascending cut-point order. The boundary
// rule matches ClassifyPercentile: a value equal to a threshold belongs
// to the interval starting at that threshold.
func ClassifyThresholds(thresholds []float64, value float64) (Bin, error) {
	if len(thresholds) != CutPointCount {
		return 0, fmt.Errorf("%w: expected %d values, got %d", ErrBadThresholds, CutPointCount, len(thresholds))
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] < thresholds[i-1] {
			return 0, fmt.Errorf("%w: not non-decreasing at t[%d]=%v < t[%d]=%v",
				ErrBadThresholds, i, thresholds[i], i-1, thresholds[i-1])
		}
	}
	for i, t := range thresholds {
		if value < t {
			return Bin(i), nil
		}
	}
	return Above97P, nil
}
