// Package gestage provides the gestational age value type.
//
// Gestational age is the time elapsed since the first day of the last
// menstrual period, expressed as completed weeks plus additional days (0-6),
// e.g. 20w6d. Values are immutable once constructed.
package gestage

import (
	"fmt"
	"math"
)

// daysPerWeek converts fractional weeks to days.
const daysPerWeek = 7

// Age holds a gestational age as completed weeks and remaining days.
type Age struct {
	weeks int
	days  int
}

// New constructs an Age from completed weeks and additional days.
// Days must be in [0, 6] and weeks non-negative.
func New(weeks, days int) (Age, error) {
	if weeks < 0 {
		return Age{}, fmt.Errorf("gestational weeks must be non-negative, got %d", weeks)
	}
	if days < 0 || days > daysPerWeek-1 {
		return Age{}, fmt.Errorf("gestational days must be in [0,6], got %d", days)
	}
	return Age{weeks: weeks, days: days}, nil
}

// FromWeeks constructs an Age from a possibly fractional week count.
// The fractional part is converted to whole days, truncating any
// sub-day remainder: 20.86 weeks becomes 20w6d.
func FromWeeks(weeks float64) (Age, error) {
	if weeks < 0 || math.IsNaN(weeks) || math.IsInf(weeks, 0) {
		return Age{}, fmt.Errorf("gestational weeks must be a non-negative number, got %v", weeks)
	}
	w := math.Floor(weeks)
	d := int((weeks - w) * daysPerWeek)
	return Age{weeks: int(w), days: d}, nil
}

// Weeks returns the number of completed weeks.
func (a Age) Weeks() int { return a.weeks }

// Days returns the additional days beyond completed weeks (0-6).
func (a Age) Days() int { return a.days }

// TotalWeeks returns the age as fractional weeks, e.g. 20w6d -> 20.857...
func (a Age) TotalWeeks() float64 {
	return float64(a.weeks) + float64(a.days)/daysPerWeek
}

// String formats the age in the clinical WwDd convention, e.g. "20w6d".
func (a Age) String() string {
	return fmt.Sprintf("%dw%dd", a.weeks, a.days)
}
