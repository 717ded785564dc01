// Package types contains common types used across the application.
package types

import (
	"fmt"
	"strings"
)

// Measurement identifies a fetal biometric measurement type.
//
// The set is a fixed enumeration with a static alias table rather than a
// runtime registry: every supported measurement is known at compile time.
type Measurement int

// Supported measurement types.
const (
	HeadCircumference Measurement = iota
	BiparietalDiameter
	AbdominalCircumference
	FemurLength
	OccipitofrontalDiameter
	EstimatedFetalWeight
)

// measurementMeta holds the static per-measurement naming metadata.
type measurementMeta struct {
	key   string // canonical snake_case key used in configs and APIs
	label string // human-readable label used by reference table headers
	short string // short code used in reference table file names
}

var measurementTable = map[Measurement]measurementMeta{
	HeadCircumference:       {key: "head_circumference", label: "Head Circumference", short: "hc"},
	BiparietalDiameter:      {key: "biparietal_diameter", label: "Biparietal Diameter", short: "bpd"},
	AbdominalCircumference:  {key: "abdominal_circumference", label: "Abdominal Circumference", short: "ac"},
	FemurLength:             {key: "femur_length", label: "Femur Length", short: "fl"},
	OccipitofrontalDiameter: {key: "occipitofrontal_diameter", label: "Occipito-Frontal Diameter", short: "ofd"},
	EstimatedFetalWeight:    {key: "estimated_fetal_weight", label: "Estimated Fetal Weight", short: "efw"},
}

// Canonical returns the measurement types covered by the growth reference
// standards. Estimated fetal weight is recognized as an input alias but has
// no percentile reference table.
func Canonical() []Measurement {
	return []Measurement{
		HeadCircumference,
		BiparietalDiameter,
		AbdominalCircumference,
		FemurLength,
		OccipitofrontalDiameter,
	}
}

// InReferenceSet reports whether the measurement has percentile reference
// tables in the growth standards.
func (m Measurement) InReferenceSet() bool {
	return m != EstimatedFetalWeight
}

// Key returns the canonical snake_case identifier, e.g. "head_circumference".
func (m Measurement) Key() string {
	return measurementTable[m].key
}

// Label returns the human-readable label, e.g. "Head Circumference".
func (m Measurement) Label() string {
	return measurementTable[m].label
}

// Short returns the short code used in reference file names, e.g. "hc".
func (m Measurement) Short() string {
	return measurementTable[m].short
}

func (m Measurement) String() string {
	return m.Key()
}

// ParseMeasurement resolves a measurement type from its canonical key, label,
// or short code, case-insensitively.
func ParseMeasurement(s string) (Measurement, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for m, meta := range measurementTable {
		if needle == meta.key || needle == meta.short || needle == strings.ToLower(meta.label) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown measurement type: %q", s)
}

// Source identifies a growth reference standard.
type Source int

// Supported reference sources.
const (
	// Intergrowth is the INTERGROWTH-21st international standard.
	// Tables are keyed by fractional gestational weeks (one decimal).
	Intergrowth Source = iota

	// NICHD is the NICHD fetal growth study standard.
	// Tables are keyed by whole gestational weeks.
	NICHD
)

// Key returns the canonical lower-case source identifier.
func (s Source) Key() string {
	switch s {
	case NICHD:
		return "nichd"
	default:
		return "intergrowth"
	}
}

func (s Source) String() string {
	return s.Key()
}

// ParseSource resolves a reference source from its identifier.
func ParseSource(v string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "intergrowth", "intergrowth-21st", "intergrowth21":
		return Intergrowth, nil
	case "nichd", "nihcd":
		return NICHD, nil
	}
	return 0, fmt.Errorf("unsupported reference source: %q", v)
}
