// Package reference loads and serves the fetal growth reference tables.
//
// A Store is built once per source (INTERGROWTH-21st or NICHD) and is
// immutable afterwards: lookups are read-only map scans, safe for
// concurrent use without locking. Tables arrive as normalized TSV files;
// heterogeneous column headers are canonicalized at load time so the rest
// of the pipeline is source-agnostic.
package reference

import (
	"fmt"
	"io/fs"
	"math"
	"strconv"

	"github.com/okian/fetalbio/internal/domain/bins"
	"github.com/okian/fetalbio/internal/domain/gestage"
	"github.com/okian/fetalbio/internal/domain/interp"
	"github.com/okian/fetalbio/internal/domain/types"
	"github.com/okian/fetalbio/pkg/metrics"
)

// Row is one gestational-age row of a reference table: the seven labeled
// percentile thresholds and, when the source ships them, z-score columns.
type Row struct {
	Age         gestage.Age
	Percentiles []interp.Pair // ascending cut-point order: 3rd .. 97th
	ZScores     []interp.Pair // ascending SD order, empty when unavailable
}

// Thresholds returns the percentile threshold values in cut-point order,
// as consumed by bins.ClassifyThresholds.
func (r Row) Thresholds() []float64 {
	out := make([]float64, len(r.Percentiles))
	for i, p := range r.Percentiles {
		out[i] = p.Value
	}
	return out
}

// Store holds the loaded tables for one source, keyed by measurement type
// and gestational age.
type Store struct {
	source types.Source
	tables map[types.Measurement]map[string]Row
}

// New loads all available per-measurement tables for the source. A missing
// per-measurement table is tolerated: that measurement simply has no rows
// and lookups against it return ErrNoReferenceData. An unreadable or
// malformed table aborts construction.
func New(source types.Source, opts ...Option) (*Store, error) {
	o := options{fsys: defaultFS(source)}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		source: source,
		tables: make(map[types.Measurement]map[string]Row),
	}

	var err error
	if source == types.NICHD {
		err = s.loadNICHD(o.fsys)
	} else {
		err = s.loadIntergrowth(o.fsys)
	}
	if err != nil {
		return nil, err
	}

	rows := 0
	for _, t := range s.tables {
		rows += len(t)
	}
	metrics.UpdateReferenceRows(source.Key(), rows)
	return s, nil
}

// Source returns the store's reference standard.
func (s *Store) Source() types.Source { return s.source }

// Measurements returns the measurement types with at least one loaded row.
func (s *Store) Measurements() []types.Measurement {
	out := make([]types.Measurement, 0, len(s.tables))
	for m := range s.tables {
		out = append(out, m)
	}
	return out
}

// Lookup returns the reference row for the measurement at the gestational
// age. The match is exact on the source's GA key: whole weeks for NICHD,
// fractional weeks rounded to one decimal for INTERGROWTH-21st. No
// interpolation happens between GA rows.
func (s *Store) Lookup(m types.Measurement, age gestage.Age) (Row, error) {
	if !m.InReferenceSet() {
		return Row{}, fmt.Errorf("%w: %s", ErrUnsupportedMeasurement, m)
	}
	table, ok := s.tables[m]
	if !ok {
		return Row{}, fmt.Errorf("%w: no %s table for %s", ErrNoReferenceData, s.source, m)
	}
	row, ok := table[s.gaKey(age.TotalWeeks())]
	if !ok {
		return Row{}, fmt.Errorf("%w: %s has no %s row at %s", ErrNoReferenceData, s.source, m, age)
	}
	return row, nil
}

// gaKey renders the lookup key for a gestational age in weeks.
func (s *Store) gaKey(weeks float64) string {
	if s.source == types.NICHD {
		return strconv.Itoa(int(math.Floor(weeks)))
	}
	return strconv.FormatFloat(math.Round(weeks*10)/10, 'f', 1, 64)
}

// insertRow validates monotonicity and stores a parsed row.
func (s *Store) insertRow(m types.Measurement, gaWeeks float64, row Row) error {
	if len(row.Percentiles) != bins.CutPointCount {
		return fmt.Errorf("%w: %s at GA %.1f: expected %d percentile columns, got %d",
			ErrMalformedTable, m, gaWeeks, bins.CutPointCount, len(row.Percentiles))
	}
	for i := 1; i < len(row.Percentiles); i++ {
		if row.Percentiles[i].Value < row.Percentiles[i-1].Value {
			return fmt.Errorf("%w: %s at GA %.1f: thresholds not monotonic (%s=%v > %s=%v)",
				ErrMalformedTable, m, gaWeeks,
				row.Percentiles[i-1].Label, row.Percentiles[i-1].Value,
				row.Percentiles[i].Label, row.Percentiles[i].Value)
		}
	}
	if s.tables[m] == nil {
		s.tables[m] = make(map[string]Row)
	}
	s.tables[m][s.gaKey(gaWeeks)] = row
	return nil
}

// fileExists reports whether a table file is present in the source fs.
func fileExists(fsys fs.FS, name string) bool {
	if _, err := fs.Stat(fsys, name); err != nil {
		return false
	}
	return true
}
