package reference

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/fetalbio/internal/domain/gestage"
	"github.com/okian/fetalbio/internal/domain/interp"
	"github.com/okian/fetalbio/internal/domain/types"
)

// table is a parsed TSV file: normalized headers plus raw cells.
type table struct {
	gaCol      int
	measureCol int            // -1 when absent
	pctCols    []rankedColumn // ascending cut-point order
	zsCols     []rankedColumn // ascending SD order
	records    [][]string
}

type rankedColumn struct {
	index int
	label string
	rank  float64
}

// loadIntergrowth reads the per-measurement centile and z-score files.
// A measurement whose centile file is absent is skipped.
func (s *Store) loadIntergrowth(fsys fs.FS) error {
	for _, m := range types.Canonical() {
		ctName := fmt.Sprintf("intergrowth21_%s_ct.tsv", m.Short())
		zsName := fmt.Sprintf("intergrowth21_%s_zs.tsv", m.Short())
		if !fileExists(fsys, ctName) {
			continue
		}
		ct, err := parseTSV(fsys, ctName)
		if err != nil {
			return err
		}

		// z-scores are optional; merge them by GA key when present.
		zsByGA := map[string][]interp.Pair{}
		if fileExists(fsys, zsName) {
			zs, err := parseTSV(fsys, zsName)
			if err != nil {
				return err
			}
			for _, rec := range zs.records {
				ga, pairs, err := zs.rowPairs(rec, zs.zsCols)
				if err != nil {
					return fmt.Errorf("%w: %s: %v", ErrMalformedTable, zsName, err)
				}
				zsByGA[s.gaKey(ga)] = pairs
			}
		}

		for _, rec := range ct.records {
			ga, pairs, err := ct.rowPairs(rec, ct.pctCols)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMalformedTable, ctName, err)
			}
			age, err := gestage.FromWeeks(ga)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMalformedTable, ctName, err)
			}
			row := Row{Age: age, Percentiles: pairs, ZScores: zsByGA[s.gaKey(ga)]}
			if err := s.insertRow(m, ga, row); err != nil {
				return err
			}
		}
	}
	return nil
}

// nichdTableName is the single master table shipped by the NICHD standard.
const nichdTableName = "nichd_fetal_growth_percentiles.tsv"

// loadNICHD reads the master table and splits it by the Measure column.
func (s *Store) loadNICHD(fsys fs.FS) error {
	if !fileExists(fsys, nichdTableName) {
		// Absence of the whole source is tolerated the same way a missing
		// per-measurement file is: the store stays empty.
		return nil
	}
	t, err := parseTSV(fsys, nichdTableName)
	if err != nil {
		return err
	}
	if t.measureCol < 0 {
		return fmt.Errorf("%w: %s: no Measure column", ErrMalformedTable, nichdTableName)
	}

	for _, rec := range t.records {
		m, err := types.ParseMeasurement(rec[t.measureCol])
		if err != nil {
			// Rows for measures outside the canonical set are skipped.
			continue
		}
		ga, pairs, err := t.rowPairs(rec, t.pctCols)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedTable, nichdTableName, err)
		}
		age, err := gestage.FromWeeks(ga)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedTable, nichdTableName, err)
		}
		if err := s.insertRow(m, ga, Row{Age: age, Percentiles: pairs}); err != nil {
			return err
		}
	}
	return nil
}

// parseTSV reads a tab-separated file and classifies its header columns.
func parseTSV(fsys fs.FS, name string) (*table, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedTable, name, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s: no data rows", ErrMalformedTable, name)
	}

	t := &table{gaCol: -1, measureCol: -1, records: records[1:]}
	for i, header := range records[0] {
		kind, label, rank := normalizeColumn(header)
		switch kind {
		case columnGA:
			t.gaCol = i
		case columnMeasure:
			t.measureCol = i
		case columnPercentile:
			t.pctCols = append(t.pctCols, rankedColumn{index: i, label: label, rank: rank})
		case columnZScore:
			t.zsCols = append(t.zsCols, rankedColumn{index: i, label: label, rank: rank})
		case columnUnknown:
			// Provenance and footnote columns are ignored.
		}
	}
	if t.gaCol < 0 {
		return nil, fmt.Errorf("%w: %s: no gestational age column", ErrMalformedTable, name)
	}
	sort.Slice(t.pctCols, func(i, j int) bool { return t.pctCols[i].rank < t.pctCols[j].rank })
	sort.Slice(t.zsCols, func(i, j int) bool { return t.zsCols[i].rank < t.zsCols[j].rank })
	return t, nil
}

// rowPairs extracts the GA value and the labeled threshold pairs of one record.
func (t *table) rowPairs(rec []string, cols []rankedColumn) (float64, []interp.Pair, error) {
	ga, err := parseCell(rec, t.gaCol)
	if err != nil {
		return 0, nil, fmt.Errorf("gestational age: %v", err)
	}
	pairs := make([]interp.Pair, 0, len(cols))
	for _, col := range cols {
		v, err := parseCell(rec, col.index)
		if err != nil {
			return 0, nil, fmt.Errorf("column %q: %v", col.label, err)
		}
		pairs = append(pairs, interp.Pair{Label: col.label, Value: v})
	}
	return ga, pairs, nil
}

func parseCell(rec []string, idx int) (float64, error) {
	if idx >= len(rec) {
		return 0, fmt.Errorf("missing cell %d", idx)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", rec[idx])
	}
	return v, nil
}
