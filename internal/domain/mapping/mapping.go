// Package mapping loads the declarative configuration that ties each
// measurement type's eight percentile bins to ontology terms.
//
// A measurement's mapping must cover all eight bins; a bin may map to an
// explicit null, meaning no known phenotype for that interval. Mappings are
// loaded once at startup and are immutable afterwards.
package mapping

import (
	"github.com/okian/fetalbio/internal/domain/bins"
	"github.com/okian/fetalbio/internal/domain/model"
	"github.com/okian/fetalbio/internal/domain/types"
)

// TermBin ties one percentile bin to an ontology term and a normality flag.
// A nil Term with Normal=false means the bin has no known phenotype.
type TermBin struct {
	Bin    bins.Bin
	Term   *model.Term
	Normal bool
}

// MeasurementMapping is the complete bin mapping for one measurement type.
// Parent, when set, names the measurement-level abnormality term used for
// excluded findings and for abnormal bins without a specific term.
type MeasurementMapping struct {
	Parent *model.Term
	Bins   map[bins.Bin]TermBin
}

// Resolve returns the TermBin for a bin. The loader guarantees all eight
// bins are present, so a miss only happens on a zero-value mapping.
func (m MeasurementMapping) Resolve(b bins.Bin) (TermBin, bool) {
	tb, ok := m.Bins[b]
	return tb, ok
}

// Mapping holds the bin mappings for every configured measurement type.
type Mapping map[types.Measurement]MeasurementMapping

// Lookup returns the mapping for a measurement type.
func (m Mapping) Lookup(mt types.Measurement) (MeasurementMapping, bool) {
	mm, ok := m[mt]
	return mm, ok
}

// Measurements returns the configured measurement types.
func (m Mapping) Measurements() []types.Measurement {
	out := make([]types.Measurement, 0, len(m))
	for mt := range m {
		out = append(out, mt)
	}
	return out
}
