// Package model contains domain models passed between layers.
package model

import (
	"fmt"

	"github.com/okian/fetalbio/internal/domain/bins"
	"github.com/okian/fetalbio/internal/domain/gestage"
	"github.com/okian/fetalbio/internal/domain/types"
)

// Generic parent used when a feature must be emitted without a resolved term.
const (
	GenericAbnormalityID    = "HP:0000118"
	GenericAbnormalityLabel = "Phenotypic abnormality"
)

// Measurement is a single raw biometric observation submitted for
// classification. ID is a caller-side identifier used only for batch
// result reporting.
type Measurement struct {
	ID      string
	Type    types.Measurement
	Age     gestage.Age
	ValueMM float64
}

// Term is an opaque ontology identifier plus label, e.g.
// {HP:0000252, Microcephaly}. The engine never inspects term hierarchies.
type Term struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// TermObservation is the interpreted result of one classification call:
// the resolved ontology term, whether the phenotype is asserted present,
// and the numeric provenance. Created once per call and never mutated.
type TermObservation struct {
	Term       *Term
	Observed   bool
	Age        gestage.Age
	Bin        bins.Bin
	Percentile *float64
	ZScore     *float64
}

// PhenotypicFeature is the export shape consumed downstream:
// excluded is the inverse of observed.
type PhenotypicFeature struct {
	Type        *Term    `json:"type,omitempty"`
	Excluded    bool     `json:"excluded"`
	Description string   `json:"description"`
	Percentile  *float64 `json:"percentile,omitempty"`
}

// Feature serializes the observation for export. Observations without a
// resolved term fall back to the generic phenotypic abnormality parent so
// the record always carries a type.
func (o TermObservation) Feature() PhenotypicFeature {
	f := PhenotypicFeature{
		Excluded:    !o.Observed,
		Description: fmt.Sprintf("Measurement at %s gestation", o.Age),
		Percentile:  o.Percentile,
	}
	if o.Term != nil {
		t := *o.Term
		f.Type = &t
	} else {
		f.Type = &Term{ID: GenericAbnormalityID, Label: GenericAbnormalityLabel}
	}
	if !o.Observed {
		f.Description = fmt.Sprintf("Measurement within normal range for gestational age (%s)", o.Age)
	}
	return f
}
