package mapping

import (
	"github.com/okian/fetalbio/internal/domain/bins"
	"github.com/okian/fetalbio/internal/domain/model"
)

// StandardTerms is the compact six-term form of a measurement mapping.
// Any field may be nil, meaning no known phenotype for the bins it covers.
type StandardTerms struct {
	LowerExtreme *model.Term // below 3rd percentile
	Lower        *model.Term // 3rd to 5th
	Abnormal     *model.Term // 5th to 10th and 90th to 95th
	Normal       *model.Term // 10th to 90th
	Upper        *model.Term // 95th to 97th
	UpperExtreme *model.Term // above 97th
}

// ExpandStandard expands the six semantic terms into the canonical
// eight-bin mapping: the abnormal term covers both moderate tails and the
// normal term both central bins.
func ExpandStandard(terms StandardTerms) map[bins.Bin]TermBin {
	assign := func(b bins.Bin, t *model.Term, normal bool) TermBin {
		return TermBin{Bin: b, Term: t, Normal: normal}
	}
	return map[bins.Bin]TermBin{
		bins.Below3P:       assign(bins.Below3P, terms.LowerExtreme, false),
		bins.Between3P5P:   assign(bins.Between3P5P, terms.Lower, false),
		bins.Between5P10P:  assign(bins.Between5P10P, terms.Abnormal, false),
		bins.Between10P50P: assign(bins.Between10P50P, terms.Normal, true),
		bins.Between50P90P: assign(bins.Between50P90P, terms.Normal, true),
		bins.Between90P95P: assign(bins.Between90P95P, terms.Abnormal, false),
		bins.Between95P97P: assign(bins.Between95P97P, terms.Upper, false),
		bins.Above97P:      assign(bins.Above97P, terms.UpperExtreme, false),
	}
}
