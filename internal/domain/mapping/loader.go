package mapping

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/okian/fetalbio/internal/domain/bins"
	"github.com/okian/fetalbio/internal/domain/model"
	"github.com/okian/fetalbio/internal/domain/types"
)

// Reserved keys inside a measurement's mapping document.
const (
	parentKey = "parent"
	termsKey  = "terms"
)

// compactKeys are the six semantic terms of the compact form, all required.
var compactKeys = []string{"lower_extreme", "lower", "abnormal", "normal", "upper", "upper_extreme"}

// Load reads a mapping document from a YAML file.
func Load(path string) (Mapping, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMappingFileNotFound, path)
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMapping, path, err)
	}
	return fromRaw(k.Raw())
}

// Parse builds a mapping from an in-memory YAML document.
func Parse(doc []byte) (Mapping, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(doc), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMapping, err)
	}
	return fromRaw(k.Raw())
}

// fromRaw converts the loaded document into a validated Mapping.
func fromRaw(raw map[string]interface{}) (Mapping, error) {
	out := make(Mapping, len(raw))
	for key, val := range raw {
		mt, err := types.ParseMeasurement(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMapping, err)
		}
		section, ok := val.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s: expected a mapping section", ErrMalformedMapping, key)
		}
		mm, err := parseSection(key, section)
		if err != nil {
			return nil, err
		}
		out[mt] = mm
	}
	return out, nil
}

func parseSection(name string, section map[string]interface{}) (MeasurementMapping, error) {
	mm := MeasurementMapping{}

	if p, ok := section[parentKey]; ok {
		term, _, err := parseTerm(name, parentKey, p)
		if err != nil {
			return mm, err
		}
		mm.Parent = term
	}

	if t, ok := section[termsKey]; ok {
		binsMap, err := parseCompact(name, t)
		if err != nil {
			return mm, err
		}
		mm.Bins = binsMap
		return mm, nil
	}

	binsMap := make(map[bins.Bin]TermBin, len(bins.All()))
	for key, val := range section {
		if key == parentKey {
			continue
		}
		b, err := bins.Parse(key)
		if err != nil {
			return mm, fmt.Errorf("%w: %s: %v", ErrMalformedMapping, name, err)
		}
		term, normal, err := parseTerm(name, key, val)
		if err != nil {
			return mm, err
		}
		binsMap[b] = TermBin{Bin: b, Term: term, Normal: normal}
	}

	// The eight-bin partition must be total; partial sets are rejected.
	for _, b := range bins.All() {
		if _, ok := binsMap[b]; !ok {
			return mm, fmt.Errorf("%w: %s: missing bin %s", ErrMalformedMapping, name, b)
		}
	}
	mm.Bins = binsMap
	return mm, nil
}

// parseCompact expands the six-term compact form into the eight-bin set.
func parseCompact(name string, val interface{}) (map[bins.Bin]TermBin, error) {
	section, ok := val.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s: terms must be a mapping", ErrMalformedMapping, name)
	}
	parsed := make(map[string]*model.Term, len(compactKeys))
	for _, key := range compactKeys {
		v, ok := section[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s: missing compact term %q", ErrMalformedMapping, name, key)
		}
		term, _, err := parseTerm(name, key, v)
		if err != nil {
			return nil, err
		}
		parsed[key] = term
	}
	for key := range section {
		found := false
		for _, known := range compactKeys {
			if key == known {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s: unknown compact term %q", ErrMalformedMapping, name, key)
		}
	}
	return ExpandStandard(StandardTerms{
		LowerExtreme: parsed["lower_extreme"],
		Lower:        parsed["lower"],
		Abnormal:     parsed["abnormal"],
		Normal:       parsed["normal"],
		Upper:        parsed["upper"],
		UpperExtreme: parsed["upper_extreme"],
	}), nil
}

// parseTerm decodes a term entry: nil means explicit "no known phenotype",
// otherwise an {id, label} pair with an optional normal flag.
func parseTerm(name, key string, val interface{}) (*model.Term, bool, error) {
	if val == nil {
		return nil, false, nil
	}
	entry, ok := val.(map[string]interface{})
	if !ok {
		return nil, false, fmt.Errorf("%w: %s.%s: expected a term entry or null", ErrMalformedMapping, name, key)
	}
	id, _ := entry["id"].(string)
	label, _ := entry["label"].(string)
	if id == "" || label == "" {
		return nil, false, fmt.Errorf("%w: %s.%s: term requires id and label", ErrMalformedMapping, name, key)
	}
	normal, _ := entry["normal"].(bool)
	return &model.Term{ID: id, Label: label}, normal, nil
}
