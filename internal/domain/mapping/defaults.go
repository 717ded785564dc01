package mapping

import (
	_ "embed"
	"fmt"
)

//go:embed defaults.yaml
var defaultsDoc []byte

// Default returns the built-in bin-to-term mapping shipped with the binary.
func Default() (Mapping, error) {
	m, err := Parse(defaultsDoc)
	if err != nil {
		return nil, fmt.Errorf("embedded default mapping: %w", err)
	}
	return m, nil
}
