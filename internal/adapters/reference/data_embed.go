package reference

import (
	"embed"
	"io/fs"

	"github.com/okian/fetalbio/internal/domain/types"
)

// Default tables shipped with the binary, parsed from the published
// INTERGROWTH-21st and NICHD growth standards.
//
//go:embed data/intergrowth data/nichd
var embeddedTables embed.FS

// defaultFS returns the embedded table set for a source.
func defaultFS(source types.Source) fs.FS {
	dir := "data/intergrowth"
	if source == types.NICHD {
		dir = "data/nichd"
	}
	sub, err := fs.Sub(embeddedTables, dir)
	if err != nil {
		return embeddedTables
	}
	return sub
}
