package reference

import (
	"io/fs"
	"os"
)

type options struct {
	fsys fs.FS
}

// Option applies a configuration option to the Store.
type Option func(*options)

// WithDataDir loads tables from a directory instead of the embedded set.
func WithDataDir(dir string) Option {
	return func(o *options) {
		o.fsys = os.DirFS(dir)
	}
}

// WithFS loads tables from an arbitrary filesystem.
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}
