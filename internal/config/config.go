// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - External errors must be wrapped via this package's sentinel kinds.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Source selects the growth reference standard: intergrowth or nichd.
	Source string `koanf:"source"`

	// DataDir overrides the embedded reference tables with a directory of
	// TSV files. Empty means use the embedded set.
	DataDir string `koanf:"data_dir"`

	// MappingsFile overrides the embedded bin-to-term mapping with a YAML
	// file. Empty means use the embedded default.
	MappingsFile string `koanf:"mappings_file"`

	// QueueSize bounds the in-memory measurement queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of classification workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxBatchSize caps the number of items per POST /classify/batch.
	MaxBatchSize int `koanf:"max_batch_size"`
}

// New creates a Config populated with defaults. Context is reserved for
// future use and currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":9080",
		Source:       "intergrowth",
		QueueSize:    10_000,
		WorkerCount:  runtime.NumCPU() * 2,
		MaxBatchSize: 1000,
	}
}
