package service

import (
	"github.com/okian/fetalbio/internal/domain/types"
	"github.com/okian/fetalbio/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource selects the reference standard to load.
func WithSource(src types.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithDataDir loads reference tables from a directory instead of the
// embedded set.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		s.dataDir = dir
	}
}

// WithMappingsFile loads the bin-to-term mapping from a YAML file instead
// of the embedded default.
func WithMappingsFile(path string) Option {
	return func(s *Service) {
		s.mappingsFile = path
	}
}

// WithQueueSize sets the maximum size of the measurement queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
