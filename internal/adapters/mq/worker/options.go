package worker

import "github.com/okian/fetalbio/pkg/logger"

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithSize sets the number of worker goroutines.
func WithSize(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.size = n
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}
