package api

// serverOptions holds the tunable server settings.
type serverOptions struct {
	maxBatchSize int
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverOptions)

// WithMaxBatchSize caps the number of items accepted per batch request.
func WithMaxBatchSize(n int) ServerOption {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxBatchSize = n
		}
	}
}
