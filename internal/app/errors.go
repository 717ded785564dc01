package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrNotStarted indicates a call arrived before Start or after Stop.
	ErrNotStarted = errors.New("service not started")

	// ErrQueueFull indicates the measurement queue rejected an enqueue.
	ErrQueueFull = errors.New("measurement queue full")

	// ErrMappingNotConfigured indicates the measurement type has no
	// bin-to-term mapping loaded.
	ErrMappingNotConfigured = errors.New("no mapping configured for measurement")
)
