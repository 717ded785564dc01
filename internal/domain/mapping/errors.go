package mapping

import "errors"

// Sentinel kinds for mapping configuration errors. Both are fatal at
// startup; a defective mapping must never be discovered per-call.
var (
	ErrMappingFileNotFound = errors.New("mapping file not found")
	ErrMalformedMapping    = errors.New("malformed mapping")
)
