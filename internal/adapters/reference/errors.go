package reference

import "errors"

// Sentinel kinds for reference table errors.
var (
	// ErrDataUnavailable indicates a table file could not be read. Raised
	// lazily: per-measurement absence at load time is tolerated.
	ErrDataUnavailable = errors.New("reference data unavailable")

	// ErrMalformedTable indicates a table parsed but violated its shape
	// (missing columns, non-numeric cells, non-monotonic thresholds).
	ErrMalformedTable = errors.New("malformed reference table")

	// ErrNoReferenceData indicates the measurement or gestational age has
	// no row in the loaded tables.
	ErrNoReferenceData = errors.New("no reference data")

	// ErrUnsupportedMeasurement indicates the measurement type is outside
	// the canonical reference set.
	ErrUnsupportedMeasurement = errors.New("unsupported measurement type")
)
