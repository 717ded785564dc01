package testmeasurements

import "time"

// Config holds configuration for the measurement test.
type Config struct {
	BaseURL   string        // Base URL of the service
	NumItems  int           // Number of measurements to generate
	BatchSize int           // Items per batch request; 1 means single requests
	Workers   int           // Number of concurrent submitters
	Timeout   time.Duration // HTTP request timeout
	Verbose   bool          // Enable verbose logging
}

// GASpec is the wire form of a gestational age.
type GASpec struct {
	Weeks int `json:"weeks"`
	Days  int `json:"days"`
}

// Measurement is one measurement to be submitted.
type Measurement struct {
	ID          string  `json:"id"`
	Measurement string  `json:"measurement"`
	GA          GASpec  `json:"gestational_age"`
	ValueMM     float64 `json:"value_mm"`

	expectedBin string
}

// Response is the classification result returned by the service.
type Response struct {
	ID         string   `json:"id"`
	Bin        string   `json:"bin"`
	Percentile *float64 `json:"percentile"`
	Observed   bool     `json:"observed"`
}

// Stats holds test statistics.
type Stats struct {
	ItemsGenerated  int
	ItemsSubmitted  int
	ItemsSuccessful int
	ItemsFailed     int
	BinMismatches   int
	BinCounts       map[string]int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
