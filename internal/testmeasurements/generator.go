package testmeasurements

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/fetalbio/internal/adapters/reference"
	"github.com/okian/fetalbio/internal/domain/bins"
	"github.com/okian/fetalbio/internal/domain/gestage"
	"github.com/okian/fetalbio/internal/domain/types"
	"github.com/okian/fetalbio/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	gaWeeksMin         = 14
	gaWeeksMax         = 40
	daysPerWeek        = 7

	// Sampled values span a little beyond the outermost thresholds so
	// every bin, including the extremes, gets traffic.
	belowLowestFactor  = 0.95
	aboveHighestFactor = 1.05
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, max) using crypto/rand.
func getRandomInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// generateMeasurements creates synthetic measurements spread across the
// reference tables. Each item's expected bin is computed locally from the
// same thresholds the service uses, so responses can be verified.
func generateMeasurements(ctx context.Context, config *Config, stats *Stats) ([]Measurement, error) {
	logger.Get().Info(ctx, "generating measurements", logger.Int("numItems", config.NumItems))

	store, err := reference.New(types.Intergrowth)
	if err != nil {
		return nil, fmt.Errorf("loading reference tables: %w", err)
	}
	supported := store.Measurements()
	if len(supported) == 0 {
		return nil, fmt.Errorf("no reference tables loaded")
	}

	items := make([]Measurement, 0, config.NumItems)
	for len(items) < config.NumItems {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mt := supported[getRandomInt(len(supported))]
		weeks := gaWeeksMin + getRandomInt(gaWeeksMax-gaWeeksMin)
		ga, err := gestage.New(weeks, getRandomInt(daysPerWeek))
		if err != nil {
			continue
		}
		row, err := store.Lookup(mt, ga)
		if err != nil {
			// GA rows at the table edge may be absent; resample.
			continue
		}

		thresholds := row.Thresholds()
		lo := thresholds[0] * belowLowestFactor
		hi := thresholds[len(thresholds)-1] * aboveHighestFactor
		value := lo + getRandomFloat()*(hi-lo)

		expected, err := bins.ClassifyThresholds(thresholds, value)
		if err != nil {
			return nil, fmt.Errorf("classifying generated value: %w", err)
		}

		items = append(items, Measurement{
			ID:          uuid.New().String(),
			Measurement: mt.Key(),
			GA:          GASpec{Weeks: ga.Weeks(), Days: ga.Days()},
			ValueMM:     value,
			expectedBin: expected.Key(),
		})
	}

	stats.ItemsGenerated = len(items)
	return items, nil
}
