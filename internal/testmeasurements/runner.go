package testmeasurements

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/okian/fetalbio/pkg/logger"
)

// ShowHelp prints usage information for the test tool.
func ShowHelp() {
	fmt.Println(`test-measurements - synthetic biometry load and verification tool

Generates random measurements across the embedded reference tables,
submits them to a running service, and verifies the returned bins against
locally computed expectations.

Flags:
  -url       Base URL of the service (default http://localhost:9080)
  -items     Number of measurements to generate and submit
  -batch     Items per batch request; 1 submits singly
  -workers   Number of concurrent submitters
  -timeout   HTTP request timeout
  -verbose   Enable verbose logging`)
}

// Run executes the full test: generate, submit, verify, report.
func Run(ctx context.Context, config *Config) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	if config.Verbose {
		_ = logger.SetLevelString("debug")
	}
	log := logger.Named("test-measurements")

	stats := &Stats{StartTime: time.Now(), BinCounts: make(map[string]int)}

	items, err := generateMeasurements(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("generating measurements: %w", err)
	}

	client := &http.Client{Timeout: config.Timeout}

	var mu sync.Mutex
	record := func(m Measurement, resp *Response, err error) {
		mu.Lock()
		defer mu.Unlock()
		stats.ItemsSubmitted++
		if err != nil || resp == nil {
			stats.ItemsFailed++
			return
		}
		stats.ItemsSuccessful++
		stats.BinCounts[resp.Bin]++
		if !verifyBin(m, *resp) {
			stats.BinMismatches++
			log.Warn(ctx, "bin mismatch",
				logger.String("id", m.ID),
				logger.String("expected", m.expectedBin),
				logger.String("got", resp.Bin),
			)
		}
	}

	// Partition items across workers, batching when configured.
	var wg sync.WaitGroup
	chunks := partition(items, config.Workers)
	for _, chunk := range chunks {
		wg.Add(1)
		go func(chunk []Measurement) {
			defer wg.Done()
			if config.BatchSize > 1 {
				for start := 0; start < len(chunk); start += config.BatchSize {
					end := start + config.BatchSize
					if end > len(chunk) {
						end = len(chunk)
					}
					batch := chunk[start:end]
					results, err := submitBatch(ctx, client, config.BaseURL, batch)
					if err != nil {
						for _, m := range batch {
							record(m, nil, err)
						}
						continue
					}
					for i, m := range batch {
						record(m, results[i], nil)
					}
				}
				return
			}
			for _, m := range chunk {
				resp, err := submitSingle(ctx, client, config.BaseURL, m)
				if err != nil {
					record(m, nil, err)
					continue
				}
				record(m, &resp, nil)
			}
		}(chunk)
	}
	wg.Wait()

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	report(ctx, log, stats)

	if stats.BinMismatches > 0 {
		return fmt.Errorf("%d bin mismatches", stats.BinMismatches)
	}
	return nil
}

// partition splits items into roughly equal chunks, one per worker.
func partition(items []Measurement, workers int) [][]Measurement {
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}
	chunks := make([][]Measurement, 0, workers)
	per := len(items) / workers
	for w := 0; w < workers; w++ {
		start := w * per
		end := start + per
		if w == workers-1 {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// report prints the final statistics.
func report(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "test complete",
		logger.Int("generated", stats.ItemsGenerated),
		logger.Int("submitted", stats.ItemsSubmitted),
		logger.Int("successful", stats.ItemsSuccessful),
		logger.Int("failed", stats.ItemsFailed),
		logger.Int("binMismatches", stats.BinMismatches),
		logger.String("duration", stats.Duration.String()),
	)
	for bin, count := range stats.BinCounts {
		fmt.Fprintf(os.Stdout, "%-16s %d\n", bin, count)
	}
}
