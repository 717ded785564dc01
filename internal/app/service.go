// Package service provides the core classification service that
// implements the dependencies required by the HTTP API.
//
// The service wires the reference store, the bin-to-term mapping, and the
// asynchronous batch pipeline (queue plus worker pool) behind a single
// facade. Classify is the synchronous path; ClassifyBatch pushes items
// through the queue and gathers per-item results without letting one
// failure abort the rest.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fetalbio/internal/adapters/mq/queue"
	"github.com/okian/fetalbio/internal/adapters/mq/worker"
	"github.com/okian/fetalbio/internal/adapters/reference"
	"github.com/okian/fetalbio/internal/domain/bins"
	"github.com/okian/fetalbio/internal/domain/interp"
	"github.com/okian/fetalbio/internal/domain/mapping"
	"github.com/okian/fetalbio/internal/domain/model"
	"github.com/okian/fetalbio/internal/domain/types"
	"github.com/okian/fetalbio/pkg/logger"
	"github.com/okian/fetalbio/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize   = 10000
	defaultWorkerCount = 4
)

// Service implements the classification pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     *reference.Store
	mapping   mapping.Mapping
	queue     queue.Queue
	pool      *worker.Pool
	collector *resultCollector

	// Configuration
	source       types.Source
	dataDir      string
	mappingsFile string
	queueSize    int
	workerCount  int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		source:      types.Intergrowth,
		queueSize:   defaultQueueSize,
		workerCount: defaultWorkerCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the reference tables and mapping, then launches the batch
// pipeline. Loading failures are fatal: a service with a defective table
// or mapping must not come up.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting classification service",
		logger.String("source", s.source.Key()),
	)

	var storeOpts []reference.Option
	if s.dataDir != "" {
		storeOpts = append(storeOpts, reference.WithDataDir(s.dataDir))
	}
	store, err := reference.New(s.source, storeOpts...)
	if err != nil {
		return fmt.Errorf("loading reference tables: %w", err)
	}
	s.store = store

	if s.mappingsFile != "" {
		s.mapping, err = mapping.Load(s.mappingsFile)
	} else {
		s.mapping, err = mapping.Default()
	}
	if err != nil {
		return fmt.Errorf("loading bin mapping: %w", err)
	}
	metrics.UpdateMappingMeasurements(len(s.mapping))

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.collector = newResultCollector()
	s.pool = worker.NewPool(s.queue, s, s.collector,
		worker.WithSize(s.workerCount),
		worker.WithLogger(s.logger),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "classification service started",
		logger.String("source", s.source.Key()),
		logger.Int("measurements", len(s.store.Measurements())),
		logger.Int("mappings", len(s.mapping)),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop gracefully shuts down the batch pipeline.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping classification service")

	if q, ok := s.queue.(*queue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "classification service stopped")
}

// Classify runs the full pipeline for one measurement: reference lookup,
// threshold binning, percentile interpolation, and term resolution.
//
// The bin is decided directly against the row's percentile thresholds.
// The interpolated percentile is provenance only: it is clamped to the
// table's extremes, so values beyond the outermost thresholds would
// otherwise land in the wrong interval.
func (s *Service) Classify(ctx context.Context, m model.Measurement) (model.TermObservation, error) {
	start := time.Now()
	defer func() {
		metrics.ObserveClassifyLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	s.mu.RLock()
	store, binMap := s.store, s.mapping
	s.mu.RUnlock()
	if store == nil {
		return model.TermObservation{}, ErrNotStarted
	}

	row, err := store.Lookup(m.Type, m.Age)
	if err != nil {
		metrics.RecordClassificationError(errorKind(err))
		return model.TermObservation{}, err
	}

	bin, err := bins.ClassifyThresholds(row.Thresholds(), m.ValueMM)
	if err != nil {
		metrics.RecordClassificationError(errorKind(err))
		return model.TermObservation{}, err
	}

	interpStart := time.Now()
	pct, err := interp.Interpolate(row.Percentiles, m.ValueMM)
	metrics.ObserveInterpolateLatency(float64(time.Since(interpStart).Microseconds()) / 1000.0)
	if err != nil {
		metrics.RecordClassificationError(errorKind(err))
		return model.TermObservation{}, err
	}

	obs := model.TermObservation{
		Age:        m.Age,
		Bin:        bin,
		Percentile: &pct,
	}
	if len(row.ZScores) > 0 {
		if z, zerr := interp.Interpolate(row.ZScores, m.ValueMM); zerr == nil {
			obs.ZScore = &z
		}
	}

	mm, ok := binMap.Lookup(m.Type)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrMappingNotConfigured, m.Type)
		metrics.RecordClassificationError(errorKind(err))
		return model.TermObservation{}, err
	}
	obs.Term, obs.Observed = resolveTerm(mm, bin)

	metrics.RecordClassification(m.Type.Key(), bin.Key(), store.Source().Key())
	s.logger.Debug(ctx, "classified measurement",
		logger.String("measurement", m.Type.Key()),
		logger.String("ga", m.Age.String()),
		logger.Float64("value", m.ValueMM),
		logger.String("bin", bin.Key()),
		logger.Float64("percentile", pct),
	)
	return obs, nil
}

// resolveTerm applies the observed/excluded policy for a resolved bin:
//
//   - a bin flagged normal is an excluded finding against the
//     measurement's parent abnormality term;
//   - an abnormal bin with a specific term is observed;
//   - an abnormal bin without a term falls back to the parent when one is
//     configured, observed; with no parent either, the finding is
//     excluded and the exporter substitutes the generic abnormality term.
func resolveTerm(mm mapping.MeasurementMapping, bin bins.Bin) (*model.Term, bool) {
	tb, ok := mm.Resolve(bin)
	if !ok {
		return nil, false
	}
	if tb.Normal {
		if mm.Parent != nil {
			return mm.Parent, false
		}
		return tb.Term, false
	}
	if tb.Term != nil {
		return tb.Term, true
	}
	if mm.Parent != nil {
		return mm.Parent, true
	}
	return nil, false
}

// ClassifyBatch pushes the measurements through the queue and waits for
// the workers to deliver every per-item result. Results come back in
// submission order; an item's failure is recorded in its Result and never
// affects its siblings.
//
// Items are routed through the queue on a service-generated key, never on
// the caller's ID: caller IDs may collide within a batch, and routing on
// them would leave one of the colliding items undelivered. The caller's
// ID (or the generated key for blank IDs) is restored on every Result.
func (s *Service) ClassifyBatch(ctx context.Context, items []model.Measurement) ([]worker.Result, error) {
	s.mu.RLock()
	q, collector := s.queue, s.collector
	s.mu.RUnlock()
	if q == nil {
		return nil, ErrNotStarted
	}

	type pending struct {
		idx      int
		key      string
		callerID string
		ch       <-chan worker.Result
	}
	waits := make([]pending, 0, len(items))
	results := make([]worker.Result, len(items))

	for i := range items {
		m := items[i]
		key := uuid.NewString()
		callerID := m.ID
		if callerID == "" {
			callerID = key
		}
		m.ID = key

		ch := collector.expect(key)
		if !q.Enqueue(ctx, m) {
			collector.forget(key)
			m.ID = callerID
			results[i] = worker.Result{
				Measurement: m,
				Err:         fmt.Errorf("%w: %s", ErrQueueFull, callerID),
			}
			metrics.RecordBatchFailure()
			continue
		}
		waits = append(waits, pending{idx: i, key: key, callerID: callerID, ch: ch})
	}

	for _, w := range waits {
		select {
		case r := <-w.ch:
			r.Measurement.ID = w.callerID
			results[w.idx] = r
		case <-ctx.Done():
			collector.forget(w.key)
			m := items[w.idx]
			m.ID = w.callerID
			results[w.idx] = worker.Result{Measurement: m, Err: ctx.Err()}
		}
	}
	return results, nil
}

// Enqueue submits one measurement for asynchronous processing without
// waiting for its result. Returns false if the queue rejected it.
func (s *Service) Enqueue(ctx context.Context, m model.Measurement) bool {
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()
	if q == nil {
		return false
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return q.Enqueue(ctx, m)
}

// MeasurementInfo describes one measurement type the service can serve.
type MeasurementInfo struct {
	Key       string `json:"key"`
	Short     string `json:"short"`
	Label     string `json:"label"`
	Reference bool   `json:"reference_data"`
	Mapped    bool   `json:"mapped"`
}

// Measurements lists the canonical measurement types with their loaded
// reference and mapping coverage.
func (s *Service) Measurements(ctx context.Context) []MeasurementInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loaded := make(map[types.Measurement]bool)
	if s.store != nil {
		for _, m := range s.store.Measurements() {
			loaded[m] = true
		}
	}
	all := append(types.Canonical(), types.EstimatedFetalWeight)
	out := make([]MeasurementInfo, 0, len(all))
	for _, m := range all {
		_, mapped := s.mapping.Lookup(m)
		out = append(out, MeasurementInfo{
			Key:       m.Key(),
			Short:     m.Short(),
			Label:     m.Label(),
			Reference: loaded[m],
			Mapped:    mapped,
		})
	}
	return out
}

// Stats is a point-in-time snapshot of the service's state.
type Stats struct {
	Started      bool   `json:"started"`
	Source       string `json:"source"`
	Measurements int    `json:"measurements"`
	Mappings     int    `json:"mappings"`
	QueueDepth   int    `json:"queue_depth"`
	Workers      int    `json:"workers"`
}

// Stats reports the service's current state for the stats endpoint.
func (s *Service) Stats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Started: s.started,
		Source:  s.source.Key(),
		Workers: s.workerCount,
	}
	if s.store != nil {
		st.Measurements = len(s.store.Measurements())
	}
	st.Mappings = len(s.mapping)
	if s.queue != nil {
		st.QueueDepth = s.queue.Len(ctx)
	}
	return st
}

// errorKind buckets a classification error for the error counter.
func errorKind(err error) string {
	switch {
	case errors.Is(err, reference.ErrUnsupportedMeasurement):
		return "unsupported_measurement"
	case errors.Is(err, reference.ErrNoReferenceData):
		return "no_reference_data"
	case errors.Is(err, ErrMappingNotConfigured):
		return "mapping_not_configured"
	case errors.Is(err, interp.ErrInterpolation), errors.Is(err, interp.ErrLabelParse):
		return "interpolation"
	case errors.Is(err, bins.ErrBadThresholds):
		return "bad_thresholds"
	default:
		return "internal"
	}
}
