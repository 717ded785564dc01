// Package worker defines the worker pool that drains the measurement
// queue and classifies items asynchronously.
//
// Items are independent: a classification failure is collected alongside
// successful results and never aborts the rest of the batch.
package worker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/okian/fetalbio/internal/domain/model"
	"github.com/okian/fetalbio/pkg/logger"
	"github.com/okian/fetalbio/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultPoolSize     = 4
	poolShutdownTimeout = 10 * time.Second
)

// Measurement is what workers read off the queue.
type Measurement = model.Measurement

// Result is the per-item outcome delivered to the collector: either an
// observation or the error that item produced.
type Result struct {
	Measurement Measurement
	Observation model.TermObservation
	Err         error
}

// Classifier turns one measurement into a term observation.
type Classifier interface {
	Classify(ctx context.Context, m Measurement) (model.TermObservation, error)
}

// Collector receives per-item results as workers finish them.
type Collector interface {
	Collect(ctx context.Context, r Result)
}

// Queue defines how workers receive measurements.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Measurement
}

// Pool runs a fixed set of workers over the queue.
type Pool struct {
	size       int
	queue      Queue
	classifier Classifier
	collector  Collector
	log        logger.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
	active int
}

// NewPool creates a worker pool with configuration options.
func NewPool(queue Queue, classifier Classifier, collector Collector, opts ...Option) *Pool {
	p := &Pool{
		size:       defaultPoolSize,
		queue:      queue,
		classifier: classifier,
		collector:  collector,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the workers. They run until the queue's dequeue channel
// closes or the context is canceled.
func (p *Pool) Start(ctx context.Context) {
	if p.log == nil {
		p.log = logger.Get()
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(runCtx, "worker-"+strconv.Itoa(i))
	}
	p.log.Info(ctx, "worker pool started", logger.Int("workers", p.size))
}

// Stop cancels the workers and waits for them to drain, bounded by the
// pool shutdown timeout.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(poolShutdownTimeout):
	}
	metrics.UpdateActiveWorkers(0)
}

func (p *Pool) run(ctx context.Context, name string) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-p.queue.Dequeue(ctx):
			if !ok {
				return
			}
			p.process(ctx, name, m)
		}
	}
}

func (p *Pool) process(ctx context.Context, name string, m Measurement) {
	p.setActive(1)
	defer p.setActive(-1)

	start := time.Now()
	obs, err := p.classifier.Classify(ctx, m)
	metrics.ObserveWorkerLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	metrics.RecordBatchItem()

	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordBatchFailure()
		p.log.Warn(ctx, "classification failed",
			logger.String("worker", name),
			logger.String("id", m.ID),
			logger.String("measurement", m.Type.Key()),
			logger.Error(err),
		)
	}
	p.collector.Collect(ctx, Result{Measurement: m, Observation: obs, Err: err})
}

func (p *Pool) setActive(delta int) {
	p.mu.Lock()
	p.active += delta
	metrics.UpdateActiveWorkers(p.active)
	p.mu.Unlock()
}
