package service

import (
	"context"
	"sync"

	"github.com/okian/fetalbio/internal/adapters/mq/worker"
)

// resultCollector routes worker results back to the batch callers waiting
// on them. Keys are service-generated and unique per in-flight item; each
// gets a one-slot channel, and results for keys nobody is waiting on are
// dropped.
type resultCollector struct {
	mu      sync.Mutex
	pending map[string]chan worker.Result
}

func newResultCollector() *resultCollector {
	return &resultCollector{pending: make(map[string]chan worker.Result)}
}

// expect registers interest in a routing key and returns the channel its
// result will arrive on.
func (c *resultCollector) expect(id string) <-chan worker.Result {
	ch := make(chan worker.Result, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	return ch
}

// forget abandons a registered ID, e.g. when its enqueue failed or the
// caller's context expired.
func (c *resultCollector) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Collect implements worker.Collector.
func (c *resultCollector) Collect(ctx context.Context, r worker.Result) {
	c.mu.Lock()
	ch, ok := c.pending[r.Measurement.ID]
	if ok {
		delete(c.pending, r.Measurement.ID)
	}
	c.mu.Unlock()
	if ok {
		ch <- r
	}
}
