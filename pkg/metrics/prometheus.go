// Package metrics provides Prometheus metrics for the fetalbio service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the classification service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Classification metrics
	classifications      *prometheus.CounterVec
	classificationErrors *prometheus.CounterVec
	classifyLatency      prometheus.Histogram
	interpolateLatency   prometheus.Histogram

	// Reference and mapping state
	referenceRows       *prometheus.GaugeVec
	mappingMeasurements prometheus.Gauge

	// Batch pipeline metrics
	batchItems    prometheus.Counter
	batchFailures prometheus.Counter

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	activeWorkers prometheus.Gauge
	workerLatency prometheus.Histogram
	workerErrors  prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fetalbio",
		subsystem:        "classifier",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.classifications = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "classifications_total",
		Help: "Classifications performed, by measurement, bin and source.",
	}, []string{"measurement", "bin", "source"})

	m.classificationErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "classification_errors_total",
		Help: "Classification failures by error kind.",
	}, []string{"kind"})

	m.classifyLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "classify_latency_ms",
		Help:    "End-to-end classification latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.interpolateLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "interpolate_latency_ms",
		Help:    "Percentile interpolation latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.referenceRows = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "reference_rows",
		Help: "Reference table rows loaded, by source.",
	}, []string{"source"})

	m.mappingMeasurements = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "mapping_measurements",
		Help: "Measurement types with a configured term mapping.",
	})

	m.batchItems = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "batch_items_total",
		Help: "Measurements processed through the batch pipeline.",
	})

	m.batchFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "batch_item_failures_total",
		Help: "Batch items that failed classification.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Measurements currently queued.",
	})

	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Configured queue capacity.",
	})

	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization",
		Help: "Queue fill ratio between 0 and 1.",
	})

	m.queueEnqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total",
		Help: "Enqueue attempts rejected by backpressure or closure.",
	})

	m.activeWorkers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "active_workers",
		Help: "Workers currently processing measurements.",
	})

	m.workerLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "worker_latency_ms",
		Help:    "Per-item worker processing latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Worker items that ended in a classification error.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording on the global manager.

// RecordClassification counts one successful classification.
func RecordClassification(measurement, bin, source string) {
	globalManager.classifications.WithLabelValues(measurement, bin, source).Inc()
}

// RecordClassificationError counts one failure by error kind.
func RecordClassificationError(kind string) {
	globalManager.classificationErrors.WithLabelValues(kind).Inc()
}

// ObserveClassifyLatency records the full classification latency.
func ObserveClassifyLatency(ms float64) {
	globalManager.classifyLatency.Observe(ms)
}

// ObserveInterpolateLatency records the interpolation step latency.
func ObserveInterpolateLatency(ms float64) {
	globalManager.interpolateLatency.Observe(ms)
}

// UpdateReferenceRows sets the loaded row count for a source.
func UpdateReferenceRows(source string, rows int) {
	globalManager.referenceRows.WithLabelValues(source).Set(float64(rows))
}

// UpdateMappingMeasurements sets the number of configured measurement types.
func UpdateMappingMeasurements(n int) {
	globalManager.mappingMeasurements.Set(float64(n))
}

// RecordBatchItem counts one batch item processed.
func RecordBatchItem() { globalManager.batchItems.Inc() }

// RecordBatchFailure counts one failed batch item.
func RecordBatchFailure() { globalManager.batchFailures.Inc() }

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the configured queue capacity.
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

// UpdateQueueUtilization sets the queue fill ratio.
func UpdateQueueUtilization(ratio float64) { globalManager.queueUtilization.Set(ratio) }

// RecordQueueEnqueueError counts one rejected enqueue.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateActiveWorkers sets the number of busy workers.
func UpdateActiveWorkers(n int) { globalManager.activeWorkers.Set(float64(n)) }

// ObserveWorkerLatency records one item's worker processing latency.
func ObserveWorkerLatency(ms float64) { globalManager.workerLatency.Observe(ms) }

// RecordWorkerError counts one worker-side classification failure.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
