package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for upstream calls.
const (
	OutcomeSuccess = "success"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

// Prometheus metrics for upstream providers and the enrichment fan-out
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of requests to upstream providers by outcome",
		},
		[]string{"service", "outcome"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of requests to upstream providers",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	EnrichmentBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_batch_size",
			Help:    "Number of events geocoded per enrichment batch",
			Buckets: []float64{0, 5, 10, 20, 50, 100, 200},
		},
	)

	EnrichmentDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_duration_seconds",
			Help:    "Wall-clock duration of an enrichment batch",
			Buckets: prometheus.DefBuckets,
		},
	)

	SavedEventsOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saved_events_operations_total",
			Help: "Total number of saved event store operations by result",
		},
		[]string{"operation", "outcome"},
	)
)

var registerOnce sync.Once

// Register registers all Prometheus metrics with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(UpstreamRequestsTotal)
		prometheus.MustRegister(UpstreamRequestDuration)
		prometheus.MustRegister(EnrichmentBatchSize)
		prometheus.MustRegister(EnrichmentDuration)
		prometheus.MustRegister(SavedEventsOperationsTotal)
	})
}

// ObserveUpstream records one upstream call.
func ObserveUpstream(service, outcome string, started time.Time) {
	UpstreamRequestsTotal.WithLabelValues(service, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(service).Observe(time.Since(started).Seconds())
}

// ObserveStore records one saved event store operation.
func ObserveStore(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	SavedEventsOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
