package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records outcomes of pricing quote computations.
type QuoteMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_duration_seconds",
		Help:    "Duration of pricing quote computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"origin"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_success",
		Help: "Successfully priced quote requests.",
	}, []string{"origin"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_failure",
		Help: "Failed quote requests by error code.",
	}, []string{"origin", "code"})
	reg.MustRegister(duration, success, failure)
	return &QuoteMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the computation time for the given origin lane.
func (q *QuoteMetrics) ObserveDuration(origin string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeLabel(origin)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the given origin lane.
func (q *QuoteMetrics) IncSuccess(origin string) {
	if q == nil || q.success == nil {
		return
	}
	q.success.WithLabelValues(normalizeLabel(origin)).Inc()
}

// IncFailure increments the failure counter for the given origin and code.
func (q *QuoteMetrics) IncFailure(origin, code string) {
	if q == nil || q.failure == nil {
		return
	}
	q.failure.WithLabelValues(normalizeLabel(origin), normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
