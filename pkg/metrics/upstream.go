package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics records outcomes of calls to the remote commerce API.
type UpstreamMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewUpstreamMetrics registers the upstream call metrics on the provided registerer.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_call_duration_seconds",
		Help:    "Duration of upstream commerce API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_call_success",
		Help: "Successful upstream commerce API calls.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_call_failure",
		Help: "Failed upstream commerce API calls.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure)
	return &UpstreamMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named operation.
func (u *UpstreamMetrics) ObserveDuration(operation string, duration time.Duration) {
	if u == nil || u.duration == nil {
		return
	}
	u.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (u *UpstreamMetrics) IncSuccess(operation string) {
	if u == nil || u.success == nil {
		return
	}
	u.success.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (u *UpstreamMetrics) IncFailure(operation string) {
	if u == nil || u.failure == nil {
		return
	}
	u.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
