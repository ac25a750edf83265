package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records transaction submission outcomes per flow
// (authenticated vs guest).
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"flow"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_success",
		Help: "Successful checkout submissions.",
	}, []string{"flow"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failure",
		Help: "Failed checkout submissions.",
	}, []string{"flow"})
	reg.MustRegister(duration, success, failure)
	return &CheckoutMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named flow.
func (c *CheckoutMetrics) ObserveDuration(flow string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(flow)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named flow.
func (c *CheckoutMetrics) IncSuccess(flow string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(flow)).Inc()
}

// IncFailure increments the failure counter for the named flow.
func (c *CheckoutMetrics) IncFailure(flow string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(flow)).Inc()
}

func normalizeLabel(flow string) string {
	if flow == "" {
		return "unknown"
	}
	return flow
}
