package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ConfirmationMetrics records payment-confirmation polling activity.
type ConfirmationMetrics struct {
	attempts *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewConfirmationMetrics registers the confirmation metrics on the provided registerer.
func NewConfirmationMetrics(reg prometheus.Registerer) *ConfirmationMetrics {
	if reg == nil {
		return &ConfirmationMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "confirmation_poll_attempts_total",
		Help: "Status queries issued while confirming a payment.",
	}, []string{"result"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "confirmation_outcomes_total",
		Help: "Terminal states reached by confirmation polls.",
	}, []string{"state"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "confirmation_duration_seconds",
		Help:    "Wall time from first query to terminal state.",
		Buckets: prometheus.DefBuckets,
	}, []string{"state"})
	reg.MustRegister(attempts, outcomes, duration)
	return &ConfirmationMetrics{
		attempts: attempts,
		outcomes: outcomes,
		duration: duration,
	}
}

// IncAttempt counts one status query with its per-query result
// (paid, expired, pending, error).
func (c *ConfirmationMetrics) IncAttempt(result string) {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncOutcome counts the terminal state of one confirmation poll.
func (c *ConfirmationMetrics) IncOutcome(state string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(state)).Inc()
}

// ObserveDuration records how long one confirmation poll ran.
func (c *ConfirmationMetrics) ObserveDuration(state string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(state)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
