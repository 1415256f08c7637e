package identity

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records Identity Service round trips. A nil *Metrics is a no-op.
type Metrics struct {
	CallDuration *prometheus.HistogramVec
}

// NewMetrics registers the identity client metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CallDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ddinvest_identity_call_duration_seconds",
			Help:    "Identity Service call latency by operation and outcome",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "outcome"}),
	}
}

// ObserveCall records one round trip.
func (m *Metrics) ObserveCall(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.CallDuration.WithLabelValues(op, outcome).Observe(d.Seconds())
}
