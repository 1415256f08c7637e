package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts throttled requests. A nil *Metrics is a no-op.
type Metrics struct {
	Rejected *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Rejected: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "ddinvest_ratelimit_rejected_total",
			Help: "Requests refused for exceeding their rate limit, by class",
		}, []string{"class"}),
	}
}

func (m *Metrics) IncrementRejected(class Class) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(string(class)).Inc()
}
