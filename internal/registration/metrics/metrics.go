package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts registration workflow outcomes. A nil *Metrics is a no-op.
type Metrics struct {
	GateBlocked      *prometheus.CounterVec
	Submissions      *prometheus.CounterVec
	HandleChecks     *prometheus.CounterVec
	VerificationOps  *prometheus.CounterVec
	StaleResponses   *prometheus.CounterVec
	ActiveWorkflows  prometheus.Gauge
	WorkflowsExpired prometheus.Counter
}

// New registers the registration metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GateBlocked: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ddinvest_registration_gate_blocked_total",
			Help: "Submissions blocked locally, by first failing condition",
		}, []string{"reason"}),
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ddinvest_registration_submissions_total",
			Help: "Account-creation calls by outcome",
		}, []string{"outcome"}),
		HandleChecks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ddinvest_registration_handle_checks_total",
			Help: "Handle availability checks by outcome",
		}, []string{"outcome"}),
		VerificationOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ddinvest_registration_email_verification_total",
			Help: "Email verification requests by operation and outcome",
		}, []string{"op", "outcome"}),
		StaleResponses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ddinvest_registration_stale_responses_total",
			Help: "Identity Service responses discarded because the field changed while in flight",
		}, []string{"op"}),
		ActiveWorkflows: f.NewGauge(prometheus.GaugeOpts{
			Name: "ddinvest_registration_active_workflows",
			Help: "Registration workflows currently held in memory",
		}),
		WorkflowsExpired: f.NewCounter(prometheus.CounterOpts{
			Name: "ddinvest_registration_workflows_expired_total",
			Help: "Registration workflows discarded after idling",
		}),
	}
}

func (m *Metrics) IncrementGateBlocked(reason string) {
	if m == nil {
		return
	}
	m.GateBlocked.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementSubmission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementHandleCheck(outcome string) {
	if m == nil {
		return
	}
	m.HandleChecks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementVerification(op, outcome string) {
	if m == nil {
		return
	}
	m.VerificationOps.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) IncrementStale(op string) {
	if m == nil {
		return
	}
	m.StaleResponses.WithLabelValues(op).Inc()
}

func (m *Metrics) SetActiveWorkflows(n int) {
	if m == nil {
		return
	}
	m.ActiveWorkflows.Set(float64(n))
}

func (m *Metrics) AddExpired(n int) {
	if m == nil {
		return
	}
	m.WorkflowsExpired.Add(float64(n))
}
