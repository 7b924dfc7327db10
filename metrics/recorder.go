// Package metrics exposes Prometheus collectors for workflow and governance
// activity. A nil *Recorder is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/viant/govflow/stats"
)

// Config holds configuration for metrics recording.
type Config struct {
	Namespace string
	Subsystem string
	Registry  prometheus.Registerer
}

// Recorder records engine and gate metrics.
type Recorder struct {
	transitions         *prometheus.CounterVec
	rejectedTransitions *prometheus.CounterVec
	agentOutputs        *prometheus.CounterVec
	governanceRequests  *prometheus.CounterVec
	decisions           *prometheus.CounterVec
	auditFailures       *prometheus.CounterVec
	droppedEvents       prometheus.Counter
	pendingRequests     prometheus.Gauge
	decisionLatency     prometheus.Histogram
}

// New creates a recorder registering its collectors on config.Registry
// (prometheus.DefaultRegisterer when nil).
func New(config *Config) *Recorder {
	if config == nil {
		config = &Config{Namespace: "govflow"}
	}
	registry := config.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)
	ns, sub := config.Namespace, config.Subsystem
	return &Recorder{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "workflow_transitions_total",
			Help: "Committed workflow state transitions",
		}, []string{"from", "to"}),
		rejectedTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "workflow_transitions_rejected_total",
			Help: "Rejected workflow state transitions",
		}, []string{"from", "to"}),
		agentOutputs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "agent_outputs_total",
			Help: "Agent outputs by role and outcome",
		}, []string{"role", "outcome"}),
		governanceRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "governance_requests_total",
			Help: "Governance requests by assessed risk level",
		}, []string{"risk_level"}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "governance_decisions_total",
			Help: "Governance decisions by kind",
		}, []string{"decision"}),
		auditFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "audit_append_failures_total",
			Help: "Audit events that could not be appended after the state change was committed",
		}, []string{"event_type"}),
		droppedEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "notifications_dropped_total",
			Help: "Notifications dropped because the queue was full",
		}),
		pendingRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub,
			Name: "governance_requests_pending",
			Help: "Governance requests awaiting a decision",
		}),
		decisionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: sub,
			Name:    "governance_decision_latency_seconds",
			Help:    "Time between request creation and decision",
			Buckets: []float64{1, 10, 60, 300, 900, 3600, 4 * 3600, 24 * 3600},
		}),
	}
}

func (r *Recorder) Transition(from, to string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(from, to).Inc()
}

func (r *Recorder) RejectedTransition(from, to string) {
	if r == nil {
		return
	}
	r.rejectedTransitions.WithLabelValues(from, to).Inc()
}

func (r *Recorder) AgentOutput(role string, accepted bool) {
	if r == nil {
		return
	}
	outcome := "accepted"
	if !accepted {
		outcome = "rejected"
	}
	r.agentOutputs.WithLabelValues(role, outcome).Inc()
}

func (r *Recorder) GovernanceRequest(riskLevel string) {
	if r == nil {
		return
	}
	r.governanceRequests.WithLabelValues(riskLevel).Inc()
}

func (r *Recorder) Decision(kind string, latencySeconds float64) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(kind).Inc()
	r.decisionLatency.Observe(latencySeconds)
}

func (r *Recorder) AuditFailure(eventType string) {
	if r == nil {
		return
	}
	r.auditFailures.WithLabelValues(eventType).Inc()
}

func (r *Recorder) DroppedEvent() {
	if r == nil {
		return
	}
	r.droppedEvents.Inc()
}

// ObserveStats keeps the pending gauge in line with a stats tracker; use it
// as the tracker's onChange callback.
func (r *Recorder) ObserveStats(snapshot stats.Snapshot) {
	if r == nil {
		return
	}
	r.pendingRequests.Set(float64(snapshot.Pending))
}
