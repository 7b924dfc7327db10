package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/viant/govflow/stats"
)

func TestRecorder(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := New(&Config{Namespace: "govflow", Registry: registry})

	recorder.Transition("IDLE", "INCIDENT_INGESTED")
	recorder.Transition("IDLE", "INCIDENT_INGESTED")
	recorder.RejectedTransition("IDLE", "ANALYZING")
	recorder.AgentOutput("sre-agent", true)
	recorder.AgentOutput("sre-agent", false)
	recorder.GovernanceRequest("critical")
	recorder.Decision("block", 12)
	recorder.AuditFailure("state_transition")
	recorder.DroppedEvent()
	recorder.ObserveStats(stats.Snapshot{Pending: 3})

	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.transitions.WithLabelValues("IDLE", "INCIDENT_INGESTED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.rejectedTransitions.WithLabelValues("IDLE", "ANALYZING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.agentOutputs.WithLabelValues("sre-agent", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.governanceRequests.WithLabelValues("critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.decisions.WithLabelValues("block")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.auditFailures.WithLabelValues("state_transition")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.droppedEvents))
	assert.Equal(t, 3.0, testutil.ToFloat64(recorder.pendingRequests))
	assert.Equal(t, 1, testutil.CollectAndCount(recorder.decisionLatency))
}

func TestRecorder_Nil(t *testing.T) {
	var recorder *Recorder
	assert.NotPanics(t, func() {
		recorder.Transition("a", "b")
		recorder.AuditFailure("x")
		recorder.ObserveStats(stats.Snapshot{})
	})
}
