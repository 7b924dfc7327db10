package model

import "time"

// AuditEventType classifies audit events.
type AuditEventType string

const (
	AuditStateTransition     AuditEventType = "state_transition"
	AuditAgentOutput         AuditEventType = "agent_output"
	AuditGovernanceDecision  AuditEventType = "governance_decision"
	AuditWorkflowTermination AuditEventType = "workflow_termination"
)

// Audit actors other than agent roles.
const (
	ActorOrchestrator = "orchestrator"
	ActorHuman        = "human"
)

// AuditEvent is the single canonical audit record. Sequence, PreviousHash
// and Hash are assigned by the audit log when the event is appended; the
// copy kept in a workflow's trail leaves them empty.
type AuditEvent struct {
	ID           string                 `json:"id"`
	WorkflowID   string                 `json:"workflowId"`
	Type         AuditEventType         `json:"eventType"`
	Timestamp    time.Time              `json:"timestamp"`
	Actor        string                 `json:"actor"`
	Details      map[string]interface{} `json:"details,omitempty"`
	Immutable    bool                   `json:"immutable"`
	Sequence     int                    `json:"sequence,omitempty"`
	PreviousHash string                 `json:"previousHash,omitempty"`
	Hash         string                 `json:"hash,omitempty"`
}

// Clone returns a copy with its own Details map.
func (e *AuditEvent) Clone() *AuditEvent {
	if e == nil {
		return nil
	}
	ret := *e
	if e.Details != nil {
		ret.Details = make(map[string]interface{}, len(e.Details))
		for k, v := range e.Details {
			ret.Details[k] = v
		}
	}
	return &ret
}
