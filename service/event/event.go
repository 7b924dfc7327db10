package event

import "time"

// Type identifies a notification kind.
type Type string

const (
	TypeWorkflowState       Type = "workflow_state"
	TypeAgentOutput         Type = "agent_output"
	TypeGovernanceRequired  Type = "governance_required"
	TypeGovernanceDecision  Type = "governance_decision"
	TypeAuditEventGenerated Type = "audit_event_generated"
)

// Event is the envelope handed to a Notifier.
type Event struct {
	Type       Type        `json:"type"`
	WorkflowID string      `json:"workflowId"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// New creates an event.
func New(eventType Type, workflowID string, timestamp time.Time, payload interface{}) *Event {
	return &Event{
		Type:       eventType,
		WorkflowID: workflowID,
		Timestamp:  timestamp,
		Payload:    payload,
	}
}
