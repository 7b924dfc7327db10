package model

import "time"

// Workflow is one incident's lifecycle record.
type Workflow struct {
	ID                 string              `json:"id"`
	CurrentState       State               `json:"currentState"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
	AgentOutputs       []*AgentOutput      `json:"agentOutputs"`
	AuditTrail         []*AuditEvent       `json:"auditTrail"`
	GovernanceDecision *GovernanceDecision `json:"governanceDecision,omitempty"`
	TerminationReason  string              `json:"terminationReason,omitempty"`
}

// Clone creates a deep copy so that callers can mutate the result without
// affecting the stored instance.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}
	ret := *w
	ret.AgentOutputs = make([]*AgentOutput, len(w.AgentOutputs))
	for i, output := range w.AgentOutputs {
		ret.AgentOutputs[i] = output.Clone()
	}
	ret.AuditTrail = make([]*AuditEvent, len(w.AuditTrail))
	for i, e := range w.AuditTrail {
		ret.AuditTrail[i] = e.Clone()
	}
	ret.GovernanceDecision = w.GovernanceDecision.Clone()
	return &ret
}

// ReportedRoles returns the set of roles that have submitted output.
func (w *Workflow) ReportedRoles() map[AgentRole]bool {
	ret := make(map[AgentRole]bool)
	for _, output := range w.AgentOutputs {
		ret[output.Role] = true
	}
	return ret
}
