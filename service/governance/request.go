package governance

import (
	"time"

	"github.com/viant/govflow/model"
)

// Status is the lifecycle status of a request.
type Status string

const (
	StatusPending                  Status = "pending"
	StatusApproved                 Status = "approved"
	StatusApprovedWithRestrictions Status = "approved_with_restrictions"
	StatusBlocked                  Status = "blocked"
)

func statusOf(kind model.DecisionKind) Status {
	switch kind {
	case model.DecisionApprove:
		return StatusApproved
	case model.DecisionApproveWithRestrictions:
		return StatusApprovedWithRestrictions
	}
	return StatusBlocked
}

// ContextData is the analysis context shown to the approver.
type ContextData struct {
	IncidentSummary    string   `json:"incidentSummary" yaml:"incidentSummary"`
	AgentFindings      []string `json:"agentFindings" yaml:"agentFindings"`
	CorrelationSummary string   `json:"correlationSummary" yaml:"correlationSummary"`
	ConfidenceLevel    float64  `json:"confidenceLevel" yaml:"confidenceLevel"`
}

// Texts returns the free text searched for affected services.
func (c ContextData) Texts() []string {
	texts := make([]string, 0, len(c.AgentFindings)+2)
	texts = append(texts, c.IncidentSummary)
	texts = append(texts, c.AgentFindings...)
	return append(texts, c.CorrelationSummary)
}

// Request is a governance request for one proposed action.
type Request struct {
	ID                string                    `json:"id"`
	WorkflowID        string                    `json:"workflowId"`
	Timestamp         time.Time                 `json:"timestamp"`
	RecommendedAction string                    `json:"recommendedAction"`
	BlastRadius       *model.BlastRadius        `json:"blastRadiusAssessment"`
	PolicyConflicts   []string                  `json:"policyConflicts"`
	Context           ContextData               `json:"contextData"`
	Status            Status                    `json:"status"`
	CreatedAt         time.Time                 `json:"createdAt"`
	DecidedAt         *time.Time                `json:"decidedAt,omitempty"`
	Decision          *model.GovernanceDecision `json:"decision,omitempty"`
}

// Clone returns a deep copy.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	ret := *r
	ret.BlastRadius = r.BlastRadius.Clone()
	ret.PolicyConflicts = append([]string(nil), r.PolicyConflicts...)
	ret.Context.AgentFindings = append([]string(nil), r.Context.AgentFindings...)
	if r.DecidedAt != nil {
		decidedAt := *r.DecidedAt
		ret.DecidedAt = &decidedAt
	}
	ret.Decision = r.Decision.Clone()
	return &ret
}

// ApprovalOption is one decision offered to the approver.
type ApprovalOption struct {
	Decision             model.DecisionKind `json:"decision"`
	Label                string             `json:"label"`
	Available            bool               `json:"available"`
	RequiresRestrictions bool               `json:"requiresRestrictions,omitempty"`
	Reason               string             `json:"reason,omitempty"`
}

// ApprovalInterface is what a human approver is shown for a pending request.
type ApprovalInterface struct {
	RequestID         string             `json:"requestId"`
	WorkflowID        string             `json:"workflowId"`
	RecommendedAction string             `json:"recommendedAction"`
	BlastRadius       *model.BlastRadius `json:"blastRadiusAssessment"`
	PolicyConflicts   []string           `json:"policyConflicts"`
	Context           ContextData        `json:"contextData"`
	Options           []ApprovalOption   `json:"options"`
}

// DecisionResult is the outcome of ProcessDecision. Validation failures are
// reported in Errors; Err carries the matching sentinel for errors.Is.
type DecisionResult struct {
	Success            bool                      `json:"success"`
	Decision           *model.GovernanceDecision `json:"decision,omitempty"`
	WorkflowTerminated bool                      `json:"workflowTerminated"`
	Errors             []string                  `json:"errors,omitempty"`
	Err                error                     `json:"-"`
}
