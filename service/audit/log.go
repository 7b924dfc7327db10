package audit

import (
	"context"
	"errors"
	"time"

	"github.com/viant/govflow/model"
)

var (
	// ErrInvalidEvent is returned when an event lacks id or workflow id.
	ErrInvalidEvent = errors.New("audit: invalid event")
	// ErrDuplicateEvent is returned when an event id was already appended.
	ErrDuplicateEvent = errors.New("audit: duplicate event")
)

// Log is the audit log contract.
type Log interface {
	// Append seals event into its workflow chain and returns the chained copy.
	Append(ctx context.Context, event *model.AuditEvent) (*model.AuditEvent, error)
	// VerifyChainIntegrity recomputes and checks the chain of a workflow.
	VerifyChainIntegrity(ctx context.Context, workflowID string) (*Verification, error)
	// ExportArtifacts returns (and optionally uploads) the evidence bundle.
	ExportArtifacts(ctx context.Context, workflowID string) (*Bundle, error)
	// Events returns the chained events of a workflow in append order.
	Events(ctx context.Context, workflowID string) ([]*model.AuditEvent, error)
}

// Verification reports the result of a chain check.
type Verification struct {
	WorkflowID string `json:"workflowId"`
	Valid      bool   `json:"valid"`
	EventCount int    `json:"eventCount"`
	// BrokenAt is the sequence of the first invalid record, 0 when valid.
	BrokenAt int    `json:"brokenAt,omitempty"`
	Reason   string `json:"reason,omitempty"`
	// Diff is a unified diff between the sealed and the current content of
	// the first tampered record.
	Diff string `json:"diff,omitempty"`
}

// Bundle is the exported evidence package of one workflow.
type Bundle struct {
	WorkflowID   string              `json:"workflowId"`
	ExportedAt   time.Time           `json:"exportedAt"`
	Events       []*model.AuditEvent `json:"events"`
	Verification *Verification       `json:"verification"`
	// Digest is the sha256 of the JSON-encoded events.
	Digest   string `json:"digest"`
	Location string `json:"location,omitempty"`
}
