package governance

import (
	"context"

	"github.com/viant/govflow/stats"
)

// PendingRequests lists pending requests oldest first.
func (s *Service) PendingRequests(ctx context.Context) ([]*Request, error) {
	return s.registry.listPending(ctx)
}

// CompletedRequests lists decided requests oldest first.
func (s *Service) CompletedRequests(ctx context.Context) ([]*Request, error) {
	return s.registry.listCompleted(ctx)
}

// Request returns a pending or completed request by id.
func (s *Service) Request(ctx context.Context, id string) (*Request, error) {
	return s.registry.lookup(ctx, id)
}

// RequestByWorkflow returns the workflow's pending request, or else its most
// recently created completed one.
func (s *Service) RequestByWorkflow(ctx context.Context, workflowID string) (*Request, error) {
	if req, err := s.registry.findPending(ctx, workflowID); err != nil || req != nil {
		return req, err
	}
	completed, err := s.registry.listCompleted(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(completed) - 1; i >= 0; i-- {
		if completed[i].WorkflowID == workflowID {
			return completed[i], nil
		}
	}
	return nil, ErrGovernanceRequestNotFound
}

// HasPendingRequest reports whether the workflow has a pending request.
func (s *Service) HasPendingRequest(ctx context.Context, workflowID string) bool {
	req, err := s.registry.findPending(ctx, workflowID)
	return err == nil && req != nil
}

// Statistics returns aggregate decision statistics.
func (s *Service) Statistics() stats.Snapshot {
	return s.stats.Snapshot()
}
