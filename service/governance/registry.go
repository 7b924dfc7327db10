package governance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/govflow/service/dao"
	"github.com/viant/govflow/service/dao/store"
)

// registry owns the pending and completed request stores. Moves between
// them happen under one mutex so a request completes at most once.
type registry struct {
	mu        sync.Mutex
	pending   dao.Service[string, Request]
	completed dao.Service[string, Request]
}

func requestKey(r *Request) string { return r.ID }

func newMemoryStore() dao.Service[string, Request] {
	return store.NewCloningMemoryStore[string, Request](requestKey, func(r *Request) *Request { return r.Clone() })
}

// open stores req as pending unless its workflow already has a pending request.
func (r *registry) open(ctx context.Context, req *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, err := r.findPending(ctx, req.WorkflowID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: workflow %s has request %s", ErrPendingRequestExists, req.WorkflowID, existing.ID)
	}
	return r.pending.Save(ctx, req)
}

// complete applies finalize to the pending request and moves it to the
// completed store.
func (r *registry) complete(ctx context.Context, id string, finalize func(req *Request)) (*Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, err := r.pending.Load(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) || errors.Is(err, dao.ErrInvalidID) {
			return nil, r.notFound(ctx, id)
		}
		return nil, err
	}
	finalize(req)
	if err = r.completed.Save(ctx, req); err != nil {
		return nil, err
	}
	if err = r.pending.Delete(ctx, id); err != nil {
		_ = r.completed.Delete(ctx, id)
		return nil, err
	}
	return req, nil
}

// reopen reverts a completed request to its pending snapshot.
func (r *registry) reopen(ctx context.Context, snapshot *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.completed.Delete(ctx, snapshot.ID); err != nil && !errors.Is(err, dao.ErrNotFound) {
		return err
	}
	return r.pending.Save(ctx, snapshot)
}

func (r *registry) pendingSnapshot(ctx context.Context, id string) (*Request, error) {
	req, err := r.pending.Load(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) || errors.Is(err, dao.ErrInvalidID) {
			return nil, r.notFound(ctx, id)
		}
		return nil, err
	}
	return req, nil
}

func (r *registry) notFound(ctx context.Context, id string) error {
	if id != "" {
		if req, _ := r.completed.Load(ctx, id); req != nil {
			return fmt.Errorf("%w: %s: %w", ErrGovernanceRequestNotFound, id, ErrAlreadyDecided)
		}
	}
	return fmt.Errorf("%w: %s", ErrGovernanceRequestNotFound, id)
}

func (r *registry) lookup(ctx context.Context, id string) (*Request, error) {
	if req, _ := r.pending.Load(ctx, id); req != nil {
		return req, nil
	}
	if req, _ := r.completed.Load(ctx, id); req != nil {
		return req, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrGovernanceRequestNotFound, id)
}

func (r *registry) findPending(ctx context.Context, workflowID string) (*Request, error) {
	all, err := r.pending.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, req := range all {
		if req.WorkflowID == workflowID {
			return req, nil
		}
	}
	return nil, nil
}

// listPending returns pending requests oldest first.
func (r *registry) listPending(ctx context.Context) ([]*Request, error) {
	return sorted(r.pending.List(ctx))
}

// listCompleted returns completed requests oldest first.
func (r *registry) listCompleted(ctx context.Context) ([]*Request, error) {
	return sorted(r.completed.List(ctx))
}

func sorted(requests []*Request, err error) ([]*Request, error) {
	if err != nil {
		return nil, err
	}
	sort.SliceStable(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID < requests[j].ID
		}
		return requests[i].CreatedAt.Before(requests[j].CreatedAt)
	})
	return requests, nil
}
