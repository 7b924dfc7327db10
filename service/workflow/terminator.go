package workflow

import (
	"context"

	"github.com/viant/govflow/model"
)

// Terminator force-terminates workflows regardless of the adjacency table.
type Terminator interface {
	ForceTerminate(ctx context.Context, id, reason, actor string) (*model.Workflow, error)
}

type terminator struct {
	service *Service
}

func (t *terminator) ForceTerminate(ctx context.Context, id, reason, actor string) (*model.Workflow, error) {
	return t.service.forceTerminate(ctx, id, reason, actor)
}

// ClaimTerminator hands out the force-termination capability. Only the first
// call succeeds; the governance gate claims it when it is constructed.
func (s *Service) ClaimTerminator() (Terminator, error) {
	if !s.terminator.CompareAndSwap(false, true) {
		return nil, ErrTerminatorClaimed
	}
	return &terminator{service: s}, nil
}
