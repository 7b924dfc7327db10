package memory

import (
	"context"

	"github.com/viant/govflow/model"
	"github.com/viant/govflow/service/dao"
	"github.com/viant/govflow/service/dao/criteria"
	"github.com/viant/govflow/service/dao/store"
)

// Service implements an in-memory, thread-safe workflow repository. All API
// methods work with copies to eliminate data races between goroutines.
type Service struct {
	*store.MemoryStore[string, model.Workflow]
}

var _ dao.Service[string, model.Workflow] = (*Service)(nil)

// List returns copies of workflows, optionally filtered by "State".
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Workflow, error) {
	all, err := s.MemoryStore.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Workflow, 0, len(all))
	for _, wf := range all {
		if !criteria.FilterByState(string(wf.CurrentState), parameters) {
			continue
		}
		out = append(out, wf)
	}
	return out, nil
}

// New creates an empty repository.
func New() *Service {
	return &Service{
		MemoryStore: store.NewCloningMemoryStore[string, model.Workflow](
			func(w *model.Workflow) string { return w.ID },
			func(w *model.Workflow) *model.Workflow { return w.Clone() },
		),
	}
}
