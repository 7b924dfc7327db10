package workflow

import (
	"context"

	"github.com/viant/govflow/model"
	"github.com/viant/govflow/runtime/correlation"
	"github.com/viant/govflow/service/dao"
	"github.com/viant/govflow/service/dao/criteria"
)

// Workflow returns a copy of the workflow.
func (s *Service) Workflow(ctx context.Context, id string) (*model.Workflow, error) {
	return s.load(ctx, id)
}

// Workflows lists workflows, optionally restricted to the given states.
func (s *Service) Workflows(ctx context.Context, states ...model.State) ([]*model.Workflow, error) {
	var parameters []*dao.Parameter
	if len(states) > 0 {
		values := make([]string, len(states))
		for i, state := range states {
			values[i] = string(state)
		}
		parameters = append(parameters, &dao.Parameter{Name: criteria.StateParameter, Value: values})
	}
	return s.workflowDAO.List(ctx, parameters...)
}

// CurrentState returns the workflow state.
func (s *Service) CurrentState(ctx context.Context, id string) (model.State, error) {
	wf, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	return wf.CurrentState, nil
}

// AgentOutputs returns the accepted outputs in submission order.
func (s *Service) AgentOutputs(ctx context.Context, id string) ([]*model.AgentOutput, error) {
	wf, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return wf.AgentOutputs, nil
}

// IsAnalysisComplete reports whether every required role has reported.
func (s *Service) IsAnalysisComplete(ctx context.Context, id string) (bool, error) {
	wf, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}
	return correlation.NewGroup(id, model.RequiredRoles, wf.AgentOutputs...).IsComplete(), nil
}

// AnalysisSummary aggregates counts, mean confidence, skill usage and validity.
func (s *Service) AnalysisSummary(ctx context.Context, id string) (*correlation.Summary, error) {
	wf, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return correlation.Summarize(id, wf.AgentOutputs), nil
}

// CorrelateAgentOutputs returns the structural correlation of the outputs.
func (s *Service) CorrelateAgentOutputs(ctx context.Context, id string) (*correlation.Result, error) {
	wf, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return correlation.Correlate(id, wf.AgentOutputs), nil
}
