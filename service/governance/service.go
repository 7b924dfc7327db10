package governance

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/internal/idgen"
	"github.com/viant/govflow/internal/keylock"
	"github.com/viant/govflow/internal/log"
	"github.com/viant/govflow/metrics"
	"github.com/viant/govflow/model"
	"github.com/viant/govflow/policy"
	"github.com/viant/govflow/service/event"
	"github.com/viant/govflow/service/governance/risk"
	"github.com/viant/govflow/service/workflow"
	"github.com/viant/govflow/stats"
	"github.com/viant/govflow/tracing"
)

// Engine is the part of the workflow engine the gate drives.
type Engine interface {
	CurrentState(ctx context.Context, id string) (model.State, error)
	AddGovernanceDecision(ctx context.Context, id string, decision *model.GovernanceDecision) (*model.Workflow, error)
	TransitionTo(ctx context.Context, id string, target model.State) (*model.Workflow, error)
	ClaimTerminator() (workflow.Terminator, error)
}

// Service is the governance gate.
type Service struct {
	engine        Engine
	terminator    workflow.Terminator
	registry      *registry
	assessor      *risk.Assessor
	businessHours *risk.BusinessHours
	policy        *policy.Policy
	notifier      event.Notifier
	clock         clock.Clock
	metrics       *metrics.Recorder
	stats         *stats.Tracker
	locks         *keylock.Locker
}

// New creates the gate and claims the engine's termination capability; it
// fails when another component already holds it.
func New(engine Engine, options ...Option) (*Service, error) {
	terminator, err := engine.ClaimTerminator()
	if err != nil {
		return nil, fmt.Errorf("failed to create governance gate: %w", err)
	}
	ret := &Service{
		engine:     engine,
		terminator: terminator,
		registry:   &registry{pending: newMemoryStore(), completed: newMemoryStore()},
		locks:      keylock.New(),
	}
	for _, option := range options {
		option(ret)
	}
	if ret.clock == nil {
		ret.clock = clock.System()
	}
	if ret.notifier == nil {
		ret.notifier = event.Nop()
	}
	if ret.stats == nil {
		ret.stats = stats.New(nil)
	}
	assessorOptions := []risk.Option{risk.WithClock(ret.clock)}
	if ret.businessHours != nil {
		assessorOptions = append(assessorOptions, risk.WithBusinessHours(*ret.businessHours))
	}
	ret.assessor = risk.NewAssessor(assessorOptions...)
	return ret, nil
}

// CreateRequest opens a governance request for a workflow in
// GOVERNANCE_PENDING. A policy embedded in ctx with policy.WithPolicy
// overrides the configured one.
func (s *Service) CreateRequest(ctx context.Context, workflowID, recommendedAction string, contextData ContextData) (req *Request, err error) {
	ctx, span := tracing.StartSpan(ctx, "governance.createRequest", map[string]string{"workflowId": workflowID})
	defer func() { tracing.EndSpan(span, err) }()

	var messages []string
	if strings.TrimSpace(recommendedAction) == "" {
		messages = append(messages, "Recommended action is required")
	}
	if c := contextData.ConfidenceLevel; math.IsNaN(c) || c < 0 || c > 1 {
		messages = append(messages, fmt.Sprintf("Confidence level must be within [0,1], got %v", c))
	}
	if len(messages) > 0 {
		return nil, &workflow.ValidationError{Messages: messages}
	}

	unlock := s.locks.Lock("workflow:" + workflowID)
	defer unlock()
	state, err := s.engine.CurrentState(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if state != model.StateGovernancePending {
		return nil, fmt.Errorf("%w: workflow %s is %s", ErrWorkflowNotPending, workflowID, state)
	}

	active := policy.FromContext(ctx)
	if active == nil {
		active = s.policy
	}
	blastRadius := s.assessor.Assess(recommendedAction, contextData.ConfidenceLevel, contextData.Texts()...)
	conflicts := active.Conflicts(policy.Input{
		Action:          recommendedAction,
		ConfidenceLevel: contextData.ConfidenceLevel,
		BlastRadius:     blastRadius,
		BusinessHours:   s.assessor.IsBusinessHours(),
	})
	now := s.clock.Now()
	req = &Request{
		ID:                idgen.WithPrefix("gov"),
		WorkflowID:        workflowID,
		Timestamp:         now,
		RecommendedAction: recommendedAction,
		BlastRadius:       blastRadius,
		PolicyConflicts:   conflicts,
		Context:           contextData,
		Status:            StatusPending,
		CreatedAt:         now,
	}
	req.Context.AgentFindings = append([]string(nil), contextData.AgentFindings...)
	if err = s.registry.open(ctx, req); err != nil {
		return nil, err
	}
	s.stats.Update(stats.Delta{Pending: 1})
	s.metrics.GovernanceRequest(string(blastRadius.RiskLevel))
	s.notifier.Publish(ctx, event.New(event.TypeGovernanceRequired, workflowID, now, req.Clone()))
	log.ForWorkflow(workflowID).WithField("requestId", req.ID).
		WithField("riskLevel", blastRadius.RiskLevel).
		Infof("governance request created with %d policy conflict(s)", len(conflicts))
	return req.Clone(), nil
}

// ApprovalInterface describes the options available for a pending request,
// or nil when the request is unknown or already decided. Plain approval is
// unavailable for critical risk or when policy conflicts exist.
func (s *Service) ApprovalInterface(ctx context.Context, requestID string) *ApprovalInterface {
	req, err := s.registry.pendingSnapshot(ctx, requestID)
	if err != nil {
		return nil
	}
	approve := ApprovalOption{Decision: model.DecisionApprove, Label: "Approve", Available: true}
	switch {
	case req.BlastRadius != nil && req.BlastRadius.RiskLevel == model.RiskCritical:
		approve.Available = false
		approve.Reason = "Risk level is critical"
	case len(req.PolicyConflicts) > 0:
		approve.Available = false
		approve.Reason = fmt.Sprintf("%d policy conflict(s) detected", len(req.PolicyConflicts))
	}
	return &ApprovalInterface{
		RequestID:         req.ID,
		WorkflowID:        req.WorkflowID,
		RecommendedAction: req.RecommendedAction,
		BlastRadius:       req.BlastRadius,
		PolicyConflicts:   req.PolicyConflicts,
		Context:           req.Context,
		Options: []ApprovalOption{
			approve,
			{Decision: model.DecisionApproveWithRestrictions, Label: "Approve with restrictions", Available: true, RequiresRestrictions: true},
			{Decision: model.DecisionBlock, Label: "Block", Available: true},
		},
	}
}
