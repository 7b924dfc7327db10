package governance

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/govflow/internal/log"
	"github.com/viant/govflow/model"
	"github.com/viant/govflow/service/event"
	"github.com/viant/govflow/service/workflow"
	"github.com/viant/govflow/stats"
	"github.com/viant/govflow/tracing"
)

// MinRationaleLength is the minimum trimmed rationale length.
const MinRationaleLength = 10

// ProcessDecision validates and applies a human decision. Validation
// failures leave the request pending and the workflow untouched.
func (s *Service) ProcessDecision(ctx context.Context, requestID string, kind model.DecisionKind, rationale string, approver model.Approver, restrictions []string) (result *DecisionResult) {
	ctx, span := tracing.StartSpan(ctx, "governance.processDecision", map[string]string{"requestId": requestID, "decision": string(kind)})
	defer func() { tracing.EndSpan(span, result.Err) }()

	peek, err := s.registry.pendingSnapshot(ctx, requestID)
	if err != nil {
		return failed(err, "Governance request not found or already processed")
	}
	// workflow before request, the same order CreateRequest observes, held
	// until the follow-up transition so no second request opens in between
	unlockWorkflow := s.locks.Lock("workflow:" + peek.WorkflowID)
	defer unlockWorkflow()
	unlockRequest := s.locks.Lock("request:" + requestID)
	defer unlockRequest()

	snapshot, err := s.registry.pendingSnapshot(ctx, requestID)
	if err != nil {
		return failed(err, "Governance request not found or already processed")
	}
	restrictions = trimmed(restrictions)
	if messages := validateDecision(kind, rationale, approver, restrictions); len(messages) > 0 {
		return failed(&workflow.ValidationError{Messages: messages}, messages...)
	}

	now := s.clock.Now()
	decision := &model.GovernanceDecision{
		Kind:         kind,
		Rationale:    strings.TrimSpace(rationale),
		Approver:     model.Approver{ID: strings.TrimSpace(approver.ID), Role: strings.TrimSpace(approver.Role)},
		Timestamp:    now,
		Restrictions: restrictions,
		BlastRadius:  snapshot.BlastRadius.Clone(),
	}
	completed, err := s.registry.complete(ctx, requestID, func(req *Request) {
		req.Status = statusOf(kind)
		req.DecidedAt = &now
		req.Decision = decision.Clone()
	})
	if err != nil {
		return failed(err, "Governance request not found or already processed")
	}
	logger := log.ForWorkflow(completed.WorkflowID).WithField("requestId", requestID).WithField("decision", kind)

	if _, err = s.engine.AddGovernanceDecision(ctx, completed.WorkflowID, decision); err != nil {
		if rErr := s.registry.reopen(ctx, snapshot); rErr != nil {
			logger.WithError(rErr).Error("failed to reopen governance request")
		}
		return failed(err, err.Error())
	}

	result = &DecisionResult{Decision: decision.Clone()}
	if kind == model.DecisionBlock {
		_, err = s.terminator.ForceTerminate(ctx, completed.WorkflowID, decision.Rationale, model.ActorHuman)
		result.WorkflowTerminated = err == nil
	} else {
		_, err = s.engine.TransitionTo(ctx, completed.WorkflowID, model.StateActionProposed)
	}
	if err != nil {
		// The decision is recorded on both sides; only the follow-up transition failed.
		logger.WithError(err).Error("decision recorded but workflow could not be advanced")
		result.Errors = []string{err.Error()}
		result.Err = err
	} else {
		result.Success = true
	}

	latency := now.Sub(completed.CreatedAt)
	s.stats.Update(stats.Delta{Pending: -1, Decision: kind, Latency: latency})
	s.metrics.Decision(string(kind), latency.Seconds())
	s.notifier.Publish(ctx, event.New(event.TypeGovernanceDecision, completed.WorkflowID, now, map[string]interface{}{
		"requestId":          requestID,
		"decision":           decision.Clone(),
		"workflowTerminated": result.WorkflowTerminated,
	}))
	logger.WithField("workflowTerminated", result.WorkflowTerminated).Info("governance decision processed")
	return result
}

func validateDecision(kind model.DecisionKind, rationale string, approver model.Approver, restrictions []string) []string {
	var messages []string
	if !kind.IsValid() {
		messages = append(messages, fmt.Sprintf("Invalid decision %q: must be one of %s, %s, %s",
			kind, model.DecisionApprove, model.DecisionApproveWithRestrictions, model.DecisionBlock))
	}
	if len(strings.TrimSpace(rationale)) < MinRationaleLength {
		messages = append(messages, fmt.Sprintf("Rationale must be at least %d characters", MinRationaleLength))
	}
	if !approver.IsValid() {
		messages = append(messages, "Approver id and role are required")
	}
	if kind == model.DecisionApproveWithRestrictions && len(restrictions) == 0 {
		messages = append(messages, "Restrictions are required when approving with restrictions")
	}
	return messages
}

func trimmed(values []string) []string {
	var ret []string
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			ret = append(ret, value)
		}
	}
	return ret
}

func failed(err error, messages ...string) *DecisionResult {
	return &DecisionResult{Errors: messages, Err: err}
}
