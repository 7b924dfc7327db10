package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/internal/idgen"
	"github.com/viant/govflow/internal/keylock"
	"github.com/viant/govflow/internal/log"
	"github.com/viant/govflow/metrics"
	"github.com/viant/govflow/model"
	"github.com/viant/govflow/service/audit"
	amemory "github.com/viant/govflow/service/audit/memory"
	"github.com/viant/govflow/service/dao"
	wmemory "github.com/viant/govflow/service/dao/workflow/memory"
	"github.com/viant/govflow/service/event"
	"github.com/viant/govflow/tracing"
)

// Service is the workflow engine.
type Service struct {
	workflowDAO    dao.Service[string, model.Workflow]
	auditLog       audit.Log
	notifier       event.Notifier
	clock          clock.Clock
	metrics        *metrics.Recorder
	locks          *keylock.Locker
	onAuditFailure func(e *model.AuditEvent, err error)
	terminator     atomic.Bool
}

// New creates an engine. Unset collaborators default to an in-memory
// repository, an in-memory audit log, a no-op notifier and the system clock.
func New(options ...Option) *Service {
	ret := &Service{locks: keylock.New()}
	for _, option := range options {
		option(ret)
	}
	if ret.clock == nil {
		ret.clock = clock.System()
	}
	if ret.notifier == nil {
		ret.notifier = event.Nop()
	}
	if ret.workflowDAO == nil {
		ret.workflowDAO = wmemory.New()
	}
	if ret.auditLog == nil {
		ret.auditLog = amemory.New(amemory.WithClock(ret.clock))
	}
	return ret
}

// AuditLog returns the audit log the engine appends to.
func (s *Service) AuditLog() audit.Log {
	return s.auditLog
}

// CreateWorkflow creates a workflow in IDLE with a single audit event. It
// only fails when the repository cannot persist the instance.
func (s *Service) CreateWorkflow(ctx context.Context) (*model.Workflow, error) {
	now := s.clock.Now()
	wf := &model.Workflow{
		ID:           idgen.New(),
		CurrentState: model.StateIdle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	ctx, span := tracing.StartSpan(ctx, "workflow.create", map[string]string{"workflowId": wf.ID})
	auditEvent := s.newAuditEvent(wf.ID, model.AuditStateTransition, model.ActorOrchestrator, map[string]interface{}{
		"fromState": "",
		"toState":   string(model.StateIdle),
	})
	wf.AuditTrail = append(wf.AuditTrail, auditEvent)

	unlock := s.locks.Lock(wf.ID)
	err := s.workflowDAO.Save(ctx, wf)
	unlock()
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("failed to persist workflow %s: %w", wf.ID, err)
	}
	s.appendAudit(ctx, auditEvent)
	s.metrics.Transition("", string(model.StateIdle))
	s.publish(ctx, event.TypeWorkflowState, wf.ID, map[string]interface{}{
		"state": model.StateIdle,
	})
	log.ForWorkflow(wf.ID).Debug("workflow created")
	return wf.Clone(), nil
}

// TransitionTo moves the workflow to target when target is adjacent to the
// current state. Leaving GOVERNANCE_PENDING for ACTION_PROPOSED also
// requires an attached decision that is not a block.
func (s *Service) TransitionTo(ctx context.Context, id string, target model.State) (wf *model.Workflow, err error) {
	ctx, span := tracing.StartSpan(ctx, "workflow.transition", map[string]string{"workflowId": id, "target": string(target)})
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.locks.Lock(id)
	defer unlock()
	if wf, err = s.load(ctx, id); err != nil {
		return nil, err
	}
	from := wf.CurrentState
	if err = validateTransition(wf, target); err != nil {
		s.metrics.RejectedTransition(string(from), string(target))
		log.ForWorkflow(id).WithError(err).Debug("transition rejected")
		return nil, err
	}
	transition := s.applyTransition(wf, target, false)
	if err = s.workflowDAO.Save(ctx, wf); err != nil {
		return nil, fmt.Errorf("failed to persist workflow %s: %w", id, err)
	}
	s.appendAudit(ctx, transition)
	s.metrics.Transition(string(from), string(target))
	s.publish(ctx, event.TypeWorkflowState, id, map[string]interface{}{
		"fromState": from,
		"toState":   target,
	})
	return wf.Clone(), nil
}

// TerminateWorkflow transitions to TERMINATED under the adjacency rules and
// records the reason.
func (s *Service) TerminateWorkflow(ctx context.Context, id, reason string) (wf *model.Workflow, err error) {
	ctx, span := tracing.StartSpan(ctx, "workflow.terminate", map[string]string{"workflowId": id})
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.locks.Lock(id)
	defer unlock()
	if wf, err = s.load(ctx, id); err != nil {
		return nil, err
	}
	if err = validateTransition(wf, model.StateTerminated); err != nil {
		s.metrics.RejectedTransition(string(wf.CurrentState), string(model.StateTerminated))
		return nil, err
	}
	return s.terminate(ctx, wf, reason, model.ActorOrchestrator, false)
}

// forceTerminate terminates from any non-terminated state.
func (s *Service) forceTerminate(ctx context.Context, id, reason, actor string) (wf *model.Workflow, err error) {
	ctx, span := tracing.StartSpan(ctx, "workflow.forceTerminate", map[string]string{"workflowId": id})
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.locks.Lock(id)
	defer unlock()
	if wf, err = s.load(ctx, id); err != nil {
		return nil, err
	}
	if wf.CurrentState.IsTerminal() {
		s.metrics.RejectedTransition(string(wf.CurrentState), string(model.StateTerminated))
		return nil, fmt.Errorf("%w: workflow %s is already %s", ErrInvalidStateTransition, id, model.StateTerminated)
	}
	return s.terminate(ctx, wf, reason, actor, true)
}

func (s *Service) terminate(ctx context.Context, wf *model.Workflow, reason, actor string, forced bool) (*model.Workflow, error) {
	from := wf.CurrentState
	transition := s.applyTransition(wf, model.StateTerminated, forced)
	termination := s.newAuditEvent(wf.ID, model.AuditWorkflowTermination, actor, map[string]interface{}{
		"reason":    reason,
		"fromState": string(from),
		"forced":    forced,
	})
	wf.TerminationReason = reason
	wf.AuditTrail = append(wf.AuditTrail, termination)
	if err := s.workflowDAO.Save(ctx, wf); err != nil {
		return nil, fmt.Errorf("failed to persist workflow %s: %w", wf.ID, err)
	}
	s.appendAudit(ctx, transition)
	s.appendAudit(ctx, termination)
	s.metrics.Transition(string(from), string(model.StateTerminated))
	s.publish(ctx, event.TypeWorkflowState, wf.ID, map[string]interface{}{
		"fromState": from,
		"toState":   model.StateTerminated,
		"reason":    reason,
		"forced":    forced,
	})
	log.ForWorkflow(wf.ID).WithField("forced", forced).Infof("workflow terminated: %s", reason)
	return wf.Clone(), nil
}

// AddAgentOutput validates and appends an agent output.
func (s *Service) AddAgentOutput(ctx context.Context, id string, output *model.AgentOutput) (wf *model.Workflow, err error) {
	role := ""
	if output != nil {
		role = string(output.Role)
	}
	ctx, span := tracing.StartSpan(ctx, "workflow.addAgentOutput", map[string]string{"workflowId": id, "role": role})
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.locks.Lock(id)
	defer unlock()
	if wf, err = s.load(ctx, id); err != nil {
		return nil, err
	}
	if wf.CurrentState.IsTerminal() {
		s.metrics.AgentOutput(role, false)
		return nil, &ValidationError{Messages: []string{fmt.Sprintf("workflow %s is %s", id, model.StateTerminated)}}
	}
	if err = validateAgentOutput(output); err != nil {
		s.metrics.AgentOutput(role, false)
		return nil, err
	}
	accepted := output.Clone()
	accepted.Validation = model.Validation{SkillsValid: true, ConfidenceValid: true, SchemaValid: true}
	accepted.ReportedAt = s.clock.Now()
	auditEvent := s.newAuditEvent(id, model.AuditAgentOutput, role, map[string]interface{}{
		"role":          role,
		"skillsUsed":    strings.Join(accepted.SkillsUsed, ","),
		"confidence":    accepted.Confidence,
		"evidenceCount": len(accepted.Findings.Evidence),
	})
	wf.AgentOutputs = append(wf.AgentOutputs, accepted)
	wf.AuditTrail = append(wf.AuditTrail, auditEvent)
	wf.UpdatedAt = auditEvent.Timestamp
	if err = s.workflowDAO.Save(ctx, wf); err != nil {
		return nil, fmt.Errorf("failed to persist workflow %s: %w", id, err)
	}
	s.appendAudit(ctx, auditEvent)
	s.metrics.AgentOutput(role, true)
	s.publish(ctx, event.TypeAgentOutput, id, accepted.Clone())
	return wf.Clone(), nil
}

// AddGovernanceDecision attaches a decision to a workflow in
// GOVERNANCE_PENDING. The state does not change.
func (s *Service) AddGovernanceDecision(ctx context.Context, id string, decision *model.GovernanceDecision) (wf *model.Workflow, err error) {
	ctx, span := tracing.StartSpan(ctx, "workflow.addGovernanceDecision", map[string]string{"workflowId": id})
	defer func() { tracing.EndSpan(span, err) }()

	if decision == nil {
		return nil, &ValidationError{Messages: []string{"decision is required"}}
	}
	unlock := s.locks.Lock(id)
	defer unlock()
	if wf, err = s.load(ctx, id); err != nil {
		return nil, err
	}
	if wf.CurrentState != model.StateGovernancePending {
		return nil, fmt.Errorf("%w: decisions are accepted only in %s, workflow %s is %s",
			ErrInvalidStateTransition, model.StateGovernancePending, id, wf.CurrentState)
	}
	if wf.GovernanceDecision != nil {
		return nil, fmt.Errorf("%w: workflow %s", ErrDecisionAlreadyAttached, id)
	}
	if !decision.Kind.IsValid() {
		return nil, &ValidationError{Messages: []string{fmt.Sprintf("invalid decision: %q", decision.Kind)}}
	}
	attached := decision.Clone()
	auditEvent := s.newAuditEvent(id, model.AuditGovernanceDecision, model.ActorHuman, map[string]interface{}{
		"decision":     string(attached.Kind),
		"rationale":    attached.Rationale,
		"approverId":   attached.Approver.ID,
		"approverRole": attached.Approver.Role,
		"restrictions": strings.Join(attached.Restrictions, "; "),
	})
	wf.GovernanceDecision = attached
	wf.AuditTrail = append(wf.AuditTrail, auditEvent)
	wf.UpdatedAt = auditEvent.Timestamp
	if err = s.workflowDAO.Save(ctx, wf); err != nil {
		return nil, fmt.Errorf("failed to persist workflow %s: %w", id, err)
	}
	s.appendAudit(ctx, auditEvent)
	return wf.Clone(), nil
}

func (s *Service) load(ctx context.Context, id string) (*model.Workflow, error) {
	wf, err := s.workflowDAO.Load(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) || errors.Is(err, dao.ErrInvalidID) {
			return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
		}
		return nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
	}
	return wf, nil
}

// applyTransition mutates wf (a private copy) and returns the audit event.
func (s *Service) applyTransition(wf *model.Workflow, target model.State, forced bool) *model.AuditEvent {
	details := map[string]interface{}{
		"fromState": string(wf.CurrentState),
		"toState":   string(target),
	}
	if forced {
		details["forced"] = true
	}
	auditEvent := s.newAuditEvent(wf.ID, model.AuditStateTransition, model.ActorOrchestrator, details)
	wf.CurrentState = target
	wf.UpdatedAt = auditEvent.Timestamp
	wf.AuditTrail = append(wf.AuditTrail, auditEvent)
	return auditEvent
}

func (s *Service) newAuditEvent(workflowID string, eventType model.AuditEventType, actor string, details map[string]interface{}) *model.AuditEvent {
	return &model.AuditEvent{
		ID:         idgen.New(),
		WorkflowID: workflowID,
		Type:       eventType,
		Timestamp:  s.clock.Now(),
		Actor:      actor,
		Details:    details,
		Immutable:  true,
	}
}

// appendAudit runs after the state change is committed. A failure is not
// returned to the caller; it is logged, counted and handed to the hook.
func (s *Service) appendAudit(ctx context.Context, e *model.AuditEvent) {
	_, err := s.auditLog.Append(ctx, e)
	if err == nil {
		return
	}
	log.ForWorkflow(e.WorkflowID).WithError(err).WithField("eventType", e.Type).
		Error("state change committed but audit record is missing")
	s.metrics.AuditFailure(string(e.Type))
	if s.onAuditFailure != nil {
		s.onAuditFailure(e.Clone(), err)
	}
}

func (s *Service) publish(ctx context.Context, eventType event.Type, workflowID string, payload interface{}) {
	s.notifier.Publish(ctx, event.New(eventType, workflowID, s.clock.Now(), payload))
}

func validateTransition(wf *model.Workflow, target model.State) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: unknown state %q", ErrInvalidStateTransition, target)
	}
	if !wf.CurrentState.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, wf.CurrentState, target)
	}
	if wf.CurrentState == model.StateGovernancePending && target == model.StateActionProposed {
		switch {
		case wf.GovernanceDecision == nil:
			return fmt.Errorf("%w: %s -> %s requires a governance decision", ErrInvalidStateTransition, wf.CurrentState, target)
		case wf.GovernanceDecision.Kind == model.DecisionBlock:
			return fmt.Errorf("%w: %s -> %s blocked by governance", ErrInvalidStateTransition, wf.CurrentState, target)
		}
	}
	return nil
}

func validateAgentOutput(output *model.AgentOutput) error {
	if output == nil {
		return &ValidationError{Messages: []string{"agent output is required"}}
	}
	var messages []string
	if !output.Role.IsValid() {
		messages = append(messages, fmt.Sprintf("unknown agent role: %q", output.Role))
	} else {
		for _, skill := range output.SkillsUsed {
			if !output.Role.HasSkill(skill) {
				messages = append(messages, fmt.Sprintf("skill %q is not allowed for %s", skill, output.Role))
			}
		}
	}
	if math.IsNaN(output.Confidence) || output.Confidence < 0 || output.Confidence > 1 {
		messages = append(messages, fmt.Sprintf("confidence must be within [0,1], got %v", output.Confidence))
	}
	if strings.TrimSpace(output.Findings.Summary) == "" {
		messages = append(messages, "findings summary is required")
	}
	evidence := 0
	for _, item := range output.Findings.Evidence {
		if strings.TrimSpace(item) != "" {
			evidence++
		}
	}
	if evidence == 0 {
		messages = append(messages, "at least one evidence item is required")
	}
	return newValidationError(messages)
}
