package workflow

import (
	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/metrics"
	"github.com/viant/govflow/model"
	"github.com/viant/govflow/service/audit"
	"github.com/viant/govflow/service/dao"
	"github.com/viant/govflow/service/event"
)

// Option configures the engine.
type Option func(s *Service)

// WithWorkflowDAO sets the workflow repository.
func WithWorkflowDAO(workflowDAO dao.Service[string, model.Workflow]) Option {
	return func(s *Service) {
		s.workflowDAO = workflowDAO
	}
}

// WithAuditLog sets the audit log receiving every committed audit event.
func WithAuditLog(auditLog audit.Log) Option {
	return func(s *Service) {
		s.auditLog = auditLog
	}
}

// WithNotifier sets the notification sink.
func WithNotifier(notifier event.Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = recorder
	}
}

// WithAuditFailureHandler registers a hook called when a committed mutation
// could not be appended to the audit log.
func WithAuditFailureHandler(fn func(e *model.AuditEvent, err error)) Option {
	return func(s *Service) {
		s.onAuditFailure = fn
	}
}
