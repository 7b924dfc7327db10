package govflow

import (
	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/metrics"
	"github.com/viant/govflow/model"
	"github.com/viant/govflow/service/audit"
	"github.com/viant/govflow/service/dao"
	"github.com/viant/govflow/service/event"
	"github.com/viant/govflow/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures the Service.
type Option func(s *Service)

// WithConfig sets the configuration; DefaultConfig is used otherwise.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithClock sets the time source shared by the engine, gate and audit log.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithWorkflowDAO sets the workflow repository, overriding config.Storage.
func WithWorkflowDAO(workflowDAO dao.Service[string, model.Workflow]) Option {
	return func(s *Service) {
		s.workflowDAO = workflowDAO
	}
}

// WithAuditLog sets the audit log, overriding the in-memory default.
func WithAuditLog(auditLog audit.Log) Option {
	return func(s *Service) {
		s.auditLog = auditLog
	}
}

// WithNotifier sets the external sink receiving every notification. Events
// are delivered from a background listener, never on the caller's goroutine.
func WithNotifier(notifier event.Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = recorder
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		s.tracingErr = tracing.Init(serviceName, serviceVersion, outputFile)
		s.tracing = s.tracingErr == nil
	}
}

// WithTracingExporter configures tracing with a custom SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.tracingErr = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
		s.tracing = s.tracingErr == nil
	}
}
