package governance

import (
	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/metrics"
	"github.com/viant/govflow/policy"
	"github.com/viant/govflow/service/dao"
	"github.com/viant/govflow/service/event"
	"github.com/viant/govflow/service/governance/risk"
	"github.com/viant/govflow/stats"
)

// Option configures the gate.
type Option func(s *Service)

// WithNotifier sets the notification sink.
func WithNotifier(notifier event.Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

// WithClock sets the time source for timestamps and the business-hours factor.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithBusinessHours sets the business-hours window used in risk scoring.
func WithBusinessHours(hours risk.BusinessHours) Option {
	return func(s *Service) { s.businessHours = &hours }
}

// WithPolicy sets the organisation policy applied on top of built-in rules.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = recorder }
}

// WithStats sets the statistics tracker.
func WithStats(tracker *stats.Tracker) Option {
	return func(s *Service) { s.stats = tracker }
}

// WithRequestDAOs replaces the pending and completed request stores.
func WithRequestDAOs(pending, completed dao.Service[string, Request]) Option {
	return func(s *Service) {
		s.registry.pending = pending
		s.registry.completed = completed
	}
}
