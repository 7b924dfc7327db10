package memory

import (
	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/service/event"
)

// Option configures the in-memory audit log.
type Option func(*Service)

// WithNotifier publishes an audit_event_generated notification per append.
func WithNotifier(notifier event.Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

// WithExportURL uploads exported bundles under the given afs URL.
func WithExportURL(URL string) Option {
	return func(s *Service) { s.exportURL = URL }
}

// WithClock sets the clock used for export timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}
