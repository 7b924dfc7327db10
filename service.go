package govflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/internal/log"
	"github.com/viant/govflow/metrics"
	"github.com/viant/govflow/model"
	"github.com/viant/govflow/policy"
	"github.com/viant/govflow/runtime/correlation"
	"github.com/viant/govflow/service/audit"
	amemory "github.com/viant/govflow/service/audit/memory"
	"github.com/viant/govflow/service/dao"
	wfs "github.com/viant/govflow/service/dao/workflow/fs"
	wmemory "github.com/viant/govflow/service/dao/workflow/memory"
	"github.com/viant/govflow/service/event"
	"github.com/viant/govflow/service/governance"
	"github.com/viant/govflow/service/messaging"
	mfs "github.com/viant/govflow/service/messaging/fs"
	mmemory "github.com/viant/govflow/service/messaging/memory"
	"github.com/viant/govflow/service/workflow"
	"github.com/viant/govflow/stats"
	"github.com/viant/govflow/tracing"
)

// Service wires the workflow engine, the governance gate and their
// collaborators from a Config.
type Service struct {
	config      *Config
	clock       clock.Clock
	workflowDAO dao.Service[string, model.Workflow]
	auditLog    audit.Log
	notifier    event.Notifier
	publisher   *event.Publisher
	listener    *event.Listener
	metrics     *metrics.Recorder
	stats       *stats.Tracker
	tracing     bool
	tracingErr  error
	engine      *workflow.Service
	gate        *governance.Service
}

// New creates a Service and starts the notification listener; call Close
// to stop it.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.tracingErr != nil {
		return nil, fmt.Errorf("failed to initialise tracing: %w", ret.tracingErr)
	}
	if err := ret.init(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(ctx context.Context) error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	log.SetLevel(s.config.Log.Level)
	if s.config.Tracing.Enabled && !s.tracing {
		if err := tracing.Init(s.config.Tracing.ServiceName, "", s.config.Tracing.OutputFile); err != nil {
			return fmt.Errorf("failed to initialise tracing: %w", err)
		}
		s.tracing = true
	}
	if s.clock == nil {
		s.clock = clock.System()
	}

	queue, err := s.newQueue(ctx)
	if err != nil {
		return err
	}
	s.publisher = event.NewPublisher(queue)
	s.publisher.OnDrop(func(*event.Event) { s.metrics.DroppedEvent() })
	if s.notifier == nil {
		s.notifier = event.Nop()
	}
	external := s.notifier
	s.listener = event.NewListener(s.publisher, func(e *event.Event) {
		external.Publish(context.Background(), e)
	})

	if s.workflowDAO == nil {
		workflowDAO, err := s.newWorkflowDAO(ctx)
		if err != nil {
			return err
		}
		s.workflowDAO = workflowDAO
	}
	if s.auditLog == nil {
		s.auditLog = amemory.New(
			amemory.WithClock(s.clock),
			amemory.WithNotifier(s.publisher),
			amemory.WithExportURL(s.config.Audit.ExportURL),
		)
	}
	s.stats = stats.New(s.metrics.ObserveStats)

	s.engine = workflow.New(
		workflow.WithWorkflowDAO(s.workflowDAO),
		workflow.WithAuditLog(s.auditLog),
		workflow.WithNotifier(s.publisher),
		workflow.WithClock(s.clock),
		workflow.WithMetrics(s.metrics),
	)
	hours, err := s.config.BusinessHours()
	if err != nil {
		return err
	}
	s.gate, err = governance.New(s.engine,
		governance.WithClock(s.clock),
		governance.WithNotifier(s.publisher),
		governance.WithBusinessHours(hours),
		governance.WithPolicy(policy.FromConfig(&s.config.Policy)),
		governance.WithMetrics(s.metrics),
		governance.WithStats(s.stats),
	)
	if err != nil {
		return err
	}
	s.listener.Start(context.WithoutCancel(ctx))
	return nil
}

func (s *Service) newQueue(ctx context.Context) (messaging.Queue[event.Event], error) {
	if s.config.Notifier.Kind == StorageFS {
		return mfs.NewQueue[event.Event](ctx, afs.New(), mfs.DefaultConfig(s.config.Notifier.BaseURL))
	}
	config := mmemory.DefaultConfig()
	config.QueueBuffer = s.config.Notifier.QueueBuffer
	return mmemory.NewQueue[event.Event](config), nil
}

func (s *Service) newWorkflowDAO(ctx context.Context) (dao.Service[string, model.Workflow], error) {
	if s.config.Storage.Kind == StorageFS {
		return wfs.New(ctx, s.config.Storage.BaseURL)
	}
	return wmemory.New(), nil
}

// Engine returns the workflow engine.
func (s *Service) Engine() *workflow.Service {
	return s.engine
}

// Gate returns the governance gate.
func (s *Service) Gate() *governance.Service {
	return s.gate
}

// AuditLog returns the audit log.
func (s *Service) AuditLog() audit.Log {
	return s.auditLog
}

// Config returns the effective configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Statistics returns the governance statistics.
func (s *Service) Statistics() stats.Snapshot {
	return s.gate.Statistics()
}

// DroppedNotifications returns the number of notifications the queue refused.
func (s *Service) DroppedNotifications() int64 {
	return s.publisher.Dropped()
}

// RequestGovernance opens a governance request whose context is built from
// the workflow's analysis: the average agent confidence, one finding per
// agent output and the shared-keyword correlation.
func (s *Service) RequestGovernance(ctx context.Context, workflowID, recommendedAction, incidentSummary string) (*governance.Request, error) {
	summary, err := s.engine.AnalysisSummary(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	correlated, err := s.engine.CorrelateAgentOutputs(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	outputs, err := s.engine.AgentOutputs(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	contextData := governance.ContextData{
		IncidentSummary:    incidentSummary,
		ConfidenceLevel:    summary.AverageConfidence,
		CorrelationSummary: describeCorrelation(correlated.KeywordGroups, correlated.SkillsUtilization),
	}
	for _, output := range outputs {
		contextData.AgentFindings = append(contextData.AgentFindings, fmt.Sprintf("%s: %s", output.Role, output.Findings.Summary))
	}
	return s.gate.CreateRequest(ctx, workflowID, recommendedAction, contextData)
}

func describeCorrelation(groups []correlation.KeywordGroup, utilization float64) string {
	var keywords []string
	for _, group := range groups {
		keywords = append(keywords, group.Keyword)
	}
	if len(keywords) == 0 {
		return fmt.Sprintf("no shared keywords; skills utilization %.0f%%", utilization*100)
	}
	return fmt.Sprintf("shared keywords: %s; skills utilization %.0f%%", strings.Join(keywords, ", "), utilization*100)
}

// Close stops notification delivery and flushes traces.
func (s *Service) Close(ctx context.Context) error {
	if s.listener != nil {
		s.listener.Stop()
	}
	if s.tracing {
		return tracing.Shutdown(ctx)
	}
	return nil
}
