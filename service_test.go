package govflow_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/govflow"
	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/metrics"
	"github.com/viant/govflow/model"
	"github.com/viant/govflow/service/event"
	"github.com/viant/govflow/service/workflow"
)

var mondayNight = time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC)

type collector struct {
	mu     sync.Mutex
	events []*event.Event
}

func (c *collector) Publish(_ context.Context, e *event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collector) count(eventType event.Type) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	ret := 0
	for _, e := range c.events {
		if e.Type == eventType {
			ret++
		}
	}
	return ret
}

func newService(t *testing.T, options ...govflow.Option) *govflow.Service {
	t.Helper()
	config := govflow.DefaultConfig()
	config.Governance.TimeZone = "UTC"
	srv, err := govflow.New(context.Background(), append([]govflow.Option{
		govflow.WithConfig(config),
		govflow.WithClock(clock.Fixed(mondayNight)),
	}, options...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close(context.Background()) })
	return srv
}

func analysedWorkflow(t *testing.T, srv *govflow.Service, confidence float64) *model.Workflow {
	t.Helper()
	ctx := context.Background()
	engine := srv.Engine()
	wf, err := engine.CreateWorkflow(ctx)
	require.NoError(t, err)
	for _, state := range []model.State{model.StateIncidentIngested, model.StateAnalyzing} {
		_, err = engine.TransitionTo(ctx, wf.ID, state)
		require.NoError(t, err)
	}
	outputs := []*model.AgentOutput{
		{
			Role:       model.RoleSRE,
			SkillsUsed: []string{"log-analysis", "metrics-correlation"},
			Findings:   model.Findings{Summary: "database checksum errors after failed migration", Evidence: []string{"error logs from orders service"}},
			Confidence: confidence,
		},
		{
			Role:       model.RoleSecurity,
			SkillsUsed: []string{"threat-detection"},
			Findings:   model.Findings{Summary: "no intrusion, database corruption caused by migration", Evidence: []string{"audit trail of schema changes"}},
			Confidence: confidence,
		},
		{
			Role:       model.RoleGovernance,
			SkillsUsed: []string{"policy-evaluation"},
			Findings:   model.Findings{Summary: "database changes require DBA review", Evidence: []string{"change policy document"}},
			Confidence: confidence,
		},
	}
	for _, output := range outputs {
		_, err = engine.AddAgentOutput(ctx, wf.ID, output)
		require.NoError(t, err)
	}
	complete, err := engine.IsAnalysisComplete(ctx, wf.ID)
	require.NoError(t, err)
	require.True(t, complete)
	for _, state := range []model.State{model.StateRCAComplete, model.StateGovernancePending} {
		wf, err = engine.TransitionTo(ctx, wf.ID, state)
		require.NoError(t, err)
	}
	return wf
}

func TestService_HappyPath(t *testing.T) {
	notifier := &collector{}
	registry := prometheus.NewRegistry()
	srv := newService(t, govflow.WithNotifier(notifier), govflow.WithMetrics(metrics.New(&metrics.Config{Namespace: "govflow", Registry: registry})))
	ctx := context.Background()

	wf := analysedWorkflow(t, srv, 0.95)
	req, err := srv.RequestGovernance(ctx, wf.ID, "Clear cache on redis", "stale cache entries")
	require.NoError(t, err)
	assert.Equal(t, []string{"cache", "database"}, req.BlastRadius.AffectedServices)
	assert.Equal(t, model.RiskMedium, req.BlastRadius.RiskLevel)
	assert.Equal(t, 7, req.BlastRadius.RiskScore)
	assert.Empty(t, req.PolicyConflicts)
	assert.InDelta(t, 0.95, req.Context.ConfidenceLevel, 1e-9)
	assert.Len(t, req.Context.AgentFindings, 3)
	assert.Contains(t, req.Context.CorrelationSummary, "database")

	result := srv.Gate().ProcessDecision(ctx, req.ID, model.DecisionApprove, "Cache is rebuilt on demand", model.Approver{ID: "u1", Role: "sre-lead"}, nil)
	require.True(t, result.Success, result.Errors)
	for _, state := range []model.State{model.StateVerified, model.StateResolved} {
		_, err = srv.Engine().TransitionTo(ctx, wf.ID, state)
		require.NoError(t, err)
	}

	resolved, err := srv.Engine().Workflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateResolved, resolved.CurrentState)

	bundle, err := srv.AuditLog().ExportArtifacts(ctx, wf.ID)
	require.NoError(t, err)
	assert.True(t, bundle.Verification.Valid)
	assert.Len(t, bundle.Events, len(resolved.AuditTrail))

	snapshot := srv.Statistics()
	assert.Equal(t, 0, snapshot.Pending)
	assert.Equal(t, 1, snapshot.Completed)
	assert.InDelta(t, 1.0, snapshot.ApprovalRate, 1e-9)
	assert.Equal(t, 0.0, snapshot.BlockRate)
	count, err := testutil.GatherAndCount(registry, "govflow_governance_decisions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 0.0, gaugeValue(t, registry, "govflow_governance_requests_pending"))

	require.Eventually(t, func() bool {
		return notifier.count(event.TypeGovernanceDecision) == 1 && notifier.count(event.TypeGovernanceRequired) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Positive(t, notifier.count(event.TypeAuditEventGenerated))
	assert.EqualValues(t, 0, srv.DroppedNotifications())
}

func gaugeValue(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			return family.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("gauge %s not registered", name)
	return 0
}

func TestService_BlockScenario(t *testing.T) {
	srv := newService(t)
	ctx := context.Background()

	wf := analysedWorkflow(t, srv, 0.3)
	req, err := srv.RequestGovernance(ctx, wf.ID, "Delete corrupted database tables and restart all services", "database corruption")
	require.NoError(t, err)
	assert.Equal(t, model.RiskCritical, req.BlastRadius.RiskLevel)
	assert.False(t, srv.Gate().ApprovalInterface(ctx, req.ID).Options[0].Available)

	result := srv.Gate().ProcessDecision(ctx, req.ID, model.DecisionApproveWithRestrictions, "Approve with monitoring restrictions", model.Approver{ID: "u1", Role: "sre-lead"}, nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "Restrictions are required when approving with restrictions")

	result = srv.Gate().ProcessDecision(ctx, req.ID, model.DecisionBlock, "Action is too risky for current conditions", model.Approver{ID: "u1", Role: "incident-commander"}, nil)
	require.True(t, result.Success, result.Errors)
	assert.True(t, result.WorkflowTerminated)

	_, err = srv.Engine().TransitionTo(ctx, wf.ID, model.StateActionProposed)
	assert.ErrorIs(t, err, workflow.ErrInvalidStateTransition)
	assert.InDelta(t, 1.0, srv.Statistics().BlockRate, 1e-9)
}

func TestService_IllegalSkip(t *testing.T) {
	srv := newService(t)
	ctx := context.Background()
	wf, err := srv.Engine().CreateWorkflow(ctx)
	require.NoError(t, err)
	_, err = srv.Engine().TransitionTo(ctx, wf.ID, model.StateIncidentIngested)
	require.NoError(t, err)

	_, err = srv.Engine().TransitionTo(ctx, wf.ID, model.StateActionProposed)
	assert.ErrorIs(t, err, workflow.ErrInvalidStateTransition)
	state, err := srv.Engine().CurrentState(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateIncidentIngested, state)
}

func TestService_FileStorage(t *testing.T) {
	config := govflow.DefaultConfig()
	config.Storage = govflow.StorageConfig{Kind: govflow.StorageFS, BaseURL: t.TempDir()}
	config.Audit.ExportURL = t.TempDir()
	ctx := context.Background()
	srv, err := govflow.New(ctx, govflow.WithConfig(config))
	require.NoError(t, err)
	defer srv.Close(ctx)

	wf, err := srv.Engine().CreateWorkflow(ctx)
	require.NoError(t, err)
	_, err = srv.Engine().TransitionTo(ctx, wf.ID, model.StateIncidentIngested)
	require.NoError(t, err)
	bundle, err := srv.AuditLog().ExportArtifacts(ctx, wf.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, bundle.Location)

	reopened, err := govflow.New(ctx, govflow.WithConfig(config))
	require.NoError(t, err)
	defer reopened.Close(ctx)
	state, err := reopened.Engine().CurrentState(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateIncidentIngested, state)
}

func TestNew_InvalidConfig(t *testing.T) {
	config := govflow.DefaultConfig()
	config.Storage.Kind = "tape"
	_, err := govflow.New(context.Background(), govflow.WithConfig(config))
	assert.Error(t, err)
}

func TestService_DurableNotifier(t *testing.T) {
	config := govflow.DefaultConfig()
	config.Notifier = govflow.NotifierConfig{Kind: govflow.StorageFS, QueueBuffer: 1, BaseURL: t.TempDir()}
	notifier := &collector{}
	ctx := context.Background()
	srv, err := govflow.New(ctx, govflow.WithConfig(config), govflow.WithNotifier(notifier))
	require.NoError(t, err)
	defer srv.Close(ctx)

	wf, err := srv.Engine().CreateWorkflow(ctx)
	require.NoError(t, err)
	for _, state := range []model.State{model.StateIncidentIngested, model.StateAnalyzing} {
		_, err = srv.Engine().TransitionTo(ctx, wf.ID, state)
		require.NoError(t, err)
	}
	require.Eventually(t, func() bool {
		return notifier.count(event.TypeWorkflowState) == 3
	}, 3*time.Second, 20*time.Millisecond)
	assert.EqualValues(t, 0, srv.DroppedNotifications())
}
