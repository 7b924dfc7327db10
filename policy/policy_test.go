package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/service/governance/risk"
)

func input(action string, confidence float64, businessHours bool) Input {
	assessor := risk.NewAssessor(clockOption(businessHours), risk.WithBusinessHours(risk.BusinessHours{Start: 9, End: 17, Location: time.UTC}))
	return Input{
		Action:          action,
		ConfidenceLevel: confidence,
		BlastRadius:     assessor.Assess(action, confidence),
		BusinessHours:   assessor.IsBusinessHours(),
	}
}

func clockOption(businessHours bool) risk.Option {
	at := time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC)
	if businessHours {
		at = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	}
	return risk.WithClock(clock.Fixed(at))
}

func TestConflicts_Rules(t *testing.T) {
	testCases := []struct {
		name          string
		action        string
		businessHours bool
		expect        string
	}{
		{name: "production deployment", action: "Deploy build 42 to production", expect: "Production deployment requires change advisory approval"},
		{name: "database modification", action: "Alter the postgres schema", expect: "Database modification requires DBA review"},
		{name: "security change", action: "Grant IAM role to the deploy bot", expect: "Security or permission change requires security team approval"},
		{name: "business hours restart", action: "Restart checkout", businessHours: true, expect: "Service restart during business hours"},
		{name: "critical path destructive", action: "Remove the auth sidecar", expect: "Destructive action on critical path services"},
		{name: "data purge", action: "Purge the event backlog", expect: "Data deletion requires data retention review"},
		{name: "network change", action: "Update firewall rules", expect: "Network change may affect connectivity across services"},
		{name: "compliance system", action: "Restart the PCI tokenizer", expect: "Action touches a compliance-controlled system"},
		{name: "scale down", action: "Scale down workers to 2", expect: "Scale-down may leave insufficient capacity"},
		{name: "third party", action: "Switch traffic to the Stripe fallback", expect: "Action depends on a third-party service"},
		{name: "configuration change", action: "Change the pool size setting", expect: "Configuration change requires peer review"},
		{name: "monitoring disablement", action: "Silence Prometheus alerts for an hour", expect: "Disabling monitoring reduces incident visibility"},
	}
	var p *Policy
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conflicts := p.Conflicts(input(tc.action, 0.9, tc.businessHours))
			assert.Contains(t, conflicts, tc.expect)
		})
	}
}

func TestConflicts_LowConfidence(t *testing.T) {
	var p *Policy
	assert.Contains(t, p.Conflicts(input("Restart the api", 0.4, false)), "Low analysis confidence (0.40) for a non-recovery action")
	assert.Empty(t, p.Conflicts(input("Roll back the api release", 0.4, false)))
	assert.Empty(t, p.Conflicts(input("Restart the api", 0.9, false)))
}

func TestConflicts_Scenario(t *testing.T) {
	var p *Policy
	conflicts := p.Conflicts(input("Delete corrupted database tables and restart all services", 0.3, false))
	assert.Equal(t, []string{
		"Database modification requires DBA review",
		"Destructive action on critical path services",
		"Data deletion requires data retention review",
		"Low analysis confidence (0.30) for a non-recovery action",
	}, conflicts)
}

func TestConflicts_ContextServices(t *testing.T) {
	var p *Policy
	action := "Drop the orders table"
	assessor := risk.NewAssessor(clockOption(false))
	assert.NotContains(t, p.Conflicts(Input{Action: action, ConfidenceLevel: 0.9, BlastRadius: assessor.Assess(action, 0.9)}),
		"Database modification requires DBA review")
	withContext := assessor.Assess(action, 0.9, "orders table bloated on the postgres primary")
	assert.Contains(t, p.Conflicts(Input{Action: action, ConfidenceLevel: 0.9, BlastRadius: withContext}),
		"Database modification requires DBA review")
}

func TestConflicts_Keywords(t *testing.T) {
	p := FromConfig(&Config{BlockList: []string{" Kubectl Delete "}, RequireApproval: []string{"payments"}})
	assert.Equal(t, []string{"kubectl delete"}, p.BlockList)
	conflicts := p.Conflicts(input("kubectl delete pod in payments namespace", 0.9, false))
	assert.Contains(t, conflicts, `Action matches blocked keyword "kubectl delete"`)
	assert.Contains(t, conflicts, `Action matches keyword "payments" that requires explicit approval`)
	assert.Equal(t, &Config{BlockList: []string{"kubectl delete"}, RequireApproval: []string{"payments"}}, ToConfig(p))
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	p := &Policy{BlockList: []string{"drop"}}
	assert.Same(t, p, FromContext(WithPolicy(context.Background(), p)))
}
