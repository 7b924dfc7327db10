package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/model"
)

// Monday 2024-03-04.
var (
	mondayMorning = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	mondayNight   = time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC)
	saturdayNoon  = time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
)

func utcHours() BusinessHours {
	return BusinessHours{Start: 9, End: 17, Location: time.UTC}
}

func TestAffectedServices(t *testing.T) {
	testCases := []struct {
		action string
		expect []string
	}{
		{"Delete corrupted database tables and restart all services", []string{"database"}},
		{"Flush Redis and restart the API gateway", []string{"api", "cache"}},
		{"Update the load balancer and DNS records", []string{"network"}},
		{"Restart checkout pods", []string{"payment"}},
		{"Restart pods", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.action, func(t *testing.T) {
			assert.Equal(t, tc.expect, AffectedServices(tc.action))
		})
	}
}

func TestAnalyzeDependencies(t *testing.T) {
	testCases := []struct {
		name     string
		affected []string
		expect   model.DependencyAnalysis
	}{
		{
			name:     "database",
			affected: []string{"database"},
			expect: model.DependencyAnalysis{
				DirectDependencies: []string{"api", "auth", "backend", "payment"},
				TotalImpact:        5,
				CriticalPath:       true,
				CascadeRisk:        model.CascadeHigh,
			},
		},
		{
			name:     "frontend only",
			affected: []string{"frontend"},
			expect: model.DependencyAnalysis{
				DirectDependencies: []string{},
				TotalImpact:        1,
				CascadeRisk:        model.CascadeLow,
			},
		},
		{
			name:     "api",
			affected: []string{"api"},
			expect: model.DependencyAnalysis{
				DirectDependencies: []string{"frontend"},
				TotalImpact:        2,
				CriticalPath:       true,
				CascadeRisk:        model.CascadeMedium,
			},
		},
		{
			name:     "cache",
			affected: []string{"cache"},
			expect: model.DependencyAnalysis{
				DirectDependencies: []string{"api", "backend"},
				TotalImpact:        3,
				CascadeRisk:        model.CascadeMedium,
			},
		},
		{
			name:     "affected dependents are not counted twice",
			affected: []string{"api", "frontend"},
			expect: model.DependencyAnalysis{
				DirectDependencies: []string{},
				TotalImpact:        2,
				CriticalPath:       true,
				CascadeRisk:        model.CascadeMedium,
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, AnalyzeDependencies(tc.affected))
		})
	}
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		action string
		expect ActionClass
	}{
		{"Delete corrupted database tables and restart all services", ClassDestructive},
		{"Restarting the payment service", ClassDisruptive},
		{"Deploy hotfix 1.2.3", ClassChange},
		{"Scale the api to 10 replicas", ClassScaling},
		{"Roll back to the previous release", ClassRecovery},
		{"Clear cache on edge nodes", ClassMaintenance},
		{"Investigate further", ClassUnclassified},
	}
	for _, tc := range testCases {
		t.Run(tc.action, func(t *testing.T) {
			assert.Equal(t, tc.expect, Classify(tc.action))
		})
	}
}

func TestIsReversible(t *testing.T) {
	assert.False(t, IsReversible("Drop the sessions table"))
	assert.False(t, IsReversible("Migrate the schema to v2"))
	assert.True(t, IsReversible("Migrate the schema to v2 after taking a snapshot"))
	assert.False(t, IsReversible("Delete old snapshots"))
	assert.True(t, IsReversible("Restart the api"))
}

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name        string
		factors     Factors
		expectLevel model.RiskLevel
		expectScore int
	}{
		{
			name: "destructive database action with low confidence",
			factors: Factors{
				ConfidenceLevel:  0.3,
				AffectedServices: []string{"database"},
				Dependencies:     AnalyzeDependencies([]string{"database"}),
				Action:           "Delete corrupted database tables and restart all services",
			},
			expectScore: 13,
			expectLevel: model.RiskCritical,
		},
		{
			name: "confident cache flush",
			factors: Factors{
				ConfidenceLevel:  0.95,
				AffectedServices: []string{"cache"},
				Dependencies:     AnalyzeDependencies([]string{"cache"}),
				Action:           "Clear cache on redis",
			},
			expectScore: 3,
			expectLevel: model.RiskLow,
		},
		{
			name: "restart during business hours",
			factors: Factors{
				ConfidenceLevel:  0.8,
				AffectedServices: []string{"payment"},
				Dependencies:     AnalyzeDependencies([]string{"payment"}),
				Action:           "Restart checkout",
				BusinessHours:    true,
			},
			// confidence 1 + services 1 + cascade 0 + disruptive 3 + hours 2
			expectScore: 7,
			expectLevel: model.RiskMedium,
		},
		{
			name: "business hours ignored without affected services",
			factors: Factors{
				ConfidenceLevel: 0.9,
				Action:          "Investigate further",
				BusinessHours:   true,
			},
			expectScore: 1,
			expectLevel: model.RiskLow,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			first := Evaluate(tc.factors)
			assert.Equal(t, tc.expectScore, first.Points)
			assert.Equal(t, tc.expectLevel, first.Level)
			assert.Equal(t, first, Evaluate(tc.factors))
		})
	}
}

func TestBucket(t *testing.T) {
	assert.Equal(t, model.RiskLow, Bucket(3))
	assert.Equal(t, model.RiskMedium, Bucket(4))
	assert.Equal(t, model.RiskHigh, Bucket(8))
	assert.Equal(t, model.RiskCritical, Bucket(12))
}

func TestBusinessHours(t *testing.T) {
	hours := utcHours()
	assert.True(t, hours.Contains(mondayMorning))
	assert.False(t, hours.Contains(mondayNight))
	assert.False(t, hours.Contains(saturdayNoon))
	assert.False(t, hours.Contains(time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)))

	tokyo := time.FixedZone("JST", 9*3600)
	assert.True(t, BusinessHours{Start: 9, End: 17, Location: tokyo}.Contains(time.Date(2024, 3, 4, 1, 0, 0, 0, time.UTC)))
}

func TestAssessor_Assess(t *testing.T) {
	action := "Delete corrupted database tables and restart all services"

	night := NewAssessor(WithClock(clock.Fixed(mondayNight)), WithBusinessHours(utcHours()))
	radius := night.Assess(action, 0.3)
	assert.Equal(t, []string{"database"}, radius.AffectedServices)
	assert.Equal(t, 13, radius.RiskScore)
	assert.Equal(t, model.RiskCritical, radius.RiskLevel)
	assert.False(t, radius.Reversible)
	assert.Contains(t, radius.RiskFactors, "Destructive action")
	assert.Contains(t, radius.RiskFactors, "Action is not reversible")

	day := NewAssessor(WithClock(clock.Fixed(mondayMorning)), WithBusinessHours(utcHours()))
	radius = day.Assess(action, 0.3)
	assert.Equal(t, 15, radius.RiskScore)
	assert.Contains(t, radius.RiskFactors, "Business hours impact")
}

func TestAssessor_AssessContext(t *testing.T) {
	action := "Restart the primary instance"
	assessor := NewAssessor(WithClock(clock.Fixed(mondayNight)), WithBusinessHours(utcHours()))

	bare := assessor.Assess(action, 0.9)
	assert.Empty(t, bare.AffectedServices)
	assert.False(t, bare.DependencyAnalysis.CriticalPath)
	assert.Equal(t, 3, bare.RiskScore)
	assert.Equal(t, model.RiskLow, bare.RiskLevel)

	radius := assessor.Assess(action, 0.9,
		"postgres connection pool exhausted, auth logins failing",
		"mysql replica lag",
		"oauth token errors",
	)
	assert.Equal(t, []string{"auth", "database"}, radius.AffectedServices)
	assert.True(t, radius.DependencyAnalysis.CriticalPath)
	assert.Equal(t, model.CascadeHigh, radius.DependencyAnalysis.CascadeRisk)
	assert.Equal(t, 10, radius.RiskScore)
	assert.Equal(t, model.RiskHigh, radius.RiskLevel)
	assert.Equal(t, bare.Reversible, radius.Reversible)
}
