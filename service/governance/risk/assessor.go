package risk

import (
	"fmt"
	"strings"
	"time"

	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/model"
)

// BusinessHours is a local weekday working window [Start, End) in whole hours.
type BusinessHours struct {
	Start    int
	End      int
	Location *time.Location
}

// DefaultBusinessHours is 09:00-17:00 in the local time zone.
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{Start: 9, End: 17, Location: time.Local}
}

// Contains reports whether t falls on a weekday within the window.
func (b BusinessHours) Contains(t time.Time) bool {
	if b.Location != nil {
		t = t.In(b.Location)
	}
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return t.Hour() >= b.Start && t.Hour() < b.End
}

// Assessor builds blast radius assessments.
type Assessor struct {
	clock         clock.Clock
	businessHours BusinessHours
}

// Option configures an Assessor.
type Option func(a *Assessor)

// WithClock sets the time source used for the business-hours factor.
func WithClock(c clock.Clock) Option {
	return func(a *Assessor) { a.clock = c }
}

// WithBusinessHours sets the business-hours window.
func WithBusinessHours(hours BusinessHours) Option {
	return func(a *Assessor) { a.businessHours = hours }
}

// NewAssessor creates an assessor.
func NewAssessor(options ...Option) *Assessor {
	ret := &Assessor{clock: clock.System(), businessHours: DefaultBusinessHours()}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// IsBusinessHours reports whether the assessor's clock is inside the window.
func (a *Assessor) IsBusinessHours() bool {
	return a.businessHours.Contains(a.clock.Now())
}

// Assess computes the blast radius of action given the analysis confidence.
// Affected services are matched against the action and the supporting context
// text; classification and reversibility consider the action alone.
func (a *Assessor) Assess(action string, confidenceLevel float64, context ...string) *model.BlastRadius {
	affected := AffectedServices(strings.Join(append([]string{action}, context...), "\n"))
	dependencies := AnalyzeDependencies(affected)
	score := Evaluate(Factors{
		ConfidenceLevel:  confidenceLevel,
		AffectedServices: affected,
		Dependencies:     dependencies,
		Action:           action,
		BusinessHours:    a.IsBusinessHours(),
	})
	reversible := IsReversible(action)
	factors := score.Factors
	if !reversible {
		factors = append(factors, "Action is not reversible")
	}
	if len(dependencies.DirectDependencies) > 0 {
		factors = append(factors, fmt.Sprintf("Dependent services: %v", dependencies.DirectDependencies))
	}
	return &model.BlastRadius{
		AffectedServices:   affected,
		RiskLevel:          score.Level,
		RiskScore:          score.Points,
		Reversible:         reversible,
		DependencyAnalysis: dependencies,
		RiskFactors:        factors,
	}
}
