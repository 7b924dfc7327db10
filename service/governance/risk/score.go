package risk

import (
	"fmt"

	"github.com/viant/govflow/model"
)

// Factors are the inputs of the risk score.
type Factors struct {
	ConfidenceLevel  float64
	AffectedServices []string
	Dependencies     model.DependencyAnalysis
	Action           string
	BusinessHours    bool
}

// Score is the additive risk score with its bucket and contributing factors.
type Score struct {
	Points  int
	Level   model.RiskLevel
	Class   ActionClass
	Factors []string
}

// Evaluate scores f. Identical factors always yield the identical score.
func Evaluate(f Factors) Score {
	ret := Score{Class: Classify(f.Action)}
	add := func(points int, factor string) {
		if points == 0 {
			return
		}
		ret.Points += points
		ret.Factors = append(ret.Factors, factor)
	}

	add(confidencePoints(f.ConfidenceLevel), fmt.Sprintf("Low confidence level (%.2f)", f.ConfidenceLevel))
	count := len(f.AffectedServices)
	add(servicePoints(count), fmt.Sprintf("Affects %d service(s)", count))
	add(cascadePoints(f.Dependencies.CascadeRisk), fmt.Sprintf("%s cascade risk", titled(string(f.Dependencies.CascadeRisk))))
	if f.Dependencies.CriticalPath {
		add(2, "Critical path services affected")
	}
	add(classPoints[ret.Class], fmt.Sprintf("%s action", titled(string(ret.Class))))
	if f.BusinessHours && count > 0 {
		add(2, "Business hours impact")
	}
	ret.Level = Bucket(ret.Points)
	return ret
}

// Bucket maps points to a risk level.
func Bucket(points int) model.RiskLevel {
	switch {
	case points >= 12:
		return model.RiskCritical
	case points >= 8:
		return model.RiskHigh
	case points >= 4:
		return model.RiskMedium
	}
	return model.RiskLow
}

func confidencePoints(confidence float64) int {
	switch {
	case confidence < 0.5:
		return 3
	case confidence < 0.7:
		return 2
	case confidence < 0.85:
		return 1
	}
	return 0
}

func servicePoints(count int) int {
	switch {
	case count == 0:
		return 0
	case count == 1:
		return 1
	case count <= 3:
		return 2
	}
	return 3
}

func cascadePoints(cascade model.CascadeRisk) int {
	switch cascade {
	case model.CascadeHigh:
		return 3
	case model.CascadeMedium:
		return 2
	}
	return 0
}

func titled(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
