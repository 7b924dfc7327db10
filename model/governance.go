package model

import (
	"strings"
	"time"
)

// DecisionKind is the human decision on a governance request.
type DecisionKind string

const (
	DecisionApprove                 DecisionKind = "approve"
	DecisionApproveWithRestrictions DecisionKind = "approve_with_restrictions"
	DecisionBlock                   DecisionKind = "block"
)

// IsValid reports whether k is one of the three recognised decisions.
func (k DecisionKind) IsValid() bool {
	switch k {
	case DecisionApprove, DecisionApproveWithRestrictions, DecisionBlock:
		return true
	}
	return false
}

// RiskLevel buckets the additive risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// CascadeRisk is the qualitative likelihood of impact propagating.
type CascadeRisk string

const (
	CascadeLow    CascadeRisk = "low"
	CascadeMedium CascadeRisk = "medium"
	CascadeHigh   CascadeRisk = "high"
)

// DependencyAnalysis describes the services depending on affected ones.
type DependencyAnalysis struct {
	DirectDependencies []string    `json:"directDependencies"`
	TotalImpact        int         `json:"totalImpact"`
	CriticalPath       bool        `json:"criticalPath"`
	CascadeRisk        CascadeRisk `json:"cascadeRisk"`
}

// BlastRadius is the assessed scope of a proposed action.
type BlastRadius struct {
	AffectedServices   []string           `json:"affectedServices"`
	RiskLevel          RiskLevel          `json:"riskLevel"`
	RiskScore          int                `json:"riskScore"`
	Reversible         bool               `json:"reversible"`
	DependencyAnalysis DependencyAnalysis `json:"dependencyAnalysis"`
	RiskFactors        []string           `json:"riskFactors"`
}

// Clone returns a deep copy.
func (b *BlastRadius) Clone() *BlastRadius {
	if b == nil {
		return nil
	}
	ret := *b
	ret.AffectedServices = append([]string(nil), b.AffectedServices...)
	ret.RiskFactors = append([]string(nil), b.RiskFactors...)
	ret.DependencyAnalysis.DirectDependencies = append([]string(nil), b.DependencyAnalysis.DirectDependencies...)
	return &ret
}

// Approver identifies the human making a decision.
type Approver struct {
	ID   string `json:"id" yaml:"id"`
	Role string `json:"role" yaml:"role"`
}

// IsValid reports whether both id and role are present.
func (a Approver) IsValid() bool {
	return strings.TrimSpace(a.ID) != "" && strings.TrimSpace(a.Role) != ""
}

// GovernanceDecision is the finalized human decision attached to a workflow.
type GovernanceDecision struct {
	Kind         DecisionKind `json:"decision"`
	Rationale    string       `json:"rationale"`
	Approver     Approver     `json:"approver"`
	Timestamp    time.Time    `json:"timestamp"`
	Restrictions []string     `json:"restrictions,omitempty"`
	BlastRadius  *BlastRadius `json:"blastRadiusAssessment,omitempty"`
}

// Clone returns a deep copy.
func (d *GovernanceDecision) Clone() *GovernanceDecision {
	if d == nil {
		return nil
	}
	ret := *d
	ret.Restrictions = append([]string(nil), d.Restrictions...)
	ret.BlastRadius = d.BlastRadius.Clone()
	return &ret
}
