package model

import (
	"sort"
	"time"
)

// AgentRole identifies an analysis agent.
type AgentRole string

const (
	RoleSRE        AgentRole = "sre-agent"
	RoleSecurity   AgentRole = "security-agent"
	RoleGovernance AgentRole = "governance-agent"
)

// roleSkills is the fixed skill set each role may report as used.
var roleSkills = map[AgentRole][]string{
	RoleSRE: {
		"telemetry-analysis",
		"log-analysis",
		"metrics-correlation",
		"incident-triage",
		"root-cause-analysis",
	},
	RoleSecurity: {
		"threat-detection",
		"vulnerability-assessment",
		"access-audit",
		"log-analysis",
	},
	RoleGovernance: {
		"policy-evaluation",
		"compliance-review",
		"risk-assessment",
		"change-management",
	},
}

// RequiredRoles lists the roles that must report before analysis is complete.
var RequiredRoles = []AgentRole{RoleSRE, RoleSecurity, RoleGovernance}

// IsValid reports whether r is a known role.
func (r AgentRole) IsValid() bool {
	_, ok := roleSkills[r]
	return ok
}

// Skills returns a sorted copy of the skills allowed for r.
func (r AgentRole) Skills() []string {
	ret := append([]string(nil), roleSkills[r]...)
	sort.Strings(ret)
	return ret
}

// HasSkill reports whether skill belongs to r's allowed skill set.
func (r AgentRole) HasSkill(skill string) bool {
	for _, candidate := range roleSkills[r] {
		if candidate == skill {
			return true
		}
	}
	return false
}

// Findings carries an agent's analysis result.
type Findings struct {
	Summary      string   `json:"summary" yaml:"summary"`
	Evidence     []string `json:"evidence" yaml:"evidence"`
	Correlations []string `json:"correlations,omitempty" yaml:"correlations,omitempty"`
}

// Validation records the checks applied when the output was accepted.
type Validation struct {
	SkillsValid     bool `json:"skillsValid"`
	ConfidenceValid bool `json:"confidenceValid"`
	SchemaValid     bool `json:"schemaValid"`
}

// IsValid reports whether every check passed.
func (v Validation) IsValid() bool {
	return v.SkillsValid && v.ConfidenceValid && v.SchemaValid
}

// AgentOutput is one agent's report. It is immutable once accepted.
type AgentOutput struct {
	Role       AgentRole  `json:"role" yaml:"role"`
	SkillsUsed []string   `json:"skillsUsed" yaml:"skillsUsed"`
	Findings   Findings   `json:"findings" yaml:"findings"`
	Confidence float64    `json:"confidence" yaml:"confidence"`
	Validation Validation `json:"validation" yaml:"-"`
	ReportedAt time.Time  `json:"reportedAt" yaml:"-"`
}

// Clone returns a deep copy.
func (o *AgentOutput) Clone() *AgentOutput {
	if o == nil {
		return nil
	}
	ret := *o
	ret.SkillsUsed = append([]string(nil), o.SkillsUsed...)
	ret.Findings.Evidence = append([]string(nil), o.Findings.Evidence...)
	ret.Findings.Correlations = append([]string(nil), o.Findings.Correlations...)
	return &ret
}
