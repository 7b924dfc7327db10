package correlation

import (
	"sort"

	"github.com/viant/govflow/internal/lexer"
	"github.com/viant/govflow/model"
)

// KeywordGroup is a keyword that appears in findings of more than one agent.
type KeywordGroup struct {
	Keyword     string            `json:"keyword"`
	Roles       []model.AgentRole `json:"roles"`
	Occurrences int               `json:"occurrences"`
}

// Result is the structural correlation of a workflow's agent outputs.
type Result struct {
	WorkflowID         string                   `json:"workflowId"`
	KeywordGroups      []KeywordGroup           `json:"keywordGroups"`
	SkillsUtilization  float64                  `json:"skillsUtilization"`
	EvidenceCategories map[EvidenceCategory]int `json:"evidenceCategories"`
	ReportedRoles      []model.AgentRole        `json:"reportedRoles"`
	MissingRoles       []model.AgentRole        `json:"missingRoles,omitempty"`
	AllValid           bool                     `json:"allValid"`
	ReadyForRCA        bool                     `json:"readyForRCA"`
}

// Correlate groups findings by shared keywords, computes the skills
// utilization ratio and counts evidence by category. It never interprets
// meaning: only tokens are compared.
func Correlate(workflowID string, outputs []*model.AgentOutput) *Result {
	group := NewGroup(workflowID, model.RequiredRoles, outputs...)
	ret := &Result{
		WorkflowID:         workflowID,
		KeywordGroups:      keywordGroups(outputs),
		SkillsUtilization:  skillsUtilization(outputs),
		EvidenceCategories: make(map[EvidenceCategory]int),
		ReportedRoles:      group.Reported(),
		MissingRoles:       group.Missing(),
		AllValid:           !group.Failed(),
	}
	for _, output := range outputs {
		for _, evidence := range output.Findings.Evidence {
			ret.EvidenceCategories[Classify(evidence)]++
		}
	}
	ret.ReadyForRCA = group.IsComplete() && ret.AllValid
	return ret
}

func keywordGroups(outputs []*model.AgentOutput) []KeywordGroup {
	roles := make(map[string]map[model.AgentRole]bool)
	occurrences := make(map[string]int)
	for _, output := range outputs {
		for _, keyword := range outputKeywords(output) {
			if roles[keyword] == nil {
				roles[keyword] = make(map[model.AgentRole]bool)
			}
			roles[keyword][output.Role] = true
			occurrences[keyword]++
		}
	}
	var ret []KeywordGroup
	for keyword, byRole := range roles {
		if len(byRole) < 2 {
			continue
		}
		group := KeywordGroup{Keyword: keyword, Occurrences: occurrences[keyword]}
		for role := range byRole {
			group.Roles = append(group.Roles, role)
		}
		sort.Slice(group.Roles, func(i, j int) bool { return group.Roles[i] < group.Roles[j] })
		ret = append(ret, group)
	}
	sort.Slice(ret, func(i, j int) bool {
		if len(ret[i].Roles) != len(ret[j].Roles) {
			return len(ret[i].Roles) > len(ret[j].Roles)
		}
		if ret[i].Occurrences != ret[j].Occurrences {
			return ret[i].Occurrences > ret[j].Occurrences
		}
		return ret[i].Keyword < ret[j].Keyword
	})
	return ret
}

func outputKeywords(output *model.AgentOutput) []string {
	ret := lexer.Keywords(output.Findings.Summary)
	for _, evidence := range output.Findings.Evidence {
		ret = append(ret, lexer.Keywords(evidence)...)
	}
	for _, correlation := range output.Findings.Correlations {
		ret = append(ret, lexer.Keywords(correlation)...)
	}
	return ret
}

// skillsUtilization is the number of distinct skills used divided by the
// number of distinct skills allowed to the roles that reported.
func skillsUtilization(outputs []*model.AgentOutput) float64 {
	allowed := make(map[string]bool)
	used := make(map[string]bool)
	for _, output := range outputs {
		for _, skill := range output.Role.Skills() {
			allowed[skill] = true
		}
		for _, skill := range output.SkillsUsed {
			used[skill] = true
		}
	}
	if len(allowed) == 0 {
		return 0
	}
	return float64(len(used)) / float64(len(allowed))
}
