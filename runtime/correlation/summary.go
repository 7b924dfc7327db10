package correlation

import (
	"github.com/viant/govflow/model"
)

// Summary aggregates a workflow's agent outputs.
type Summary struct {
	WorkflowID        string            `json:"workflowId"`
	TotalOutputs      int               `json:"totalOutputs"`
	OutputsByRole     map[string]int    `json:"outputsByRole"`
	ReportedRoles     []model.AgentRole `json:"reportedRoles"`
	MissingRoles      []model.AgentRole `json:"missingRoles,omitempty"`
	AverageConfidence float64           `json:"averageConfidence"`
	SkillUsage        map[string]int    `json:"skillUsage"`
	AllValid          bool              `json:"allValid"`
	Complete          bool              `json:"complete"`
}

// Summarize counts outputs per role and skill and averages confidence.
func Summarize(workflowID string, outputs []*model.AgentOutput) *Summary {
	group := NewGroup(workflowID, model.RequiredRoles, outputs...)
	ret := &Summary{
		WorkflowID:    workflowID,
		TotalOutputs:  len(outputs),
		OutputsByRole: make(map[string]int),
		ReportedRoles: group.Reported(),
		MissingRoles:  group.Missing(),
		SkillUsage:    make(map[string]int),
		AllValid:      !group.Failed(),
		Complete:      group.IsComplete(),
	}
	total := 0.0
	for _, output := range outputs {
		ret.OutputsByRole[string(output.Role)]++
		for _, skill := range output.SkillsUsed {
			ret.SkillUsage[skill]++
		}
		total += output.Confidence
	}
	if len(outputs) > 0 {
		ret.AverageConfidence = total / float64(len(outputs))
	}
	return ret
}
