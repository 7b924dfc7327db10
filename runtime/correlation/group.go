package correlation

import (
	"github.com/viant/govflow/model"
)

// Group is a rendez-vous for the agent roles expected to report on one
// workflow. It tracks which roles have reported and whether any output
// failed validation.
type Group struct {
	WorkflowID string
	Expected   []model.AgentRole

	reported map[model.AgentRole]bool
	invalid  int

	Outputs []*model.AgentOutput
}

// NewGroup creates a group expecting the supplied roles and replays outputs
// already reported.
func NewGroup(workflowID string, expected []model.AgentRole, outputs ...*model.AgentOutput) *Group {
	ret := &Group{
		WorkflowID: workflowID,
		Expected:   append([]model.AgentRole(nil), expected...),
		reported:   make(map[model.AgentRole]bool),
	}
	for _, output := range outputs {
		ret.MarkDone(output)
	}
	return ret
}

// MarkDone registers an output and returns true when every expected role has
// reported.
func (g *Group) MarkDone(output *model.AgentOutput) (groupComplete bool) {
	if output == nil {
		return g.IsComplete()
	}
	g.Outputs = append(g.Outputs, output)
	g.reported[output.Role] = true
	if !output.Validation.IsValid() {
		g.invalid++
	}
	return g.IsComplete()
}

// IsComplete reports whether every expected role has reported.
func (g *Group) IsComplete() bool {
	return len(g.Missing()) == 0
}

// Failed returns true when at least one output failed validation.
func (g *Group) Failed() bool {
	return g.invalid > 0
}

// Reported returns the expected roles that have reported, in expected order,
// followed by any unexpected role.
func (g *Group) Reported() []model.AgentRole {
	var ret []model.AgentRole
	seen := make(map[model.AgentRole]bool)
	for _, role := range g.Expected {
		if g.reported[role] {
			ret = append(ret, role)
			seen[role] = true
		}
	}
	for _, output := range g.Outputs {
		if !seen[output.Role] {
			ret = append(ret, output.Role)
			seen[output.Role] = true
		}
	}
	return ret
}

// Missing returns the expected roles that have not reported yet.
func (g *Group) Missing() []model.AgentRole {
	var ret []model.AgentRole
	for _, role := range g.Expected {
		if !g.reported[role] {
			ret = append(ret, role)
		}
	}
	return ret
}
