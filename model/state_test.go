package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_CanTransitionTo(t *testing.T) {
	allowed := map[State]map[State]bool{}
	allowed[StateIdle] = map[State]bool{StateIncidentIngested: true}
	for i := 1; i < len(States)-1; i++ {
		from := States[i]
		allowed[from] = map[State]bool{StateTerminated: true}
		if from != StateResolved {
			allowed[from][States[i+1]] = true
		}
	}

	for _, from := range States {
		for _, to := range States {
			assert.Equalf(t, allowed[from][to], from.CanTransitionTo(to), "%v -> %v", from, to)
		}
	}
}

func TestState_IsValid(t *testing.T) {
	for _, s := range States {
		assert.True(t, s.IsValid())
	}
	assert.False(t, State("PAUSED").IsValid())
	assert.True(t, StateTerminated.IsTerminal())
	assert.Empty(t, StateTerminated.Next())
}

func TestAgentRole_HasSkill(t *testing.T) {
	assert.True(t, RoleSRE.HasSkill("log-analysis"))
	assert.True(t, RoleSecurity.HasSkill("log-analysis"))
	assert.False(t, RoleGovernance.HasSkill("log-analysis"))
	assert.False(t, AgentRole("db-agent").IsValid())
}
