package model

// State represents a workflow lifecycle state.
type State string

const (
	StateIdle              State = "IDLE"
	StateIncidentIngested  State = "INCIDENT_INGESTED"
	StateAnalyzing         State = "ANALYZING"
	StateRCAComplete       State = "RCA_COMPLETE"
	StateGovernancePending State = "GOVERNANCE_PENDING"
	StateActionProposed    State = "ACTION_PROPOSED"
	StateVerified          State = "VERIFIED"
	StateResolved          State = "RESOLVED"
	StateTerminated        State = "TERMINATED"
)

// States lists every state in lifecycle order.
var States = []State{
	StateIdle,
	StateIncidentIngested,
	StateAnalyzing,
	StateRCAComplete,
	StateGovernancePending,
	StateActionProposed,
	StateVerified,
	StateResolved,
	StateTerminated,
}

// transitions is the adjacency table: state -> legal next states.
var transitions = map[State][]State{
	StateIdle:              {StateIncidentIngested},
	StateIncidentIngested:  {StateAnalyzing, StateTerminated},
	StateAnalyzing:         {StateRCAComplete, StateTerminated},
	StateRCAComplete:       {StateGovernancePending, StateTerminated},
	StateGovernancePending: {StateActionProposed, StateTerminated},
	StateActionProposed:    {StateVerified, StateTerminated},
	StateVerified:          {StateResolved, StateTerminated},
	StateResolved:          {StateTerminated},
	StateTerminated:        {},
}

// IsValid reports whether s is one of the defined states.
func (s State) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether s is the absorbing TERMINATED state.
func (s State) IsTerminal() bool {
	return s == StateTerminated
}

// Next returns a copy of the legal next states for s.
func (s State) Next() []State {
	return append([]State(nil), transitions[s]...)
}

// CanTransitionTo reports whether target is in the adjacency list of s.
func (s State) CanTransitionTo(target State) bool {
	for _, candidate := range transitions[s] {
		if candidate == target {
			return true
		}
	}
	return false
}

func (s State) String() string { return string(s) }
