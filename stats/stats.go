package stats

import (
	"sync"
	"time"

	"github.com/viant/govflow/model"
)

// Delta is an incremental counter change emitted by the governance gate.
type Delta struct {
	Pending  int
	Decision model.DecisionKind
	Latency  time.Duration
}

// Tracker keeps aggregated governance counters. It is safe for concurrent use.
type Tracker struct {
	StartedAt time.Time

	Pending                  int
	Approved                 int
	ApprovedWithRestrictions int
	Blocked                  int
	TotalLatency             time.Duration

	mu       sync.Mutex
	onChange func(Snapshot)
}

// Snapshot is a read-only copy of the tracker with derived rates.
type Snapshot struct {
	Pending                  int           `json:"pending"`
	Completed                int           `json:"completed"`
	Approved                 int           `json:"approved"`
	ApprovedWithRestrictions int           `json:"approvedWithRestrictions"`
	Blocked                  int           `json:"blocked"`
	ApprovalRate             float64       `json:"approvalRate"`
	BlockRate                float64       `json:"blockRate"`
	MeanDecisionLatency      time.Duration `json:"meanDecisionLatency"`
}

// New creates a tracker. onChange, when non nil, is invoked after every
// update outside the critical section.
func New(onChange func(Snapshot)) *Tracker {
	return &Tracker{StartedAt: time.Now(), onChange: onChange}
}

// Update applies d. A decision also counts its latency.
func (t *Tracker) Update(d Delta) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.Pending += d.Pending
	switch d.Decision {
	case model.DecisionApprove:
		t.Approved++
	case model.DecisionApproveWithRestrictions:
		t.ApprovedWithRestrictions++
	case model.DecisionBlock:
		t.Blocked++
	}
	if d.Decision != "" {
		t.TotalLatency += d.Latency
	}
	snapshot := t.snapshot()
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns the current counters with derived rates.
func (t *Tracker) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// OnChange replaces the change callback; nil disables it.
func (t *Tracker) OnChange(cb func(Snapshot)) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.onChange = cb
	t.mu.Unlock()
}

func (t *Tracker) snapshot() Snapshot {
	ret := Snapshot{
		Pending:                  t.Pending,
		Approved:                 t.Approved,
		ApprovedWithRestrictions: t.ApprovedWithRestrictions,
		Blocked:                  t.Blocked,
	}
	ret.Completed = t.Approved + t.ApprovedWithRestrictions + t.Blocked
	if ret.Completed > 0 {
		ret.ApprovalRate = float64(t.Approved+t.ApprovedWithRestrictions) / float64(ret.Completed)
		ret.BlockRate = float64(t.Blocked) / float64(ret.Completed)
		ret.MeanDecisionLatency = t.TotalLatency / time.Duration(ret.Completed)
	}
	return ret
}
