package governance

import "errors"

var (
	// ErrGovernanceRequestNotFound is returned for unknown or already
	// processed request ids.
	ErrGovernanceRequestNotFound = errors.New("governance request not found")
	// ErrAlreadyDecided accompanies ErrGovernanceRequestNotFound when the
	// request exists in the completed registry.
	ErrAlreadyDecided = errors.New("governance request already decided")
	// ErrWorkflowNotPending is returned when a request is opened for a
	// workflow that is not in GOVERNANCE_PENDING.
	ErrWorkflowNotPending = errors.New("workflow is not awaiting governance")
	// ErrPendingRequestExists is returned when the workflow already has a
	// pending request.
	ErrPendingRequestExists = errors.New("governance request already pending")
)
