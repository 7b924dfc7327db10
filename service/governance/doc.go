// Package governance implements the governance gate: the only component that
// releases a workflow from GOVERNANCE_PENDING.
//
// A request is opened with a proposed action; the gate assesses its blast
// radius and policy conflicts and holds it pending. A human decision
// (approve, approve_with_restrictions or block) is validated, the request is
// moved atomically from the pending to the completed registry, the decision
// is attached to the workflow, and the workflow either proceeds to
// ACTION_PROPOSED or is force-terminated.
package governance
