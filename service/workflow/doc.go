// Package workflow implements the incident workflow engine: a finite state
// machine over workflow instances with an append-only audit trail.
//
// Every mutating call loads a private copy of the workflow, validates, then
// commits the copy in a single repository save, so a rejected call leaves
// the stored instance untouched. Calls are serialized per workflow id.
//
// Leaving GOVERNANCE_PENDING requires an attached governance decision; the
// transition validator is the only place that enforces this. Forced
// termination bypasses the adjacency table and is only reachable through the
// Terminator capability, which can be claimed exactly once.
package workflow
