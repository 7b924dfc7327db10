// Package govflow provides an incident workflow engine with a human
// governance gate.
//
// A workflow moves through a fixed set of states from IDLE to RESOLVED.
// Agent outputs are attached during ANALYZING, and every workflow must pass
// GOVERNANCE_PENDING, where a human approves, approves with restrictions or
// blocks the recommended action. A block terminates the workflow. Every
// committed change is sealed into a per-workflow hash-chained audit log.
//
// The root Service wires the engine, the gate and their collaborators:
//
//	srv, _ := govflow.New(ctx)
//	wf, _ := srv.Engine().CreateWorkflow(ctx)
//	...
//	req, _ := srv.RequestGovernance(ctx, wf.ID, action, summary)
//	result := srv.Gate().ProcessDecision(ctx, req.ID, model.DecisionBlock, rationale, approver, nil)
package govflow
