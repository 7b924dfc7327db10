// Package stats keeps aggregated governance counters (requests pending,
// decisions by kind, decision latency). A tracker is shared by the gate and
// anything that wants to observe it through the onChange callback.
package stats
