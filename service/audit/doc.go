// Package audit defines the append-only, chain-verifiable audit log contract
// consumed by the workflow engine. Events are chained per workflow: every
// appended record carries the hash of its predecessor, so any later edit or
// removal is detectable by VerifyChainIntegrity.
package audit
