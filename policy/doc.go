// Package policy detects organisational policy conflicts in a proposed
// remediation action. Each rule is independent and lexical; a conflict is a
// human-readable sentence shown to the approver. Any conflict makes plain
// approval unavailable.
package policy
