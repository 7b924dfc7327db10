package correlation

import (
	"github.com/viant/govflow/internal/lexer"
)

// EvidenceCategory is the lexical class of an evidence item.
type EvidenceCategory string

const (
	EvidenceLogs          EvidenceCategory = "logs"
	EvidenceMetrics       EvidenceCategory = "metrics"
	EvidenceTraces        EvidenceCategory = "traces"
	EvidenceAlerts        EvidenceCategory = "alerts"
	EvidenceConfiguration EvidenceCategory = "configuration"
	EvidenceSecurity      EvidenceCategory = "security"
	EvidenceOther         EvidenceCategory = "other"
)

// evidenceRules are evaluated in order; the first rule with a matching word wins.
var evidenceRules = []struct {
	category EvidenceCategory
	words    []string
}{
	{EvidenceLogs, []string{"log", "logs", "logging", "stacktrace", "stack trace", "exception", "error", "errors"}},
	{EvidenceTraces, []string{"trace", "traces", "tracing", "span", "spans"}},
	{EvidenceMetrics, []string{"metric", "metrics", "cpu", "memory", "latency", "throughput", "p99", "p95", "utilization", "dashboard"}},
	{EvidenceAlerts, []string{"alert", "alerts", "alarm", "pager", "pagerduty", "page", "incident"}},
	{EvidenceConfiguration, []string{"config", "configuration", "deploy", "deployment", "release", "commit", "change", "rollout"}},
	{EvidenceSecurity, []string{"cve", "vulnerability", "unauthorized", "breach", "intrusion", "credential", "credentials", "firewall"}},
}

// Classify returns the category of one evidence item.
func Classify(evidence string) EvidenceCategory {
	tokens := lexer.Set(evidence)
	normalized := lexer.Normalize(evidence)
	for _, rule := range evidenceRules {
		if lexer.ContainsAny(tokens, normalized, rule.words...) {
			return rule.category
		}
	}
	return EvidenceOther
}
