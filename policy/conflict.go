package policy

import (
	"fmt"

	"github.com/viant/govflow/internal/lexer"
	"github.com/viant/govflow/model"
	"github.com/viant/govflow/service/governance/risk"
)

// Input is what the rules look at.
type Input struct {
	Action          string
	ConfidenceLevel float64
	BlastRadius     *model.BlastRadius
	BusinessHours   bool
}

type subject struct {
	Input
	tokens     map[string]bool
	normalized string
	class      risk.ActionClass
	services   map[string]bool
}

func (s *subject) has(words ...string) bool {
	return lexer.ContainsAny(s.tokens, s.normalized, words...)
}

func (s *subject) affects(service string) bool {
	return s.services[service]
}

func (s *subject) classIn(classes ...risk.ActionClass) bool {
	for _, class := range classes {
		if s.class == class {
			return true
		}
	}
	return false
}

// rule returns a conflict description, or "" when it does not apply.
type rule func(s *subject) string

var rules = []rule{
	productionDeployment,
	databaseModification,
	securityChange,
	businessHoursRestart,
	criticalPathDestructive,
	dataPurge,
	networkChange,
	complianceSystem,
	lowConfidence,
	scaleDown,
	thirdPartyService,
	configurationChange,
	monitoringDisablement,
}

// Conflicts evaluates the built-in rules then p's keyword lists.
func (p *Policy) Conflicts(input Input) []string {
	s := &subject{
		Input:      input,
		tokens:     lexer.Set(input.Action),
		normalized: lexer.Normalize(input.Action),
		class:      risk.Classify(input.Action),
		services:   make(map[string]bool),
	}
	if input.BlastRadius != nil {
		for _, service := range input.BlastRadius.AffectedServices {
			s.services[service] = true
		}
	}
	var ret []string
	for _, r := range rules {
		if conflict := r(s); conflict != "" {
			ret = append(ret, conflict)
		}
	}
	if p == nil {
		return ret
	}
	for _, keyword := range lexer.Matching(s.tokens, s.normalized, p.BlockList...) {
		ret = append(ret, fmt.Sprintf("Action matches blocked keyword %q", keyword))
	}
	for _, keyword := range lexer.Matching(s.tokens, s.normalized, p.RequireApproval...) {
		ret = append(ret, fmt.Sprintf("Action matches keyword %q that requires explicit approval", keyword))
	}
	return ret
}

func productionDeployment(s *subject) string {
	if s.has("production", "prod") && s.has("deploy", "release", "rollout", "redeploy", "ship") {
		return "Production deployment requires change advisory approval"
	}
	return ""
}

func databaseModification(s *subject) string {
	if s.affects(risk.ServiceDatabase) && (s.classIn(risk.ClassDestructive, risk.ClassChange) || s.has("alter", "schema", "index")) {
		return "Database modification requires DBA review"
	}
	return ""
}

func securityChange(s *subject) string {
	if s.has("security", "permission", "permissions", "iam", "role", "privilege", "access", "credential", "credentials", "certificate", "secret", "password", "token") {
		return "Security or permission change requires security team approval"
	}
	return ""
}

func businessHoursRestart(s *subject) string {
	if s.BusinessHours && s.has("restart", "reboot", "shutdown", "shut down", "redeploy") {
		return "Service restart during business hours"
	}
	return ""
}

func criticalPathDestructive(s *subject) string {
	if s.BlastRadius != nil && s.BlastRadius.DependencyAnalysis.CriticalPath && s.class == risk.ClassDestructive {
		return "Destructive action on critical path services"
	}
	return ""
}

func dataPurge(s *subject) string {
	if s.has("purge", "wipe", "truncate", "drop") ||
		(s.has("delete", "remove", "destroy") && s.has("data", "table", "tables", "record", "records", "row", "rows", "backup", "backups", "bucket")) {
		return "Data deletion requires data retention review"
	}
	return ""
}

func networkChange(s *subject) string {
	if s.affects(risk.ServiceNetwork) && s.class != risk.ClassUnclassified && s.class != risk.ClassRecovery {
		return "Network change may affect connectivity across services"
	}
	return ""
}

func complianceSystem(s *subject) string {
	if s.has("audit", "pci", "hipaa", "sox", "gdpr", "compliance") {
		return "Action touches a compliance-controlled system"
	}
	return ""
}

func lowConfidence(s *subject) string {
	if s.ConfidenceLevel < 0.6 && s.class != risk.ClassRecovery {
		return fmt.Sprintf("Low analysis confidence (%.2f) for a non-recovery action", s.ConfidenceLevel)
	}
	return ""
}

func scaleDown(s *subject) string {
	if s.has("scale down", "scale in", "downscale", "decrease", "reduce capacity", "reduce replicas") {
		return "Scale-down may leave insufficient capacity"
	}
	return ""
}

func thirdPartyService(s *subject) string {
	if s.has("third party", "third-party", "vendor", "external", "stripe", "paypal", "twilio", "saas") {
		return "Action depends on a third-party service"
	}
	return ""
}

func configurationChange(s *subject) string {
	if s.has("config", "configuration", "setting", "settings", "parameter", "feature flag", "env var", "environment variable") {
		return "Configuration change requires peer review"
	}
	return ""
}

func monitoringDisablement(s *subject) string {
	if s.has("disable", "mute", "silence", "turn off", "suppress") &&
		(s.affects(risk.ServiceMonitoring) || s.has("monitor", "monitoring", "alert", "alerts", "alarm", "alarms")) {
		return "Disabling monitoring reduces incident visibility"
	}
	return ""
}
