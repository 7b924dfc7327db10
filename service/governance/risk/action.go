package risk

import (
	"github.com/viant/govflow/internal/lexer"
)

// ActionClass is the lexical class of a proposed action.
type ActionClass string

const (
	ClassDestructive  ActionClass = "destructive"
	ClassDisruptive   ActionClass = "disruptive"
	ClassChange       ActionClass = "change"
	ClassScaling      ActionClass = "scaling"
	ClassRecovery     ActionClass = "recovery"
	ClassMaintenance  ActionClass = "maintenance"
	ClassUnclassified ActionClass = "unclassified"
)

// classRules are evaluated in order; the first class with a matching word wins.
var classRules = []struct {
	class ActionClass
	words []string
}{
	{ClassDestructive, []string{"delete", "drop", "destroy", "purge", "truncate", "terminate", "decommission", "remove", "wipe", "uninstall"}},
	{ClassDisruptive, []string{"restart", "reboot", "shutdown", "shut down", "stop", "kill", "failover", "redeploy"}},
	{ClassChange, []string{"update", "modify", "change", "configure", "patch", "deploy", "migrate", "upgrade", "downgrade", "rollout"}},
	{ClassScaling, []string{"scale", "resize", "increase", "decrease"}},
	{ClassRecovery, []string{"rollback", "roll back", "restore", "recover", "revert"}},
	{ClassMaintenance, []string{"clear cache", "flush cache", "rotate", "cleanup", "clean up", "vacuum", "reindex"}},
}

var classPoints = map[ActionClass]int{
	ClassDestructive:  4,
	ClassDisruptive:   3,
	ClassChange:       2,
	ClassScaling:      1,
	ClassRecovery:     0,
	ClassMaintenance:  0,
	ClassUnclassified: 1,
}

// Classify returns the class of action.
func Classify(action string) ActionClass {
	tokens := lexer.Set(action)
	normalized := lexer.Normalize(action)
	for _, rule := range classRules {
		if lexer.ContainsAny(tokens, normalized, rule.words...) {
			return rule.class
		}
	}
	return ClassUnclassified
}

var (
	irreversibleWords          = []string{"delete", "drop", "destroy", "purge", "truncate", "terminate", "decommission", "uninstall"}
	potentiallyIrreversible    = []string{"migrate", "upgrade", "downgrade", "format", "reset"}
	reversibilitySafeguardWord = []string{"backup", "snapshot", "rollback", "roll back"}
)

// IsReversible reports whether action can be undone. Irreversible keywords
// always make it irreversible; potentially irreversible keywords do unless a
// backup, snapshot or rollback is mentioned.
func IsReversible(action string) bool {
	tokens := lexer.Set(action)
	normalized := lexer.Normalize(action)
	if lexer.ContainsAny(tokens, normalized, irreversibleWords...) {
		return false
	}
	if lexer.ContainsAny(tokens, normalized, potentiallyIrreversible...) {
		return lexer.ContainsAny(tokens, normalized, reversibilitySafeguardWord...)
	}
	return true
}
