package risk

import (
	"sort"

	"github.com/viant/govflow/model"
)

// dependents maps a service to the services that depend on it.
var dependents = map[string][]string{
	ServiceDatabase: {ServiceAPI, ServiceAuth, ServiceBackend, ServicePayment},
	ServiceCache:    {ServiceAPI, ServiceBackend},
	ServiceAuth:     {ServiceAPI, ServiceFrontend, ServicePayment},
	ServiceAPI:      {ServiceFrontend},
	ServiceBackend:  {ServiceAPI},
	ServiceQueue:    {ServiceBackend, ServicePayment},
	ServiceStorage:  {ServiceDatabase, ServiceBackend},
	ServiceNetwork:  {ServiceAPI, ServiceFrontend, ServiceDatabase, ServiceAuth},
	ServicePayment:  {ServiceFrontend},
}

// criticalServices is the load-bearing core set.
var criticalServices = map[string]bool{
	ServiceDatabase: true,
	ServiceAuth:     true,
	ServiceAPI:      true,
}

// Dependents returns the direct dependents of service.
func Dependents(service string) []string {
	return append([]string(nil), dependents[service]...)
}

// AnalyzeDependencies computes the direct dependents of the affected
// services, the total impacted set size, the critical path flag and the
// cascade risk.
func AnalyzeDependencies(affected []string) model.DependencyAnalysis {
	inAffected := make(map[string]bool, len(affected))
	for _, service := range affected {
		inAffected[service] = true
	}
	direct := make(map[string]bool)
	criticalPath := false
	for _, service := range affected {
		if criticalServices[service] {
			criticalPath = true
		}
		for _, dependent := range dependents[service] {
			if !inAffected[dependent] {
				direct[dependent] = true
			}
		}
	}
	ret := model.DependencyAnalysis{
		DirectDependencies: make([]string, 0, len(direct)),
		TotalImpact:        len(inAffected) + len(direct),
		CriticalPath:       criticalPath,
	}
	for dependent := range direct {
		ret.DirectDependencies = append(ret.DirectDependencies, dependent)
	}
	sort.Strings(ret.DirectDependencies)
	ret.CascadeRisk = cascadeRisk(ret.TotalImpact, criticalPath)
	return ret
}

func cascadeRisk(totalImpact int, criticalPath bool) model.CascadeRisk {
	switch {
	case totalImpact >= 5 || (criticalPath && totalImpact >= 3):
		return model.CascadeHigh
	case totalImpact >= 3 || criticalPath:
		return model.CascadeMedium
	}
	return model.CascadeLow
}
