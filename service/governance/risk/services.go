package risk

import (
	"sort"

	"github.com/viant/govflow/internal/lexer"
)

// Canonical service names.
const (
	ServiceDatabase   = "database"
	ServiceCache      = "cache"
	ServiceAuth       = "auth"
	ServiceAPI        = "api"
	ServiceFrontend   = "frontend"
	ServiceBackend    = "backend"
	ServiceQueue      = "queue"
	ServiceStorage    = "storage"
	ServiceNetwork    = "network"
	ServiceMonitoring = "monitoring"
	ServicePayment    = "payment"
)

// synonyms maps a canonical service to the words that refer to it. The
// canonical name itself always matches.
var synonyms = map[string][]string{
	ServiceDatabase:   {"db", "mysql", "postgres", "postgresql", "sql", "mongodb"},
	ServiceCache:      {"redis", "memcached"},
	ServiceAuth:       {"authentication", "login", "oauth", "sso", "identity"},
	ServiceAPI:        {"gateway", "endpoint", "rest"},
	ServiceFrontend:   {"ui", "web", "website"},
	ServiceBackend:    {"server"},
	ServiceQueue:      {"kafka", "rabbitmq", "sqs", "messaging"},
	ServiceStorage:    {"s3", "disk", "volume", "bucket"},
	ServiceNetwork:    {"dns", "load balancer", "firewall", "vpc"},
	ServiceMonitoring: {"metrics", "prometheus", "grafana", "alerting", "logging"},
	ServicePayment:    {"billing", "checkout"},
}

// AffectedServices returns the sorted canonical services named in text.
func AffectedServices(text string) []string {
	tokens := lexer.Set(text)
	normalized := lexer.Normalize(text)
	var ret []string
	for service, words := range synonyms {
		if lexer.ContainsAny(tokens, normalized, service) || lexer.ContainsAny(tokens, normalized, words...) {
			ret = append(ret, service)
		}
	}
	sort.Strings(ret)
	return ret
}
