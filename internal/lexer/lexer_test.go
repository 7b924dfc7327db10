package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "empty", input: "", expect: nil},
		{name: "punctuation", input: "DB pool exhausted; p99_latency=2.5s!", expect: []string{"db", "pool", "exhausted", "p99_latency", "2", "5s"}},
		{name: "hyphenated", input: "read-only replica -- lag", expect: []string{"read-only", "replica", "lag"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, Tokenize(tc.input))
		})
	}
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"database", "connection", "pool", "exhausted"},
		Keywords("The database connection pool was exhausted at 10 pm"))
}

func TestContainsAny(t *testing.T) {
	text := "Restart the Load-Balancer and the load balancer pool"
	tokens := Set(text)
	normalized := Normalize(text)
	assert.True(t, ContainsAny(tokens, normalized, "restart"))
	assert.True(t, ContainsAny(tokens, normalized, "load balancer"))
	assert.False(t, ContainsAny(tokens, normalized, "art"))
	assert.False(t, ContainsAny(tokens, normalized, "load bal"))
}

func TestHasForm(t *testing.T) {
	tokens := Set("Restarting pods, deleted tables and scales replicas; deleting logs")
	for _, word := range []string{"restart", "delete", "scale", "table", "pod", "log"} {
		assert.True(t, HasForm(tokens, word), word)
	}
	assert.False(t, HasForm(tokens, "rest"))
}
