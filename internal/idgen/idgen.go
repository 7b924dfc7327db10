package idgen

import "github.com/google/uuid"

// NewFunc returns a random (version 4, 122 bits of entropy) UUID string.
// Workflow, governance request and audit event identifiers all come from
// here, so collisions are not a practical concern.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier.
func New() string { return NewFunc() }

// WithPrefix returns prefix-<uuid>, used for human-scannable ids such as
// "gov-…" for governance requests.
func WithPrefix(prefix string) string {
	if prefix == "" {
		return New()
	}
	return prefix + "-" + New()
}
