package policy

import (
	"context"
	"strings"
)

// Policy is the organisation-specific part of conflict detection, on top of
// the built-in rules.
//
//   - BlockList keywords always raise a conflict.
//   - RequireApproval keywords raise a conflict so the action cannot be
//     approved without restrictions.
//
// A nil *Policy applies the built-in rules only.
type Policy struct {
	BlockList       []string
	RequireApproval []string
}

// Config is the serialisable form of a Policy.
type Config struct {
	BlockList       []string `json:"block,omitempty" yaml:"block,omitempty"`
	RequireApproval []string `json:"requireApproval,omitempty" yaml:"requireApproval,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		BlockList:       append([]string(nil), p.BlockList...),
		RequireApproval: append([]string(nil), p.RequireApproval...),
	}
}

// FromConfig converts a stored Config back to a Policy with keywords
// lower-cased and trimmed.
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		BlockList:       normalize(c.BlockList),
		RequireApproval: normalize(c.RequireApproval),
	}
}

func normalize(keywords []string) []string {
	var ret []string
	for _, keyword := range keywords {
		if keyword = strings.ToLower(strings.TrimSpace(keyword)); keyword != "" {
			ret = append(ret, keyword)
		}
	}
	return ret
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds p in ctx; it overrides the gate's configured policy for
// requests created with that context.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy embedded with WithPolicy, or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
