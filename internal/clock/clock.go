package clock

import "time"

// Clock provides the current time. Components that need deterministic
// behaviour (risk scoring, decision latency) take a Clock instead of calling
// time.Now directly.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function to Clock.
type Func func() time.Time

// Now returns f().
func (f Func) Now() time.Time { return f() }

// System returns a Clock backed by time.Now.
func System() Clock { return Func(time.Now) }

// Fixed returns a Clock that always reports t. Useful in tests.
func Fixed(t time.Time) Clock { return Func(func() time.Time { return t }) }

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }
