// Package risk computes the blast radius of a proposed remediation action:
// affected services, dependency cascade, reversibility and an additive risk
// score bucketed into low, medium, high or critical.
//
// Scoring is a pure function of its Factors. The only time-dependent input,
// whether the action happens during business hours, is resolved by the
// Assessor from an injected clock before scoring.
package risk
