// Package tracing wraps OpenTelemetry so that engine and gate operations can
// open spans without importing the SDK directly. Tracing is disabled until
// Init or InitWithExporter installs a provider; before that spans are no-op.
package tracing
