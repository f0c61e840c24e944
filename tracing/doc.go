// Package tracing wraps OpenTelemetry so that allocation and manual pool
// actions can be traced without the rest of the module importing otel.
// Spans are no-ops until Init or InitWithExporter installs a provider.
package tracing
