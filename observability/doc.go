// Package observability provides OpenTelemetry tracing for the quote
// streaming service. Spans cover the request pipeline: context merge,
// oracle call, reference resolution, and event emission.
package observability
