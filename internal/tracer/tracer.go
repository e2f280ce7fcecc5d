// Package tracer provides distributed tracing abstractions for torpedo.
// It supports OpenTelemetry and allows custom tracer implementations.
package tracer

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer defines the tracing interface for torpedo.
// Implementations can provide OpenTelemetry, Jaeger, or custom tracing.
type Tracer interface {
	// StartSpan starts a new tracing span with the given name
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a tracing span that captures the execution of an operation.
type Span interface {
	// SetAttributes sets key-value attributes on the span
	SetAttributes(attrs ...attribute.KeyValue)
	// RecordError records an error that occurred during the span
	RecordError(err error)
	// SetStatus sets the status code and description of the span
	SetStatus(code codes.Code, description string)
	// End marks the span as complete
	End()
}

// NoopTracer is a tracer that does nothing (zero overhead when tracing is disabled).
// This is the default tracer used when no tracing is configured.
type NoopTracer struct{}

// StartSpan returns the context unchanged with a no-op span.
func (n *NoopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, &NoopSpan{}
}

// NoopSpan is a span that does nothing.
type NoopSpan struct{}

// SetAttributes does nothing.
func (n *NoopSpan) SetAttributes(_ ...attribute.KeyValue) {}

// RecordError does nothing.
func (n *NoopSpan) RecordError(_ error) {}

// SetStatus does nothing.
func (n *NoopSpan) SetStatus(_ codes.Code, _ string) {}

// End does nothing.
func (n *NoopSpan) End() {}

// OtelTracer wraps an OpenTelemetry tracer to implement the Tracer interface.
// This allows seamless integration with OpenTelemetry-based observability systems.
type OtelTracer struct {
	tracer trace.Tracer
}

// NewOtelTracer creates a new OpenTelemetry tracer adapter.
// The provided tracer must not be nil.
func NewOtelTracer(tracer trace.Tracer) *OtelTracer {
	return &OtelTracer{tracer: tracer}
}

// StartSpan starts a new OpenTelemetry span.
func (t *OtelTracer) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &OtelSpan{span: span}
}

// OtelSpan wraps an OpenTelemetry span.
type OtelSpan struct {
	span trace.Span
}

// SetAttributes sets OpenTelemetry attributes on the span.
func (s *OtelSpan) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

// RecordError records an error on the OpenTelemetry span.
func (s *OtelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

// SetStatus sets the status of the OpenTelemetry span.
func (s *OtelSpan) SetStatus(code codes.Code, description string) {
	s.span.SetStatus(code, description)
}

// End completes the OpenTelemetry span.
func (s *OtelSpan) End() {
	s.span.End()
}

// QueryMetadata describes one executed query for tracing purposes.
// It follows OpenTelemetry database semantic conventions.
type QueryMetadata struct {
	// Query is the frozen query-language text
	Query string
	// ParamCount is the number of bound named parameters
	ParamCount int
	// Duration is how long the provider took to execute the query
	Duration time.Duration
	// Rows is the number of results returned
	Rows int
	// Error is any error that occurred during execution
	Error error
	// Operation is the query operation (select, update, delete)
	Operation string
	// Entity is the root entity name of the query
	Entity string
	// Session identifies the building session
	Session string
}

// System is the db.system attribute value reported for torpedo queries.
const System = "jpql"

// AddQueryAttributes adds database semantic convention attributes to a span.
// See: https://opentelemetry.io/docs/specs/semconv/database/
func AddQueryAttributes(span Span, meta *QueryMetadata) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", System),
		attribute.String("db.statement", meta.Query),
		attribute.String("db.operation", meta.Operation),
		attribute.Int("db.params.count", meta.ParamCount),
		attribute.Float64("db.duration_ms", float64(meta.Duration.Microseconds())/1000.0),
	}

	if meta.Entity != "" {
		attrs = append(attrs, attribute.String("db.entity", meta.Entity))
	}

	if meta.Session != "" {
		attrs = append(attrs, attribute.String("torpedo.session", meta.Session))
	}

	if meta.Rows > 0 {
		attrs = append(attrs, attribute.Int("db.rows", meta.Rows))
	}

	span.SetAttributes(attrs...)

	if meta.Error != nil {
		span.RecordError(meta.Error)
		span.SetStatus(codes.Error, meta.Error.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// DetectOperation detects the operation of a query-language string.
// Queries without a leading keyword ("from Person person_0") are selects.
// Returns one of: select, update, delete, or unknown.
func DetectOperation(query string) string {
	query = strings.TrimSpace(strings.ToLower(query))
	switch {
	case strings.HasPrefix(query, "select"), strings.HasPrefix(query, "from"):
		return "select"
	case strings.HasPrefix(query, "update"):
		return "update"
	case strings.HasPrefix(query, "delete"):
		return "delete"
	default:
		return "unknown"
	}
}
