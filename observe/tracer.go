package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// CacheMeta identifies a cache for telemetry purposes.
type CacheMeta struct {
	Type      string // Cache type label, e.g. "prompt-optimization" (required)
	Namespace string // Key namespace the operation works under (optional)
	Tier      string // Backing tier, e.g. "memory" or "redis" (optional)
}

// SpanName returns the deterministic span name for an operation on
// this cache. Format: cache.<op>.<type>
func (m CacheMeta) SpanName(op string) string {
	return "cache." + op + "." + m.Type
}

// Tracer wraps OpenTelemetry tracing with cache-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a cache operation.
	StartSpan(ctx context.Context, meta CacheMeta, op string) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with cache metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CacheMeta, op string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.type", meta.Type),
		attribute.String("cache.op", op),
		attribute.Bool("cache.error", false), // Will be updated in EndSpan if error
	}

	if meta.Namespace != "" {
		attrs = append(attrs, attribute.String("cache.namespace", meta.Namespace))
	}
	if meta.Tier != "" {
		attrs = append(attrs, attribute.String("cache.tier", meta.Tier))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(op),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("cache.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a no-op tracer.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta CacheMeta, op string) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName(op))
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
