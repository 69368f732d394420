package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/fiber/pkg/vango"
)

const defaultTracerName = "vango/fiber"

// TracerConfig configures the OpenTelemetry observer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "vango/fiber").
	TracerName string

	// Provider supplies the tracer. If nil, the global provider is used.
	Provider trace.TracerProvider

	// Context is the parent context of every span. Defaults to
	// context.Background().
	Context context.Context
}

// TracerOption configures the OpenTelemetry observer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = tp
	}
}

// WithParentContext sets the context spans are started from.
func WithParentContext(ctx context.Context) TracerOption {
	return func(c *TracerConfig) {
		c.Context = ctx
	}
}

// Tracer is a vango.Observer that records one span per commit. Slices
// between two commits are added to the next commit span as attributes.
type Tracer struct {
	tracer trace.Tracer
	ctx    context.Context

	slices int
	yields int
	units  int
}

var _ vango.Observer = (*Tracer)(nil)

// NewTracer returns a tracing observer.
//
// Configure the global provider in main() before creating it:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	if config.Context == nil {
		config.Context = context.Background()
	}
	return &Tracer{
		tracer: config.Provider.Tracer(config.TracerName),
		ctx:    config.Context,
	}
}

// RenderRequested implements vango.Observer.
func (t *Tracer) RenderRequested() {}

// SliceFinished implements vango.Observer.
func (t *Tracer) SliceFinished(units int, yielded bool) {
	t.slices++
	t.units += units
	if yielded {
		t.yields++
	}
}

// Committed implements vango.Observer.
func (t *Tracer) Committed(stats vango.CommitStats, d time.Duration, err error) {
	end := time.Now()
	_, span := t.tracer.Start(t.ctx, "fiber.commit",
		trace.WithTimestamp(end.Add(-d)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	span.SetAttributes(
		attribute.Int("fiber.placements", stats.Placements),
		attribute.Int("fiber.updates", stats.Updates),
		attribute.Int("fiber.deletions", stats.Deletions),
		attribute.Int("fiber.mutations", stats.Mutations()),
		attribute.Int("fiber.freed", stats.Freed),
		attribute.Int("fiber.slices", t.slices),
		attribute.Int("fiber.yields", t.yields),
		attribute.Int("fiber.units", t.units),
	)
	t.slices, t.yields, t.units = 0, 0, 0

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(end))
}
