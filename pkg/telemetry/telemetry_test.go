package telemetry_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/telemetry"
	"github.com/vango-dev/fiber/pkg/vango"
	"github.com/vango-dev/fiber/pkg/vdom"
)

// gather returns the value of every sample in family name keyed by the
// joined label values.
func gather(t *testing.T, reg *prometheus.Registry, name string) map[string]*dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	out := make(map[string]*dto.Metric)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := ""
			for _, lp := range m.GetLabel() {
				key += lp.GetValue()
			}
			out[key] = m
		}
	}
	return out
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	m, ok := gather(t, reg, name)[label]
	if !ok {
		return 0
	}
	if m.Counter == nil {
		t.Fatalf("%s is not a counter", name)
	}
	return m.GetCounter().GetValue()
}

func TestMetricsObserveRuntime(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))

	mem := host.NewMemory()
	root := mem.NewContainer("root")
	rt := vango.New(mem, vango.WithObserver(m))
	rt.Render(vdom.Div(vdom.P("a"), vdom.P("b")), root)

	// div, p, text, p, text plus the root: six units.
	for {
		done, err := rt.RunSlice(func() bool { return true })
		if err != nil {
			t.Fatalf("RunSlice() error: %v", err)
		}
		if done {
			break
		}
	}

	if got := counterValue(t, reg, "vango_fiber_renders_total", ""); got != 1 {
		t.Errorf("renders_total = %v, want 1", got)
	}
	if got := counterValue(t, reg, "vango_fiber_units_total", ""); got != 6 {
		t.Errorf("units_total = %v, want 6", got)
	}
	if got := counterValue(t, reg, "vango_fiber_slices_total", ""); got != 6 {
		t.Errorf("slices_total = %v, want 6", got)
	}
	if got := counterValue(t, reg, "vango_fiber_yields_total", ""); got != 5 {
		t.Errorf("yields_total = %v, want 5", got)
	}
	if got := counterValue(t, reg, "vango_fiber_commits_total", "ok"); got != 1 {
		t.Errorf("commits_total{ok} = %v, want 1", got)
	}
	if got := counterValue(t, reg, "vango_fiber_mutations_total", "create_node"); got != 0 {
		t.Errorf("create_node counted at commit: %v", got)
	}
	if got := counterValue(t, reg, "vango_fiber_mutations_total", "append_child"); got != 5 {
		t.Errorf("mutations_total{append_child} = %v, want 5", got)
	}

	hist := gather(t, reg, "vango_fiber_commit_duration_seconds")[""]
	if hist == nil || hist.GetHistogram().GetSampleCount() != 1 {
		t.Errorf("commit_duration_seconds samples = %v, want 1", hist)
	}
}

func TestMetricsFailedCommit(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(
		telemetry.WithRegistry(reg),
		telemetry.WithNamespace("app"),
		telemetry.WithSubsystem("ui"),
		telemetry.WithConstLabels(prometheus.Labels{"instance": "a"}),
	)

	mem := host.NewMemory()
	faulty := &host.Faulty{Adapter: mem, Op: host.OpAppendChild, N: 1, Err: stderrors.New("detached")}
	rt := vango.New(faulty, vango.WithObserver(m))
	rt.Render(vdom.Div(), mem.NewContainer("root"))
	if err := rt.Flush(); err == nil {
		t.Fatal("Flush() error = nil, want commit failure")
	}

	// Const labels are part of the key, ahead of the status label.
	if got := counterValue(t, reg, "app_ui_commits_total", "aaborted"); got != 1 {
		t.Errorf("commits_total{aborted} = %v, want 1", got)
	}
	if got := counterValue(t, reg, "app_ui_commits_total", "aok"); got != 0 {
		t.Errorf("commits_total{ok} = %v, want 0", got)
	}
}

func TestMetricsDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	telemetry.NewMetrics(telemetry.WithRegistry(reg))

	defer func() {
		if recover() == nil {
			t.Error("second NewMetrics on the same registry did not panic")
		}
	}()
	telemetry.NewMetrics(telemetry.WithRegistry(reg))
}

// ===== tracing

type recordedSpan struct {
	noop.Span
	name   string
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}
func (s *recordedSpan) SetStatus(code codes.Code, _ string)           { s.status = code }
func (s *recordedSpan) RecordError(err error, _ ...trace.EventOption) { s.errs = append(s.errs, err) }
func (s *recordedSpan) End(...trace.SpanEndOption)                    { s.ended = true }

type recordingTracer struct {
	noop.Tracer
	spans []*recordedSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
	s := &recordedSpan{name: name, attrs: make(map[attribute.Key]attribute.Value)}
	r.spans = append(r.spans, s)
	return ctx, s
}

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

func TestTracerSpanPerCommit(t *testing.T) {
	rec := &recordingTracer{}
	tr := telemetry.NewTracer(telemetry.WithTracerProvider(recordingProvider{tracer: rec}))

	tr.SliceFinished(4, true)
	tr.SliceFinished(2, false)
	tr.Committed(vango.CommitStats{Placements: 3, Ops: map[host.Op]int{host.OpAppendChild: 1}}, time.Millisecond, nil)

	if len(rec.spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(rec.spans))
	}
	s := rec.spans[0]
	if s.name != "fiber.commit" || !s.ended {
		t.Errorf("span = %q ended=%t", s.name, s.ended)
	}
	if s.status != codes.Ok {
		t.Errorf("status = %v, want Ok", s.status)
	}
	for key, want := range map[attribute.Key]int64{
		"fiber.placements": 3,
		"fiber.mutations":  1,
		"fiber.slices":     2,
		"fiber.yields":     1,
		"fiber.units":      6,
	} {
		if got := s.attrs[key].AsInt64(); got != want {
			t.Errorf("%s = %d, want %d", key, got, want)
		}
	}

	// Slice counters restart after each commit.
	boom := stderrors.New("boom")
	tr.Committed(vango.CommitStats{}, 0, boom)
	s = rec.spans[1]
	if s.attrs["fiber.slices"].AsInt64() != 0 {
		t.Errorf("slices carried over: %v", s.attrs["fiber.slices"])
	}
	if s.status != codes.Error || len(s.errs) != 1 || s.errs[0] != boom {
		t.Errorf("failed commit span status=%v errs=%v", s.status, s.errs)
	}
}

type countingObserver struct {
	renders, slices, commits int
}

func (c *countingObserver) RenderRequested()        { c.renders++ }
func (c *countingObserver) SliceFinished(int, bool) { c.slices++ }
func (c *countingObserver) Committed(vango.CommitStats, time.Duration, error) {
	c.commits++
}

func TestMultiFansOut(t *testing.T) {
	a, b := &countingObserver{}, &countingObserver{}
	mem := host.NewMemory()
	rt := vango.New(mem, vango.WithObserver(telemetry.Multi{a, b}))
	rt.Render(vdom.P("x"), mem.NewContainer("root"))
	if err := rt.Flush(); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	for _, c := range []*countingObserver{a, b} {
		if c.renders != 1 || c.slices != 1 || c.commits != 1 {
			t.Errorf("observer saw %+v, want one of each", *c)
		}
	}
}
