// Package telemetry exports runtime events to Prometheus and OpenTelemetry.
//
// Both Metrics and Tracer implement vango.Observer. Combine them with Multi:
//
//	reg := prometheus.NewRegistry()
//	rt := vango.New(adapter, vango.WithObserver(telemetry.Multi{
//	    telemetry.NewMetrics(telemetry.WithRegistry(reg)),
//	    telemetry.NewTracer(),
//	}))
//
// Metrics collected (namespace "vango", subsystem "fiber"):
//   - vango_fiber_renders_total: builds started, including restarts
//   - vango_fiber_units_total: fiber units performed
//   - vango_fiber_slices_total: slices run
//   - vango_fiber_yields_total: slices that yielded with work left
//   - vango_fiber_commits_total: commits by status (ok, aborted)
//   - vango_fiber_commit_duration_seconds: commit duration
//   - vango_fiber_mutations_total: host calls made by commits, by op
//   - vango_fiber_commit_effects: effects per commit, by kind
package telemetry
