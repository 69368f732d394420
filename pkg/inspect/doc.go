// Package inspect serves a devtools HTTP API for a running runtime.
//
// Routes:
//
//	GET  /healthz   liveness
//	GET  /tree      committed host tree (markup and JSON) and fiber dump
//	GET  /stats     runtime counters
//	POST /dispatch  fire a listener: {"target": "inc", "event": "click"}
//	GET  /metrics   Prometheus exposition, when a gatherer is configured
//	GET  /ws        commit events as JSON text messages
//
// The runtime is single-threaded, so every handler that touches it runs
// on the host.Loop through Loop.Do. A Stream must be installed as (part of)
// the runtime's observer for /ws to receive events:
//
//	stream := inspect.NewStream()
//	rt := vango.New(mem, vango.WithObserver(stream))
//	srv := inspect.New(inspect.Config{Loop: loop, Runtime: rt, Host: mem, Stream: stream})
package inspect
