package inspect

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/vango"
)

// Config configures the inspector.
type Config struct {
	// Loop runs the runtime. Required.
	Loop *host.Loop

	// Runtime is the inspected runtime. Required.
	Runtime *vango.Runtime

	// Host is the memory host the runtime renders into. Required.
	Host *host.Memory

	// Stream feeds /ws. If nil a stream is created; it only carries events
	// once installed as the runtime's observer.
	Stream *Stream

	// Gatherer backs /metrics. If nil the route is not mounted.
	Gatherer prometheus.Gatherer

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Timeout bounds the wait for the loop. Default: 2s.
	Timeout time.Duration
}

// Server is the inspector.
type Server struct {
	config   Config
	upgrader websocket.Upgrader
}

// New creates an inspector.
func New(config Config) *Server {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout == 0 {
		config.Timeout = 2 * time.Second
	}
	if config.Stream == nil {
		config.Stream = NewStream()
	}
	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local devtools
			},
		},
	}
}

// Handler returns the inspector routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/tree", s.handleTree)
	r.Get("/stats", s.handleStats)
	r.Post("/dispatch", s.handleDispatch)
	r.Get("/ws", s.handleWebSocket)
	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Stream returns the server's event stream.
func (s *Server) Stream() *Stream {
	return s.config.Stream
}

// Close disconnects every websocket client.
func (s *Server) Close() {
	s.config.Stream.hub.close()
}

// onLoop runs fn on the loop and waits for it.
func (s *Server) onLoop(ctx context.Context, fn func()) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	return s.config.Loop.Do(ctx, fn)
}

// TreeResponse is the body of GET /tree.
type TreeResponse struct {
	HTML    string         `json:"html"`
	Tree    *host.Snapshot `json:"tree,omitempty"`
	Fibers  string         `json:"fibers"`
	Pending bool           `json:"pending"`
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	var resp TreeResponse
	err := s.onLoop(r.Context(), func() {
		resp.Fibers = s.config.Runtime.Dump()
		resp.Pending = s.config.Runtime.Pending()
		if root, ok := s.config.Runtime.Container().(*host.MemNode); ok {
			snap := root.Snapshot()
			resp.Tree = &snap
			for _, c := range root.Children {
				resp.HTML += c.String()
			}
		}
	})
	if err != nil {
		s.loopError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Renders       uint64      `json:"renders"`
	Units         uint64      `json:"units"`
	Slices        uint64      `json:"slices"`
	Yields        uint64      `json:"yields"`
	Commits       uint64      `json:"commits"`
	FailedCommits uint64      `json:"failedCommits"`
	Abandoned     uint64      `json:"abandoned"`
	LiveFibers    int         `json:"liveFibers"`
	LastCommit    CommitEvent `json:"lastCommit"`
	HostNodes     int         `json:"hostNodes"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var resp StatsResponse
	err := s.onLoop(r.Context(), func() {
		st := s.config.Runtime.Stats()
		resp = StatsResponse{
			Renders:       st.Renders,
			Units:         st.Units,
			Slices:        st.Slices,
			Yields:        st.Yields,
			Commits:       st.Commits,
			FailedCommits: st.FailedCommits,
			Abandoned:     st.Abandoned,
			LiveFibers:    st.LiveFibers,
			LastCommit:    newCommitEvent(st.Last, 0, nil),
			HostNodes:     s.config.Host.Live(),
		}
	})
	if err != nil {
		s.loopError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DispatchRequest is the body of POST /dispatch.
type DispatchRequest struct {
	Target  string `json:"target"`
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Target == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target is required"})
		return
	}
	if req.Event == "" {
		req.Event = "click"
	}

	var (
		found   bool
		handled bool
		derr    error
	)
	err := s.onLoop(r.Context(), func() {
		root, ok := s.config.Runtime.Container().(*host.MemNode)
		if !ok {
			return
		}
		target := root.FindByID(req.Target)
		if target == nil {
			return
		}
		found = true
		handled, derr = s.config.Host.Dispatch(target, req.Event, req.Payload)
	})
	switch {
	case err != nil:
		s.loopError(w, err)
	case !found:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no node with id " + req.Target})
	case derr != nil:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": derr.Error()})
	default:
		s.config.Logger.Debug("dispatched", "target", req.Target, "event", req.Event, "handled", handled)
		writeJSON(w, http.StatusOK, map[string]bool{"handled": handled})
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	hub := s.config.Stream.hub
	c := hub.add(conn)

	go func() {
		for data := range c.send {
			conn.SetWriteDeadline(time.Now().Add(s.config.Timeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				break
			}
		}
		conn.Close()
	}()

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	hub.remove(c)
	conn.Close()
}

func (s *Server) loopError(w http.ResponseWriter, err error) {
	s.config.Logger.Warn("inspect: loop unavailable", "error", err)
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
