package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jpalmerr/postboard/internal/fetcher"
	"github.com/jpalmerr/postboard/internal/store"
	"github.com/jpalmerr/postboard/internal/view"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	shutdownTimeout = 5 * time.Second
)

// Refresher starts a load on demand.
type Refresher interface {
	Refresh(ctx context.Context) (fetcher.Result, error)
}

// Server handles HTTP requests for the postboard page and API.
//
// Routes:
//   - GET /: the rendered page
//   - GET /api/state: current state as JSON
//   - GET /api/sse: Server-Sent Events stream of state changes
//   - POST /api/refresh: run a load now and return the resulting state
//   - GET /metrics: Prometheus metrics (if a handler is configured)
type Server struct {
	store      store.Store
	refresher  Refresher
	page       *view.Page
	metrics    http.Handler
	port       int
	title      string
	logger     *slog.Logger
	httpServer *http.Server
}

// NewServer creates a new HTTP [Server].
//
// page and metrics may be nil, in which case their routes are not served.
// The server is not started until [Server.Serve] is called.
func NewServer(st store.Store, refresher Refresher, page *view.Page, metrics http.Handler, port int, title string, logger *slog.Logger) *Server {
	return &Server{
		store:     st,
		refresher: refresher,
		page:      page,
		metrics:   metrics,
		port:      port,
		title:     title,
		logger:    logger,
	}
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/sse", s.handleSSE)
	mux.HandleFunc("/api/refresh", s.handleRefresh)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	if s.page != nil {
		mux.HandleFunc("/", s.handlePage)
	}

	return mux
}

// Listen binds the configured port. Binding synchronously lets callers
// report an unavailable port before anything else starts.
func (s *Server) Listen() (net.Listener, error) {
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}
	return ln, nil
}

// Serve serves requests on ln until ctx is cancelled, then shuts down
// gracefully with a 5-second timeout.
//
// Returns nil on graceful shutdown, or the error that stopped serving.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, long-running handlers like SSE return.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("http server shutdown error", "error", err)
	}
	<-serveErr
	return nil
}

// handlePage serves the rendered page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	// render into a buffer so a template error does not leave a half-written page
	var buf bytes.Buffer
	if err := s.page.Render(&buf, s.title, s.store.Snapshot()); err != nil {
		s.logger.Error("failed to render page", "error", err)
		http.Error(w, "Page unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("failed to write page response", "error", err)
	}
}

// handleState returns the current state as JSON.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeState(w, http.StatusOK, s.store.Snapshot())
}

// handleRefresh runs one load and responds with the resulting state.
//
// The load is detached from the request context: once started, a load runs
// to its terminal signal even if the client goes away.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.refresher == nil {
		http.Error(w, "Refresh not available", http.StatusNotImplemented)
		return
	}

	res, err := s.refresher.Refresh(context.WithoutCancel(r.Context()))
	if errors.Is(err, fetcher.ErrBusy) {
		http.Error(w, "A load is already in progress", http.StatusConflict)
		return
	}
	if err != nil {
		s.logger.Error("refresh failed", "error", err)
		http.Error(w, "Refresh failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("X-Request-Id", res.RequestID)
	s.writeState(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) writeState(w http.ResponseWriter, code int, st store.State) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(st); err != nil {
		s.logger.Error("failed to encode state response", "error", err)
	}
}

// handleSSE streams state changes via Server-Sent Events.
//
// The handler uses write deadlines to prevent goroutine leaks when clients are
// slow or disconnected.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)

	// track if write deadlines are supported (may not be for some ResponseWriter impls)
	deadlinesSupported := true

	writeAndFlush := func(data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				// deadline not supported by underlying connection, continue without
				s.logger.Debug("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// subscribe before the snapshot so no state between them is lost
	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	data, err := json.Marshal(s.store.Snapshot())
	if err != nil {
		s.logger.Error("failed to encode state", "error", err)
		return
	}
	if err := writeAndFlush(data); err != nil {
		return
	}

	for {
		select {
		case st, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(st)
			if err != nil {
				continue
			}
			if err := writeAndFlush(data); err != nil {
				return
			}

		case <-r.Context().Done():
			// fires on both client disconnect and server shutdown
			return
		}
	}
}
