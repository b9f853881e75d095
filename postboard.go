package postboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/postboard/dashboard"
	"github.com/jpalmerr/postboard/internal/fetcher"
	"github.com/jpalmerr/postboard/internal/metrics"
	"github.com/jpalmerr/postboard/internal/server"
	"github.com/jpalmerr/postboard/internal/store"
	"github.com/jpalmerr/postboard/internal/trigger"
	"github.com/jpalmerr/postboard/internal/view"
)

const defaultPort = 8080

// ErrBusy is returned by [PostBoard.Refresh] when another load is already
// in flight. No signal is dispatched in that case.
var ErrBusy = fetcher.ErrBusy

// PostBoard loads posts from a remote [Source], keeps the application state
// and serves it as a page, a JSON API and an event stream.
//
// Each load dispatches a Requested signal, then exactly one of Succeeded or
// Failed. The state is only ever changed by reducing those signals, so it
// always describes one of three situations: loading, loaded, or failed.
//
// The typical lifecycle is:
//
//	src, _ := postboard.NewSource("https://jsonplaceholder.typicode.com/posts")
//	pb, err := postboard.New(postboard.WithSource(src))
//	if err != nil {
//	    slog.Error("failed to create postboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	pb.Start(ctx) // blocks until context cancelled
type PostBoard struct {
	title          string
	source         Source
	port           int
	schedule       string
	logger         *slog.Logger
	stateCallbacks []func(State)

	store   *store.MemoryStore
	fetcher *fetcher.Fetcher
	loader  *fetcher.Loader
	metrics *metrics.Metrics
}

// New creates a new [PostBoard] instance with the given options.
//
// A source must be configured via [WithSource]. Other options have
// sensible defaults:
//   - Port: 8080
//   - Title: "Posts"
//   - Schedule: none (load once at start)
//
// The returned instance starts in the initial state: not loading, no items,
// no error.
//
// Example:
//
//	pb, err := postboard.New(
//	    postboard.WithSource(src),
//	    postboard.WithSchedule("@every 5m"),
//	    postboard.WithPort(9090),
//	)
func New(opts ...Option) (*PostBoard, error) {
	cfg := &pbConfig{
		port:  defaultPort,
		title: view.DefaultTitle,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.source == nil {
		return nil, errors.New("a source is required")
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.port)
	}

	if err := trigger.Validate(cfg.schedule); err != nil {
		return nil, err
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	f, err := fetcher.New(cfg.source.fetcherConfig())
	if err != nil {
		return nil, err
	}

	pb := &PostBoard{
		title:          cfg.title,
		source:         *cfg.source,
		port:           cfg.port,
		schedule:       cfg.schedule,
		logger:         logger,
		stateCallbacks: cfg.stateCallbacks,
		store:          store.NewMemoryStore(),
		fetcher:        f,
		metrics:        metrics.New(),
	}
	pb.loader = fetcher.NewLoader(f, callbackDispatcher{pb: pb}, logger, func(res fetcher.Result) {
		pb.metrics.ObserveLoad(res.Latency, res.Items, res.Err)
	})
	return pb, nil
}

// Start loads once, starts the optional schedule and serves the page.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - A load is triggered immediately, then on the configured schedule
//   - The HTTP server serves the page, the API and the event stream
//   - Prometheus metrics are exposed at /metrics
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails
// to start or stops unexpectedly.
func (pb *PostBoard) Start(ctx context.Context) error {
	pb.logger.Info("postboard starting", "source", pb.source.URL())
	if pb.schedule != "" {
		pb.logger.Info("schedule configured", "schedule", pb.schedule)
	}

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	page, err := view.NewPage(dashboard.Assets)
	if err != nil {
		return fmt.Errorf("failed to load page template: %w", err)
	}

	httpServer := server.NewServer(pb.store, refresher{pb: pb}, page, pb.metrics.Handler(), pb.port, pb.title, pb.logger)
	ln, err := httpServer.Listen()
	if err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	pb.logger.Info("page available", "url", fmt.Sprintf("http://localhost:%d", pb.port))

	scheduler, err := trigger.NewScheduler(pb.schedule, pb.triggeredLoad, pb.logger)
	if err != nil {
		_ = ln.Close()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpServer.Serve(gctx, ln)
	})
	scheduler.Start(gctx)
	g.Go(func() error {
		<-gctx.Done()
		scheduler.Stop()
		return nil
	})

	err = g.Wait()
	pb.fetcher.Close()
	if err != nil {
		return err
	}
	pb.logger.Info("postboard stopped")
	return nil
}

// Refresh runs one load now and returns the resulting state.
//
// Returns [ErrBusy] if a load is already in flight. A failed load returns
// the failed state together with an error describing the cause; the same
// information is in State.Error.
func (pb *PostBoard) Refresh(ctx context.Context) (State, error) {
	res, err := pb.refresh(ctx)
	if err != nil {
		return pb.State(), err
	}
	if res.Err != nil {
		return pb.State(), fmt.Errorf("load %s failed: %w", res.RequestID, res.Err)
	}
	return pb.State(), nil
}

// State returns a snapshot of the current application state.
func (pb *PostBoard) State() State {
	return stateFromStore(pb.store.Snapshot())
}

// WriteText renders the current state as plain text: a loading indicator,
// the error message, or one line per post.
func (pb *PostBoard) WriteText(w io.Writer) error {
	return view.Text(w, pb.store.Snapshot())
}

// Source returns the configured source.
func (pb *PostBoard) Source() Source {
	return pb.source
}

// Port returns the configured HTTP port.
func (pb *PostBoard) Port() int {
	return pb.port
}

// Title returns the page title.
func (pb *PostBoard) Title() string {
	return pb.title
}

// Schedule returns the configured cron schedule, or "" when loads only run
// at start and on demand.
func (pb *PostBoard) Schedule() string {
	return pb.schedule
}

// refresh runs one load and counts it as skipped when another is in flight.
func (pb *PostBoard) refresh(ctx context.Context) (fetcher.Result, error) {
	res, err := pb.loader.Refresh(ctx)
	if errors.Is(err, fetcher.ErrBusy) {
		pb.metrics.ObserveSkipped()
	}
	return res, err
}

// triggeredLoad is the scheduler's load function.
func (pb *PostBoard) triggeredLoad(ctx context.Context, reason string) {
	if _, err := pb.refresh(ctx); err != nil {
		pb.logger.Debug("load skipped", "reason", reason, "error", err.Error())
	}
}

// refresher exposes manual loads to the HTTP server.
type refresher struct {
	pb *PostBoard
}

func (r refresher) Refresh(ctx context.Context) (fetcher.Result, error) {
	return r.pb.refresh(ctx)
}

// callbackDispatcher applies signals to the store, then reports the new
// state to the registered callbacks.
type callbackDispatcher struct {
	pb *PostBoard
}

func (d callbackDispatcher) Dispatch(sig store.Signal) store.State {
	next := d.pb.store.Dispatch(sig)
	d.pb.logger.Debug("signal applied", "signal", sig.Kind(), "loading", next.Loading, "items", len(next.Items))

	if len(d.pb.stateCallbacks) > 0 {
		public := stateFromStore(next)
		for _, cb := range d.pb.stateCallbacks {
			invokeCallbackSafe(cb, public, sig.Kind(), d.pb.logger)
		}
	}
	return next
}

// invokeCallbackSafe calls a state callback with panic recovery.
// Panics are logged with a correlation id but do not propagate.
func invokeCallbackSafe(cb func(State), s State, signal string, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("state callback panicked",
				"panic", r,
				"signal", signal,
				"correlation_id", uuid.NewString(),
			)
		}
	}()
	cb(s)
}
