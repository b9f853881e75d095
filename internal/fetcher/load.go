package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/postboard/internal/store"
)

// Source produces the posts for one load.
type Source interface {
	Fetch(ctx context.Context) ([]store.Post, error)
}

// Dispatcher applies signals to application state.
type Dispatcher interface {
	Dispatch(sig store.Signal) store.State
}

// Result summarises one load.
type Result struct {
	RequestID string
	Items     int
	Latency   time.Duration
	// Err is the load failure, also recorded in state as a Failed signal.
	Err error
}

// Load runs one fetch lifecycle against d.
//
// Requested is dispatched before src is called. Afterwards exactly one of
// Succeeded or Failed is dispatched. A panic in src is recovered and
// reported as Failed. Load never retries.
func Load(ctx context.Context, src Source, d Dispatcher) Result {
	id := uuid.NewString()
	d.Dispatch(store.Requested{RequestID: id})

	start := time.Now()
	posts, err := safeFetch(ctx, src)
	res := Result{RequestID: id, Latency: time.Since(start)}

	if err != nil {
		res.Err = err
		d.Dispatch(store.Failed{RequestID: id, Err: errorInfo(id, err)})
		return res
	}

	res.Items = len(posts)
	d.Dispatch(store.Succeeded{RequestID: id, Items: posts})
	return res
}

// safeFetch calls src with panic recovery.
func safeFetch(ctx context.Context, src Source) (posts []store.Post, err error) {
	defer func() {
		if r := recover(); r != nil {
			posts = nil
			err = fmt.Errorf("source panic: %v", r)
		}
	}()
	return src.Fetch(ctx)
}

// Loader runs loads one at a time and reports each result.
type Loader struct {
	src      Source
	d        Dispatcher
	logger   *slog.Logger
	observer func(Result)
	inflight sync.Mutex
}

// NewLoader creates a [Loader]. observer, if not nil, is called after every
// completed load.
func NewLoader(src Source, d Dispatcher, logger *slog.Logger, observer func(Result)) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{src: src, d: d, logger: logger, observer: observer}
}

// Refresh runs one [Load] unless another is in flight, in which case it
// returns [ErrBusy] and dispatches nothing.
//
// A failed load is not an error of Refresh: it is reported in Result.Err
// and in the state.
func (l *Loader) Refresh(ctx context.Context) (Result, error) {
	if !l.inflight.TryLock() {
		return Result{}, ErrBusy
	}
	defer l.inflight.Unlock()

	res := Load(ctx, l.src, l.d)

	logAttrs := []any{
		"request_id", res.RequestID,
		"latency_ms", res.Latency.Milliseconds(),
	}
	if res.Err != nil {
		l.logger.Warn("load failed", append(logAttrs, "error", res.Err.Error())...)
	} else {
		l.logger.Debug("load completed", append(logAttrs, "items", res.Items)...)
	}

	if l.observer != nil {
		l.observer(res)
	}
	return res, nil
}
