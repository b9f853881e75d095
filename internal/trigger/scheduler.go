package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Trigger reasons passed to a [LoadFunc].
const (
	ReasonStart    = "start"
	ReasonSchedule = "schedule"
)

// LoadFunc runs one load. reason says what triggered it.
type LoadFunc func(ctx context.Context, reason string)

// Validate reports whether spec is a usable schedule. The empty spec is
// valid and means "load once at start only".
//
// Accepted forms are standard five-field cron expressions and descriptors
// such as "@hourly" or "@every 5m".
func Validate(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Scheduler triggers loads: once immediately on start, then on an optional
// cron schedule.
//
// Scheduled runs never overlap; a tick that fires while the previous run is
// still going is skipped. All lifecycle methods (Start, Stop) are safe for
// concurrent use.
type Scheduler struct {
	spec     string
	schedule cron.Schedule
	load     LoadFunc
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	cron    *cron.Cron
	wg      sync.WaitGroup
}

// NewScheduler creates a [Scheduler]. spec may be empty.
//
// Returns an error if spec does not parse.
func NewScheduler(spec string, load LoadFunc, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{spec: spec, load: load, logger: logger}
	if spec != "" {
		schedule, err := cron.ParseStandard(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
		}
		s.schedule = schedule
	}
	return s, nil
}

// Start runs the initial load in the background and starts the schedule.
//
// Start is non-blocking. It is idempotent; calls after the first are
// no-ops. If Stop was called before Start, Start is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.load(runCtx, ReasonStart)
	}()

	if s.schedule == nil {
		return
	}

	logger := cronLogger{s.logger}
	s.cron = cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	s.cron.Schedule(s.schedule, cron.FuncJob(func() {
		s.load(runCtx, ReasonSchedule)
	}))
	s.cron.Start()

	s.logger.Info("schedule started", "schedule", s.spec)
}

// Stop halts the schedule, cancels in-flight loads and waits for them to return.
//
// Stop is idempotent and safe to call before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	c := s.cron
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	s.wg.Wait()
}

// Spec returns the schedule expression, or "" when only the start load runs.
func (s *Scheduler) Spec() string {
	return s.spec
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
