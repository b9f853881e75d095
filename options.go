package postboard

import (
	"errors"
	"log/slog"
)

// pbConfig holds mutable state during PostBoard construction.
type pbConfig struct {
	title          string
	source         *Source
	port           int
	schedule       string
	logger         *slog.Logger
	stateCallbacks []func(State)
}

// Option is a function that configures a [PostBoard] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithSource], [WithPort], [WithTitle], [WithSchedule],
// [WithLogger], [WithStateCallback].
type Option func(*pbConfig) error

// WithSource sets the [Source] posts are loaded from. Required.
//
// Calling it more than once replaces the previous source.
func WithSource(s Source) Option {
	return func(cfg *pbConfig) error {
		if s.url == "" {
			return errors.New("source must be created with NewSource")
		}
		cfg.source = &s
		return nil
	}
}

// WithPort sets the HTTP port for the page and API.
//
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *pbConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithSchedule sets a cron schedule for repeated loads, in addition to the
// load at start.
//
// Accepts standard five-field cron expressions and descriptors:
//
//	postboard.WithSchedule("*/5 * * * *")
//	postboard.WithSchedule("@every 30s")
//	postboard.WithSchedule("@hourly")
//
// A scheduled load that fires while another is in flight is skipped.
// The empty string disables the schedule. Invalid expressions are reported
// by [New].
func WithSchedule(spec string) Option {
	return func(cfg *pbConfig) error {
		cfg.schedule = spec
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the PostBoard instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *pbConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithStateCallback registers a function to be called after every state
// change, with the new state.
//
// A load produces two calls: one for the loading state, one for the loaded
// or failed state. Multiple callbacks execute in registration order.
//
// IMPORTANT: Callbacks must be non-blocking. They run synchronously on the
// loading goroutine, so a slow callback delays the load's completion.
// Panics within callbacks are recovered and logged.
//
// Example:
//
//	pb, err := postboard.New(
//	    postboard.WithSource(src),
//	    postboard.WithStateCallback(func(s postboard.State) {
//	        if s.Failed() {
//	            log.Printf("ALERT: load failed: %s", s.Error.Message)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithStateCallback(cb func(State)) Option {
	return func(cfg *pbConfig) error {
		if cb == nil {
			return nil
		}
		cfg.stateCallbacks = append(cfg.stateCallbacks, cb)
		return nil
	}
}

// WithTitle sets the page title displayed in the browser tab and header.
//
// If not specified, defaults to "Posts".
func WithTitle(title string) Option {
	return func(cfg *pbConfig) error {
		if title == "" {
			return errors.New("title cannot be empty")
		}
		cfg.title = title
		return nil
	}
}
