package fetcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jpalmerr/postboard/internal/store"
)

// ErrBusy is returned by [Loader.Refresh] when a load is already in flight.
var ErrBusy = errors.New("a load is already in progress")

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// DecodeError reports a response body that is not a list of posts.
type DecodeError struct {
	// Reason is a short description of what did not match.
	Reason string

	// Violations lists individual schema violations, if any.
	Violations []string

	// Err is the underlying parse error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode posts: ")
	b.WriteString(e.Reason)
	if len(e.Violations) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Violations, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// errorInfo converts a load error into the form kept in the store.
func errorInfo(requestID string, err error) store.ErrorInfo {
	kind := store.KindFetch

	var statusErr *StatusError
	var decodeErr *DecodeError
	switch {
	case errors.As(err, &statusErr):
		kind = store.KindStatus
	case errors.As(err, &decodeErr):
		kind = store.KindDecode
	}

	return store.ErrorInfo{
		Kind:      kind,
		Message:   err.Error(),
		RequestID: requestID,
	}
}
