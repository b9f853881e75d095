package postboard

import (
	"encoding/json"

	"github.com/jpalmerr/postboard/internal/store"
)

// Post is a single record from the remote source.
//
// Only ID and Title are interpreted by postboard. Raw holds the full JSON
// object selected from the response, re-encoded with sorted keys, so fields
// postboard does not know about reach API consumers with their values intact.
type Post struct {
	// ID is the record identifier.
	ID int64

	// Title is the display title.
	Title string

	// Raw is the full JSON object, re-encoded.
	Raw json.RawMessage
}

// ErrorInfo describes a failed load.
type ErrorInfo struct {
	// Kind is "fetch" (network, timeout), "status" (non-2xx response) or
	// "decode" (malformed body or schema mismatch).
	Kind string

	// Message is the human-readable error text.
	Message string

	// RequestID identifies the load that failed.
	RequestID string
}

// State is a snapshot of the application state.
//
// Exactly one of three shapes holds at any time:
//   - Loading is true: a load is in flight, Items are those from before
//   - Loading is false and Error is nil: Items are from the last successful load
//   - Loading is false and Error is set: the last load failed, Items are
//     left over from the last successful load (possibly empty)
type State struct {
	Loading bool
	Items   []Post
	Error   *ErrorInfo
}

// Failed reports whether the last load failed.
func (s State) Failed() bool {
	return !s.Loading && s.Error != nil
}

// stateFromStore converts the internal state into the public type.
// Creates copies of mutable fields so callers cannot reach store memory.
func stateFromStore(s store.State) State {
	out := State{
		Loading: s.Loading,
		Items:   make([]Post, len(s.Items)),
	}
	for i, p := range s.Items {
		out.Items[i] = Post{
			ID:    p.ID,
			Title: p.Title,
			Raw:   copyBytes(p.Raw),
		}
	}
	if s.Error != nil {
		out.Error = &ErrorInfo{
			Kind:      s.Error.Kind,
			Message:   s.Error.Message,
			RequestID: s.Error.RequestID,
		}
	}
	return out
}

// copyBytes returns a copy of the byte slice, or nil if input is nil.
func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
