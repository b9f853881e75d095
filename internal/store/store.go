package store

import "encoding/json"

// Post is a single record returned by the remote source.
//
// Only ID and Title are interpreted. Raw holds the whole record as selected
// from the response, re-encoded with sorted keys, so fields this package does
// not know about still reach API consumers with their values unchanged.
type Post struct {
	// ID is the record identifier.
	ID int64 `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Raw is the full JSON object, re-encoded. May be nil for posts built in code.
	Raw json.RawMessage `json:"-"`
}

// MarshalJSON emits Raw when present, otherwise just id and title.
func (p Post) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}{p.ID, p.Title})
}

// Error kinds carried by [ErrorInfo]. The reducer does not distinguish them.
const (
	KindFetch  = "fetch"
	KindStatus = "status"
	KindDecode = "decode"
)

// ErrorInfo describes a failed load.
type ErrorInfo struct {
	// Kind is one of KindFetch, KindStatus or KindDecode.
	Kind string `json:"kind"`

	// Message is the human-readable error text.
	Message string `json:"message"`

	// RequestID identifies the load that failed.
	RequestID string `json:"request_id,omitempty"`
}

// State is the application state owned by a [Store].
//
// After any transition exactly one shape holds: Loading with Items left as
// they were, not Loading with Items from the last success, or not Loading
// with Error set.
type State struct {
	Loading bool       `json:"loading"`
	Items   []Post     `json:"items"`
	Error   *ErrorInfo `json:"error"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{Loading: s.Loading, Items: clonePosts(s.Items)}
	if s.Error != nil {
		e := *s.Error
		out.Error = &e
	}
	return out
}

// Initial returns the state a store starts with: idle, no items, no error.
func Initial() State {
	return State{Items: []Post{}}
}

// Store owns a [State] and changes it only by applying signals.
//
// Store implementations must be safe for concurrent access. Subscribers
// receive every new state through a buffered channel; slow consumers may
// miss intermediate states.
type Store interface {
	// Dispatch applies sig to the current state and returns the new state.
	Dispatch(sig Signal) State

	// Snapshot returns a copy of the current state.
	Snapshot() State

	// Subscribe returns a channel that receives each new state.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan State

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan State)
}

func clonePosts(posts []Post) []Post {
	if posts == nil {
		return nil
	}
	out := make([]Post, len(posts))
	for i, p := range posts {
		out[i] = p
		if p.Raw != nil {
			out[i].Raw = append(json.RawMessage(nil), p.Raw...)
		}
	}
	return out
}
