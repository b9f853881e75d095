package store

// Signal names, returned by [Signal.Kind].
const (
	SignalRequested = "requested"
	SignalSucceeded = "succeeded"
	SignalFailed    = "failed"
)

// Signal is a lifecycle event of a single load.
//
// A signal is created by the loader, applied once by the store and then
// dropped. Types other than [Requested], [Succeeded] and [Failed] are
// accepted but leave the state unchanged.
type Signal interface {
	Kind() string
}

// Requested is emitted before the request is sent.
type Requested struct {
	RequestID string
}

// Succeeded carries the posts of a completed load, in response order.
type Succeeded struct {
	RequestID string
	Items     []Post
}

// Failed carries the error of a failed load.
type Failed struct {
	RequestID string
	Err       ErrorInfo
}

func (Requested) Kind() string { return SignalRequested }
func (Succeeded) Kind() string { return SignalSucceeded }
func (Failed) Kind() string    { return SignalFailed }

// Reduce returns the state that follows s after sig.
//
// Reduce is pure: s is not modified and the returned state shares no
// memory with sig.
//
//   - Requested: loading, error cleared, items kept
//   - Succeeded: not loading, items replaced, error cleared
//   - Failed: not loading, error set, items kept from before
func Reduce(s State, sig Signal) State {
	next := s.Clone()

	switch sig := sig.(type) {
	case Requested:
		next.Loading = true
		next.Error = nil
	case Succeeded:
		next.Loading = false
		next.Items = clonePosts(sig.Items)
		if next.Items == nil {
			next.Items = []Post{}
		}
		next.Error = nil
	case Failed:
		next.Loading = false
		e := sig.Err
		next.Error = &e
	}

	return next
}
