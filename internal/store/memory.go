package store

import (
	"sync"
)

// MemoryStore is an in-memory implementation of [Store].
//
// MemoryStore applies signals one at a time under a lock, so concurrent
// callers observe a single sequential history. Subscribers receive updates
// via buffered channels (buffer size 100). Updates are sent non-blocking; if a
// subscriber's buffer is full, the update is dropped for that subscriber.
type MemoryStore struct {
	mu          sync.RWMutex
	state       State
	subscribers map[chan State]struct{}
	subMu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory [Store] holding [Initial].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state:       Initial(),
		subscribers: make(map[chan State]struct{}),
	}
}

// Dispatch applies sig through [Reduce] and notifies all subscribers.
func (m *MemoryStore) Dispatch(sig Signal) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = Reduce(m.state, sig)

	// notify under mu so subscribers see states in dispatch order
	m.notifySubscribers(m.state.Clone())

	return m.state.Clone()
}

// Snapshot returns a deep copy of the current state.
func (m *MemoryStore) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state.Clone()
}

// Subscribe creates a new subscription and returns a channel for receiving updates.
//
// The returned channel has a buffer of 100 messages. If the buffer fills
// (slow consumer), new states are dropped for this subscriber.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan State {
	ch := make(chan State, 100)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan State) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the state to all active subscribers without blocking.
// Subscribers share the snapshot and must treat it as read-only.
func (m *MemoryStore) notifySubscribers(s State) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- s:
		default:
			// subscriber is slow, drop the message
		}
	}
}
