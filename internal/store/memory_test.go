package store

import (
	"sync"
	"testing"
	"time"
)

func TestNewMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if store == nil {
		t.Fatal("NewMemoryStore() = nil")
	}

	s := store.Snapshot()
	if s.Loading {
		t.Error("Snapshot().Loading = true, want false")
	}
	if s.Items == nil || len(s.Items) != 0 {
		t.Errorf("Snapshot().Items = %v, want empty non-nil slice", s.Items)
	}
	if s.Error != nil {
		t.Errorf("Snapshot().Error = %v, want nil", s.Error)
	}
}

func TestMemoryStore_Dispatch(t *testing.T) {
	store := NewMemoryStore()

	got := store.Dispatch(Requested{RequestID: "r1"})
	if !got.Loading {
		t.Error("Dispatch(Requested).Loading = false, want true")
	}

	got = store.Dispatch(Succeeded{RequestID: "r1", Items: []Post{{ID: 1, Title: "Hello"}}})
	if got.Loading {
		t.Error("Dispatch(Succeeded).Loading = true, want false")
	}
	if len(got.Items) != 1 || got.Items[0].Title != "Hello" {
		t.Errorf("Dispatch(Succeeded).Items = %v, want [Hello]", got.Items)
	}

	if snap := store.Snapshot(); len(snap.Items) != 1 {
		t.Errorf("Snapshot().Items = %v items, want 1", len(snap.Items))
	}
}

func TestMemoryStore_SnapshotIsCopy(t *testing.T) {
	store := NewMemoryStore()
	store.Dispatch(Succeeded{Items: []Post{{ID: 1, Title: "A"}}})

	snap := store.Snapshot()
	snap.Items[0].Title = "mutated"

	if got := store.Snapshot().Items[0].Title; got != "A" {
		t.Errorf("store state changed through snapshot: Title = %q", got)
	}
}

func TestMemoryStore_Subscribe(t *testing.T) {
	store := NewMemoryStore()

	ch := store.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() = nil")
	}

	go func() {
		store.Dispatch(Requested{})
	}()

	select {
	case s := <-ch:
		if !s.Loading {
			t.Error("received Loading = false, want true")
		}
	case <-time.After(1 * time.Second):
		t.Error("Subscribe() channel did not receive update")
	}
}

func TestMemoryStore_SubscribersSeeDispatchOrder(t *testing.T) {
	store := NewMemoryStore()
	ch := store.Subscribe()
	defer store.Unsubscribe(ch)

	store.Dispatch(Requested{})
	store.Dispatch(Failed{Err: ErrorInfo{Message: "boom"}})

	first := <-ch
	second := <-ch
	if !first.Loading {
		t.Errorf("first state = %+v, want loading", first)
	}
	if second.Loading || second.Error == nil {
		t.Errorf("second state = %+v, want failed", second)
	}
}

func TestMemoryStore_MultipleSubscribers(t *testing.T) {
	store := NewMemoryStore()

	ch1 := store.Subscribe()
	ch2 := store.Subscribe()
	ch3 := store.Subscribe()

	go func() {
		store.Dispatch(Requested{})
	}()

	received := 0
	timeout := time.After(1 * time.Second)

	for received < 3 {
		select {
		case <-ch1:
			received++
		case <-ch2:
			received++
		case <-ch3:
			received++
		case <-timeout:
			t.Fatalf("Only received %d/3 updates", received)
		}
	}
}

func TestMemoryStore_Unsubscribe(t *testing.T) {
	store := NewMemoryStore()

	ch := store.Subscribe()
	store.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Unsubscribe() channel should be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Unsubscribe() channel should be closed immediately")
	}

	// second call must be a no-op
	store.Unsubscribe(ch)
}

func TestMemoryStore_SlowSubscriberDoesNotBlock(t *testing.T) {
	store := NewMemoryStore()

	// never read
	_ = store.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			store.Dispatch(Requested{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("Dispatch() blocked on slow subscriber")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	numGoroutines := 10
	numUpdates := 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numUpdates; j++ {
				store.Dispatch(Requested{})
				store.Dispatch(Succeeded{Items: []Post{{ID: int64(j), Title: "t"}}})
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numUpdates; j++ {
				if shape(store.Snapshot()) == "" {
					t.Error("Snapshot() returned a state matching no shape")
					return
				}
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := store.Subscribe()
			time.Sleep(10 * time.Millisecond)
			store.Unsubscribe(ch)
		}()
	}

	wg.Wait()
}
