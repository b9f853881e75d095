package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// mockPosts serves a list of posts that grows over time and fails now and
// then, so every state of the page can be seen.
type mockPosts struct {
	mu       sync.Mutex
	requests int
	posts    []map[string]any
}

func newMockPosts() *mockPosts {
	m := &mockPosts{}
	for i := 1; i <= 3; i++ {
		m.add()
	}
	return m
}

// add appends one post. Caller must hold mu or own m exclusively.
func (m *mockPosts) add() {
	id := len(m.posts) + 1
	m.posts = append(m.posts, map[string]any{
		"userId": 1 + rand.Intn(10),
		"id":     id,
		"title":  fmt.Sprintf("post number %d", id),
		"body":   "lorem ipsum",
	})
}

// ServeHTTP answers /posts with a bare array and /wrapped with {"data": [...]}.
// Every fifth request fails with 503 and every seventh returns a body that
// is not a list of posts.
func (m *mockPosts) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// simulate latency so the loading state is visible
	time.Sleep(time.Duration(300+rand.Intn(700)) * time.Millisecond)

	m.mu.Lock()
	m.requests++
	n := m.requests
	if n%3 == 0 {
		m.add()
	}
	posts := append([]map[string]any(nil), m.posts...)
	m.mu.Unlock()

	switch {
	case n%5 == 0:
		slog.Info("mock failure", "request", n, "kind", "status")
		http.Error(w, "try again later", http.StatusServiceUnavailable)
		return
	case n%7 == 0:
		slog.Info("mock failure", "request", n, "kind", "decode")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": "not a list"}`))
		return
	}

	var body any = posts
	if r.URL.Path == "/wrapped" {
		body = map[string]any{"data": posts, "meta": map[string]int{"count": len(posts)}}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// StartMockPostsServer runs the mock posts API on addr.
// Call this in a goroutine before creating the PostBoard.
func StartMockPostsServer(addr string) {
	mux := http.NewServeMux()
	m := newMockPosts()
	mux.Handle("/posts", m)
	mux.Handle("/wrapped", m)

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
