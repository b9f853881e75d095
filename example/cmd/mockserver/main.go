// Standalone mock posts server for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/postboard serve -c example/config.yaml
//	go run ./cmd/postboard fetch --url http://localhost:9999/posts
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"
)

func main() {
	fmt.Println("Mock posts server starting on :9999")
	fmt.Println("GET /posts (array) or /wrapped ({\"data\": [...]})")
	fmt.Println("Every 5th request fails with 503")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	var (
		mu       sync.Mutex
		requests int
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(200+rand.Intn(500)) * time.Millisecond)

		mu.Lock()
		requests++
		n := requests
		mu.Unlock()

		if n%5 == 0 {
			http.Error(w, "try again later", http.StatusServiceUnavailable)
			return
		}

		posts := make([]map[string]any, 0, 5+n)
		for i := 1; i <= 5+n; i++ {
			posts = append(posts, map[string]any{
				"userId": 1,
				"id":     i,
				"title":  fmt.Sprintf("post number %d", i),
			})
		}

		var body any = posts
		if r.URL.Path == "/wrapped" {
			body = map[string]any{"data": posts}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}

	http.HandleFunc("/posts", handler)
	http.HandleFunc("/wrapped", handler)

	if err := http.ListenAndServe(":9999", nil); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
