package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/postboard"
)

func main() {
	// start mock server (see mock_server.go)
	go StartMockPostsServer(":9999")
	time.Sleep(100 * time.Millisecond)

	src, err := postboard.NewSource("http://localhost:9999/wrapped",
		postboard.WithItemsPath("$.data"),
		postboard.WithTimeout(3*time.Second),
	)
	if err != nil {
		slog.Error("failed to create source", "error", err)
		os.Exit(1)
	}

	pb, err := postboard.New(
		postboard.WithSource(src),
		postboard.WithSchedule("@every 5s"),
		postboard.WithPort(8080),
		postboard.WithTitle("Mock Posts"),
		postboard.WithStateCallback(func(s postboard.State) {
			if s.Failed() {
				slog.Warn("load failed", "kind", s.Error.Kind, "request_id", s.Error.RequestID)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create postboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  postboard demo")
	fmt.Println()
	fmt.Println("  Open http://localhost:8080 in your browser")
	fmt.Println("  Posts reload every 5s; the mock fails now and then")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pb.Start(ctx); err != nil {
		slog.Error("postboard error", "error", err)
		os.Exit(1)
	}
}
