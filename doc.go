// Package postboard loads a list of posts from a remote JSON endpoint and
// shows it, with its loading and error states, as a live page.
//
// Every load follows the same lifecycle. A Requested signal marks the state
// as loading, then exactly one of Succeeded (carrying the posts) or Failed
// (carrying an error description) ends it. The state is derived from those
// signals by a pure reducer and held by a single store, so the page, the
// JSON API and the event stream always agree.
//
// # Quick Start
//
//	src, _ := postboard.NewSource("https://jsonplaceholder.typicode.com/posts")
//	pb, _ := postboard.New(postboard.WithSource(src))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	pb.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
//	src, err := postboard.NewSource(url,
//	    postboard.WithHeaders("Authorization", "Bearer token"),
//	    postboard.WithTimeout(5 * time.Second),
//	    postboard.WithItemsPath("$.data"),
//	)
//
//	pb, err := postboard.New(
//	    postboard.WithSource(src),
//	    postboard.WithSchedule("@every 5m"),
//	    postboard.WithPort(9090),
//	    postboard.WithTitle("Team Posts"),
//	)
//
// Loads can also be run without the server via [PostBoard.Refresh], and
// the state written as text via [PostBoard.WriteText].
//
// # Architecture
//
//   - internal/store: signals, the reducer and the state store with pub/sub
//   - internal/fetcher: HTTP fetching, decoding and the load lifecycle
//   - internal/trigger: the start and cron load triggers
//   - internal/view: HTML and text rendering of a state
//   - internal/server: page, REST API, Server-Sent Events and metrics routes
//   - internal/metrics: Prometheus collectors for loads
//   - dashboard: embedded page template
package postboard
