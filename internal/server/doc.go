// Package server provides the HTTP server for postboard.
//
// This package is internal to postboard and handles all HTTP concerns:
//
//   - Page: the html/template view of the current state at "/"
//   - REST API: state snapshot at "/api/state", manual load at "/api/refresh"
//   - Server-Sent Events: state changes at "/api/sse"
//   - Metrics: Prometheus exposition at "/metrics"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
