// Package dashboard provides the embedded web page for postboard.
//
// The page is an html/template rendered by the server with the current
// state, then kept up to date in the browser from the SSE stream. Embedding
// keeps postboard a single binary.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the web page.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - page template with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
