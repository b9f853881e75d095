// Package view renders postboard state for people: an HTML page for the
// browser and plain text for the terminal.
//
// Both renderings follow the same rules: while loading only a loading
// indicator is shown; an error is shown when set, followed by the posts that
// were kept from the last successful load; otherwise one line per post title.
package view

import (
	"bufio"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/jpalmerr/postboard/internal/store"
)

// DefaultTitle is used when no title is configured.
const DefaultTitle = "Posts"

const pagePath = "assets/index.html"

// Page is the parsed HTML template.
type Page struct {
	tmpl *template.Template
}

type pageData struct {
	Title string
	State store.State
}

// NewPage parses the page template from assets.
func NewPage(assets fs.FS) (*Page, error) {
	tmpl, err := template.ParseFS(assets, pagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return &Page{tmpl: tmpl}, nil
}

// Render writes the page for s. An empty title means DefaultTitle.
func (p *Page) Render(w io.Writer, title string, s store.State) error {
	if title == "" {
		title = DefaultTitle
	}
	return p.tmpl.Execute(w, pageData{Title: title, State: s})
}

// Text writes a plain-text rendering of s.
func Text(w io.Writer, s store.State) error {
	bw := bufio.NewWriter(w)

	if s.Loading {
		_, _ = fmt.Fprintln(bw, "Loading...")
		return bw.Flush()
	}

	if s.Error != nil {
		_, _ = fmt.Fprintf(bw, "Error: %s\n", s.Error.Message)
		if len(s.Items) > 0 {
			_, _ = fmt.Fprintf(bw, "Showing %d posts from the last successful load:\n", len(s.Items))
		}
	}

	for _, p := range s.Items {
		_, _ = fmt.Fprintf(bw, "%4d  %s\n", p.ID, p.Title)
	}

	return bw.Flush()
}
