package postboard

import (
	"testing"
	"time"
)

func TestNewSource_Valid(t *testing.T) {
	src, err := NewSource("https://api.example.com/posts")
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	if src.URL() != "https://api.example.com/posts" {
		t.Errorf("URL() = %v, want %v", src.URL(), "https://api.example.com/posts")
	}
	if src.Timeout() != 10*time.Second {
		t.Errorf("Timeout() = %v, want %v", src.Timeout(), 10*time.Second)
	}
	if src.ItemsPath() != "$" {
		t.Errorf("ItemsPath() = %q, want %q", src.ItemsPath(), "$")
	}
	if src.Schema() != nil {
		t.Errorf("Schema() = %s, want nil", src.Schema())
	}
}

func TestNewSource_InvalidURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"no scheme", "api.example.com/posts"},
		{"empty url", ""},
		{"just path", "/posts"},
		{"ftp scheme", "ftp://example.com/posts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSource(tt.url)
			if err == nil {
				t.Errorf("NewSource() expected error for URL %q, got nil", tt.url)
			}
		})
	}
}

func TestNewSource_ValidURLs(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"https", "https://api.example.com/posts"},
		{"http", "http://localhost:8080/posts"},
		{"with port", "https://api.example.com:443/posts"},
		{"with query", "https://api.example.com/posts?userId=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSource(tt.url); err != nil {
				t.Errorf("NewSource(%q) error = %v", tt.url, err)
			}
		})
	}
}

func TestWithHeaders(t *testing.T) {
	src, err := NewSource("https://api.example.com/posts",
		WithHeaders("Authorization", "Bearer token", "X-Custom", "value"),
	)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	headers := src.Headers()
	if headers["Authorization"] != "Bearer token" {
		t.Errorf("Headers()[Authorization] = %q, want %q", headers["Authorization"], "Bearer token")
	}
	if headers["X-Custom"] != "value" {
		t.Errorf("Headers()[X-Custom] = %q, want %q", headers["X-Custom"], "value")
	}
}

func TestWithHeaders_OddArguments(t *testing.T) {
	_, err := NewSource("https://api.example.com/posts", WithHeaders("Authorization"))
	if err == nil {
		t.Error("NewSource() expected error for odd header arguments, got nil")
	}
}

func TestSource_HeadersImmutable(t *testing.T) {
	src, err := NewSource("https://api.example.com/posts", WithHeaders("X-Key", "original"))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	headers := src.Headers()
	headers["X-Key"] = "modified"
	headers["X-New"] = "added"

	again := src.Headers()
	if again["X-Key"] != "original" {
		t.Errorf("mutation affected source: Headers()[X-Key] = %q, want %q", again["X-Key"], "original")
	}
	if _, ok := again["X-New"]; ok {
		t.Error("mutation added a header to the source")
	}
}

func TestWithTimeout(t *testing.T) {
	src, err := NewSource("https://api.example.com/posts", WithTimeout(3*time.Second))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	if src.Timeout() != 3*time.Second {
		t.Errorf("Timeout() = %v, want %v", src.Timeout(), 3*time.Second)
	}
}

func TestWithTimeout_Invalid(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		if _, err := NewSource("https://api.example.com/posts", WithTimeout(d)); err == nil {
			t.Errorf("NewSource() expected error for timeout %v, got nil", d)
		}
	}
}

func TestWithItemsPath(t *testing.T) {
	src, err := NewSource("https://api.example.com/posts", WithItemsPath("$.data"))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	if src.ItemsPath() != "$.data" {
		t.Errorf("ItemsPath() = %q, want %q", src.ItemsPath(), "$.data")
	}
}

func TestWithItemsPath_Invalid(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"unclosed bracket", "$.data[1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSource("https://api.example.com/posts", WithItemsPath(tt.path)); err == nil {
				t.Errorf("NewSource() expected error for items path %q, got nil", tt.path)
			}
		})
	}
}

func TestWithSchema(t *testing.T) {
	schema := []byte(`{"type": "array", "maxItems": 5}`)
	src, err := NewSource("https://api.example.com/posts", WithSchema(schema))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	// mutating the input must not reach the source
	schema[0] = '['
	if got := string(src.Schema()); got != `{"type": "array", "maxItems": 5}` {
		t.Errorf("Schema() = %s, want original schema", got)
	}
}

func TestWithSchema_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		schema []byte
	}{
		{"empty", nil},
		{"wrong type keyword", []byte(`{"type": 12}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSource("https://api.example.com/posts", WithSchema(tt.schema)); err == nil {
				t.Error("NewSource() expected error for invalid schema, got nil")
			}
		})
	}
}

func TestSource_FetcherConfigCopied(t *testing.T) {
	src, err := NewSource("https://api.example.com/posts",
		WithHeaders("Authorization", "Bearer token"),
		WithSchema([]byte(`{"type": "array"}`)),
	)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	cfg := src.fetcherConfig()
	cfg.Headers["Authorization"] = "modified"
	cfg.Schema[0] = '['

	if src.Headers()["Authorization"] != "Bearer token" {
		t.Error("fetcher config shares headers with the source")
	}
	if src.Schema()[0] != '{' {
		t.Error("fetcher config shares schema bytes with the source")
	}
}
