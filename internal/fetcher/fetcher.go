package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jpalmerr/postboard/internal/store"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Config describes the remote post source.
type Config struct {
	// URL is the endpoint returning the posts. Required.
	URL string

	// Headers are sent with every request.
	Headers map[string]string

	// Timeout bounds the whole request. Zero means DefaultTimeout.
	Timeout time.Duration

	// ItemsPath is a JSONPath locating the posts array. Empty means "$".
	ItemsPath string

	// Schema is a JSON Schema for the posts array. Empty means DefaultSchema.
	Schema []byte
}

// Fetcher reads posts from one fixed endpoint.
type Fetcher struct {
	client  *Client
	url     string
	headers map[string]string
	timeout time.Duration
	decoder *Decoder
}

// New creates a [Fetcher] for cfg.
//
// Returns an error if the URL is not an absolute http(s) URL or if the
// items path or schema do not compile.
func New(cfg Config) (*Fetcher, error) {
	if cfg.URL == "" {
		return nil, errors.New("source url is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid source url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("source url scheme must be http or https, got %q", u.Scheme)
	}

	decoder, err := NewDecoder(cfg.ItemsPath, cfg.Schema)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Fetcher{
		client:  NewClient(),
		url:     cfg.URL,
		headers: headers,
		timeout: timeout,
		decoder: decoder,
	}, nil
}

// Fetch performs one GET and returns the decoded posts.
//
// Errors are one of: a transport error (network, timeout), a
// [*StatusError] for non-2xx responses, or a [*DecodeError].
func (f *Fetcher) Fetch(ctx context.Context) ([]store.Post, error) {
	resp := f.client.Get(ctx, f.url, f.headers, f.timeout)
	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: f.url, StatusCode: resp.StatusCode}
	}
	return f.decoder.Decode(resp.Body)
}

// URL returns the endpoint this fetcher reads.
func (f *Fetcher) URL() string {
	return f.url
}

// Close releases idle connections.
func (f *Fetcher) Close() {
	if f == nil {
		return
	}
	f.client.Close()
}
