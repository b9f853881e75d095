package postboard

import (
	"errors"
	"net/url"
	"time"

	"github.com/jpalmerr/postboard/internal/fetcher"
)

// DefaultSourceURL is the endpoint used by the CLI when none is configured.
const DefaultSourceURL = "https://jsonplaceholder.typicode.com/posts"

const defaultSourceTimeout = 10 * time.Second

// Source is the remote endpoint postboard reads posts from.
//
// Source is immutable after creation via [NewSource]. All fields are
// private with getter methods that return copies of mutable data.
//
// Sources are configured using the functional options pattern with
// [SourceOption] functions such as [WithHeaders], [WithTimeout],
// [WithItemsPath] and [WithSchema].
type Source struct {
	url       string
	headers   map[string]string
	timeout   time.Duration
	itemsPath string
	schema    []byte
}

// URL returns the endpoint URL.
func (s Source) URL() string {
	return s.url
}

// Headers returns a copy of the custom HTTP headers sent with each request.
// Returns nil if no custom headers are set.
func (s Source) Headers() map[string]string {
	return copyMap(s.headers)
}

// Timeout returns the request timeout.
// Defaults to 10 seconds if not explicitly set via [WithTimeout].
func (s Source) Timeout() time.Duration {
	return s.timeout
}

// ItemsPath returns the JSONPath that locates the posts array.
// Returns "$" (the whole body) if not set via [WithItemsPath].
func (s Source) ItemsPath() string {
	return s.itemsPath
}

// Schema returns a copy of the custom JSON Schema, or nil if the default
// schema is used.
func (s Source) Schema() []byte {
	return copyBytes(s.schema)
}

// NewSource creates a [Source] for rawURL with the given options.
//
// The URL must be absolute with an http or https scheme. The items path
// and schema are compiled here, so an invalid one is reported immediately.
//
// Example:
//
//	src, err := postboard.NewSource("https://jsonplaceholder.typicode.com/posts",
//	    postboard.WithTimeout(5 * time.Second),
//	)
func NewSource(rawURL string, opts ...SourceOption) (Source, error) {
	if rawURL == "" {
		return Source{}, errors.New("source URL cannot be empty")
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Source{}, errors.New("invalid URL: " + err.Error())
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return Source{}, errors.New("URL must have an http:// or https:// scheme")
	}

	cfg := &sourceConfig{
		headers:   make(map[string]string),
		timeout:   defaultSourceTimeout,
		itemsPath: fetcher.DefaultItemsPath,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Source{}, err
		}
	}

	if _, err := fetcher.NewDecoder(cfg.itemsPath, cfg.schema); err != nil {
		return Source{}, err
	}

	return Source{
		url:       rawURL,
		headers:   cfg.headers,
		timeout:   cfg.timeout,
		itemsPath: cfg.itemsPath,
		schema:    cfg.schema,
	}, nil
}

// fetcherConfig converts the source into the fetcher's configuration.
func (s Source) fetcherConfig() fetcher.Config {
	return fetcher.Config{
		URL:       s.url,
		Headers:   copyMap(s.headers),
		Timeout:   s.timeout,
		ItemsPath: s.itemsPath,
		Schema:    copyBytes(s.schema),
	}
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
