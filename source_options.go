package postboard

import (
	"errors"
	"time"
)

// sourceConfig holds mutable state during source construction.
type sourceConfig struct {
	headers   map[string]string
	timeout   time.Duration
	itemsPath string
	schema    []byte
}

// SourceOption is a function that configures a [Source] during construction.
//
// Built-in options: [WithHeaders], [WithTimeout], [WithItemsPath], [WithSchema].
type SourceOption func(*sourceConfig) error

// WithHeaders adds custom HTTP headers to every request to the source.
//
// Accepts variadic key-value pairs. The number of arguments must be even.
//
// Example:
//
//	src, err := postboard.NewSource(url,
//	    postboard.WithHeaders("Authorization", "Bearer token123"),
//	)
//
// Returns an error if an odd number of arguments is provided.
func WithHeaders(keyValues ...string) SourceOption {
	return func(cfg *sourceConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithTimeout sets the request timeout.
//
// A request that does not complete within this duration fails the load.
// Defaults to 10 seconds if not specified.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) SourceOption {
	return func(cfg *sourceConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithItemsPath sets a JSONPath expression locating the posts array in the
// response body, for APIs that wrap results in an envelope. A path that
// selects elements, such as "$.data[*]", yields them as the posts (an empty
// match is zero posts); any other path must match exactly one array.
//
// Example:
//
//	// for {"data": [{"id": 1, "title": "..."}], "meta": {...}}
//	src, err := postboard.NewSource(url, postboard.WithItemsPath("$.data"))
//
// Defaults to "$", the whole body.
func WithItemsPath(path string) SourceOption {
	return func(cfg *sourceConfig) error {
		if path == "" {
			return errors.New("items path cannot be empty")
		}
		cfg.itemsPath = path
		return nil
	}
}

// WithSchema sets a JSON Schema the posts array must satisfy, replacing the
// default schema (array of objects with integer "id" and string "title").
//
// Posts must still carry an integer id and a string title even when the
// custom schema does not require them.
func WithSchema(schema []byte) SourceOption {
	return func(cfg *sourceConfig) error {
		if len(schema) == 0 {
			return errors.New("schema cannot be empty")
		}
		cfg.schema = copyBytes(schema)
		return nil
	}
}
