package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/jpalmerr/postboard"
)

// BuildSource converts the parsed source section into an SDK Source.
//
// The schema file, if configured, is read here.
func BuildSource(cfg *Config) (postboard.Source, error) {
	sc := cfg.Source
	var opts []postboard.SourceOption

	if sc.Timeout != 0 {
		opts = append(opts, postboard.WithTimeout(sc.Timeout.Duration()))
	}

	if len(sc.Headers) > 0 {
		opts = append(opts, postboard.WithHeaders(mapToKeyValuePairs(sc.Headers)...))
	}

	if sc.ItemsPath != "" {
		opts = append(opts, postboard.WithItemsPath(sc.ItemsPath))
	}

	if sc.Schema != "" {
		schema, err := os.ReadFile(sc.Schema)
		if err != nil {
			return postboard.Source{}, fmt.Errorf("source: failed to read schema: %w", err)
		}
		opts = append(opts, postboard.WithSchema(schema))
	}

	src, err := postboard.NewSource(sc.URL, opts...)
	if err != nil {
		return postboard.Source{}, fmt.Errorf("source: %w", err)
	}
	return src, nil
}

// BuildOptions converts the whole configuration into [postboard.Option]
// values ready for [postboard.New]. logger may be nil.
func BuildOptions(cfg *Config, logger *slog.Logger) ([]postboard.Option, error) {
	src, err := BuildSource(cfg)
	if err != nil {
		return nil, err
	}

	opts := []postboard.Option{
		postboard.WithSource(src),
		postboard.WithPort(cfg.Port),
		postboard.WithSchedule(cfg.Schedule),
	}
	if cfg.Title != "" {
		opts = append(opts, postboard.WithTitle(cfg.Title))
	}
	if logger != nil {
		opts = append(opts, postboard.WithLogger(logger))
	}
	return opts, nil
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
