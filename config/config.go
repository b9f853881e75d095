// Package config provides YAML configuration parsing for postboard.
//
// This package enables running postboard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Team Posts
//	port: 8080
//	schedule: "@every 5m"
//
//	source:
//	  url: https://api.example.com/posts
//	  timeout: 5s
//	  headers:
//	    Authorization: Bearer ${API_TOKEN}
//	  items_path: $.data
//	  schema: ./posts.schema.json
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/postboard"
	"github.com/jpalmerr/postboard/internal/trigger"
)

// minTimeout is the smallest request timeout a config file may set.
const minTimeout = 100 * time.Millisecond

// Config is the root configuration structure for postboard.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the page title. Defaults to "Posts" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// Schedule is an optional cron expression for repeated loads,
	// e.g. "*/5 * * * *" or "@every 5m". Empty means load at start only.
	Schedule string `yaml:"schedule"`

	// Source describes the remote endpoint.
	Source SourceConfig `yaml:"source"`
}

// SourceConfig defines the remote endpoint posts are loaded from.
type SourceConfig struct {
	// URL is the endpoint URL. Defaults to the public JSONPlaceholder posts.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// Timeout is the request timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// Headers are custom HTTP headers sent with each request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`

	// ItemsPath is a JSONPath locating the posts array. Defaults to "$".
	ItemsPath string `yaml:"items_path"`

	// Schema is the path of a JSON Schema file the posts array must
	// satisfy. Relative paths are resolved against the config file.
	Schema string `yaml:"schema"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing. A relative
// schema path is resolved against the directory of the config file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if cfg.Source.Schema != "" && !filepath.IsAbs(cfg.Source.Schema) {
		cfg.Source.Schema = filepath.Join(filepath.Dir(path), cfg.Source.Schema)
	}
	return cfg, nil
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in the URL and header values.
// Defaults are applied for Port (8080) and the source URL.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.Source.URL == "" {
		cfg.Source.URL = postboard.DefaultSourceURL
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if err := trigger.Validate(c.Schedule); err != nil {
		return err
	}

	src := &c.Source

	expanded, err := expandEnvVars(src.URL)
	if err != nil {
		return fmt.Errorf("source: url: %w", err)
	}
	src.URL = expanded

	parsedURL, err := url.Parse(src.URL)
	if err != nil {
		return fmt.Errorf("source: invalid url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return fmt.Errorf("source: url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("source: url scheme must be http or https, got %q", parsedURL.Scheme)
	}

	for k, v := range src.Headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("source: headers[%s]: %w", k, err)
		}
		src.Headers[k] = expanded
	}

	if src.Timeout != 0 {
		if src.Timeout.Duration() < 0 {
			return fmt.Errorf("source: timeout cannot be negative, got %s", src.Timeout.Duration())
		}
		if src.Timeout.Duration() < minTimeout {
			return fmt.Errorf("source: timeout must be at least %s if specified, got %s",
				minTimeout, src.Timeout.Duration())
		}
	}

	return nil
}
