// Package config loads the Gistgrep configuration from a TOML file.
//
// Configuration is an explicit struct handed to constructors; there is no
// process-wide mutable state. A missing file yields the defaults, so the
// binary runs without any configuration at all.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Defaults.
const (
	DefaultConcurrency  = 10
	DefaultMaxRetries   = 3
	DefaultFetchTimeout = Duration(30 * time.Second)
	DefaultSniffLen     = 512
	DefaultHTTPHost     = "127.0.0.1"
	DefaultHTTPPort     = "8000"
)

// Duration is a time.Duration that unmarshals from TOML strings like
// "30s" or "2m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full Gistgrep configuration.
type Config struct {
	// Upstream configures the GitHub API client.
	Upstream UpstreamConfig `toml:"upstream"`

	// Search configures the search pipeline.
	Search SearchConfig `toml:"search"`

	// HTTP configures the serve command's listener.
	HTTP HTTPConfig `toml:"http"`

	// LogLevel is a zerolog level string. Default "info".
	LogLevel string `toml:"log_level"`
}

// UpstreamConfig configures the GitHub API client.
type UpstreamConfig struct {
	// BaseURL overrides the API endpoint. Empty means api.github.com.
	BaseURL string `toml:"base_url"`

	// MaxRetries bounds rate-limit retries per listing page.
	MaxRetries int `toml:"max_retries"`

	// FetchTimeout is the per-file fetch deadline.
	FetchTimeout Duration `toml:"fetch_timeout"`
}

// SearchConfig configures the search pipeline.
type SearchConfig struct {
	// Concurrency caps in-flight file fetches per request.
	Concurrency int `toml:"concurrency"`

	// SniffLen is how many leading bytes the text sniffer inspects.
	SniffLen int `toml:"sniff_len"`
}

// HTTPConfig configures the HTTP listener.
type HTTPConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			MaxRetries:   DefaultMaxRetries,
			FetchTimeout: DefaultFetchTimeout,
		},
		Search: SearchConfig{
			Concurrency: DefaultConcurrency,
			SniffLen:    DefaultSniffLen,
		},
		HTTP: HTTPConfig{
			Host: DefaultHTTPHost,
			Port: DefaultHTTPPort,
		},
		LogLevel: "info",
	}
}

// Load reads the configuration from path. An empty path or a missing file
// yields Default(). Values absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalise()
	return cfg, nil
}

// normalise clamps nonsense values back to the defaults.
func (c *Config) normalise() {
	if c.Search.Concurrency <= 0 {
		c.Search.Concurrency = DefaultConcurrency
	}
	if c.Search.SniffLen <= 0 {
		c.Search.SniffLen = DefaultSniffLen
	}
	if c.Upstream.MaxRetries <= 0 {
		c.Upstream.MaxRetries = DefaultMaxRetries
	}
	if c.Upstream.FetchTimeout <= 0 {
		c.Upstream.FetchTimeout = DefaultFetchTimeout
	}
	if c.HTTP.Host == "" {
		c.HTTP.Host = DefaultHTTPHost
	}
	if c.HTTP.Port == "" {
		c.HTTP.Port = DefaultHTTPPort
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return c.HTTP.Host + ":" + c.HTTP.Port
}
