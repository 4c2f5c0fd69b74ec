package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		cfg, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, DefaultConcurrency, cfg.Search.Concurrency)
		assert.Equal(t, DefaultMaxRetries, cfg.Upstream.MaxRetries)
		assert.Equal(t, DefaultFetchTimeout, cfg.Upstream.FetchTimeout)
		assert.Equal(t, DefaultSniffLen, cfg.Search.SniffLen)
		assert.Equal(t, "127.0.0.1:8000", cfg.ListenAddr())
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

		require.NoError(t, err)
		assert.Equal(t, DefaultConcurrency, cfg.Search.Concurrency)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
log_level = "debug"

[upstream]
base_url = "https://github.example/api/v3"
max_retries = 5
fetch_timeout = "10s"

[search]
concurrency = 4

[http]
port = "9000"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "https://github.example/api/v3", cfg.Upstream.BaseURL)
		assert.Equal(t, 5, cfg.Upstream.MaxRetries)
		assert.Equal(t, 10*time.Second, cfg.Upstream.FetchTimeout.Std())
		assert.Equal(t, 4, cfg.Search.Concurrency)
		assert.Equal(t, DefaultSniffLen, cfg.Search.SniffLen, "unset values keep defaults")
		assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr())
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("nonsense values are clamped to defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[search]
concurrency = -1
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, DefaultConcurrency, cfg.Search.Concurrency)
	})

	t.Run("unparsable file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("{{{{"), 0600))

		_, err := Load(path)

		assert.Error(t, err)
	})
}
