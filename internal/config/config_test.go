package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voltdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "voltdesk", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
port: "9090"
allowed_origins: ["https://app.voltdesk.io"]
shutdown_timeout: 3s
mongo:
  database: sizing
log:
  level: debug
  format: console
metrics:
  enabled: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://app.voltdesk.io"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "sizing", cfg.Mongo.Database)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "port: \"9090\"\nredis:\n  addr: cache:6379\n")
	t.Setenv("PORT", "7070")
	t.Setenv("REDIS_URI", "redis.internal:6379")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "250ms")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_USERNAME", "root")
	t.Setenv("ADMIN_PASSWORD", "pw")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.ShutdownTimeout)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, AdminConfig{Username: "root", Password: "pw"}, cfg.Admin)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "read config")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "port: [1, 2"))
		assert.ErrorContains(t, err, "parse config")
	})

	t.Run("bad bool", func(t *testing.T) {
		t.Setenv("METRICS_ENABLED", "sometimes")
		_, err := Load("")
		assert.ErrorContains(t, err, "METRICS_ENABLED")
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "SHUTDOWN_TIMEOUT")
	})

	t.Run("bad log format", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "xml")
		_, err := Load("")
		assert.ErrorContains(t, err, "log.format")
	})

	t.Run("non-positive shutdown timeout", func(t *testing.T) {
		_, err := Load(writeFile(t, "shutdown_timeout: 0s\n"))
		assert.ErrorContains(t, err, "shutdown_timeout")
	})

	t.Run("admin without password", func(t *testing.T) {
		t.Setenv("ADMIN_USERNAME", "root")
		_, err := Load("")
		assert.ErrorContains(t, err, "admin.password")
	})
}
