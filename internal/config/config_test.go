package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "amendtrack", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, "", cfg.Seed.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: amendtrack-staging
  env: staging
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 5s
  shutdown_timeout: 30s
rate_limit:
  enabled: true
  requests_per_minute: 60
  burst: 10
seed:
  path: data/seed.yaml
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "amendtrack-staging", cfg.App.Name)
	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "data/seed.yaml", cfg.Seed.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("AMENDTRACK_SERVER_PORT", "9999")
	t.Setenv("AMENDTRACK_RATE_LIMIT_ENABLED", "true")

	path := writeConfigFile(t, `
server:
  port: 9090
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfigFile(t, "server: [not: a: mapping\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_PortOutOfRange(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 70000
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestLoad_RateLimitEnabledNeedsPositiveRate(t *testing.T) {
	path := writeConfigFile(t, `
rate_limit:
  enabled: true
  requests_per_minute: 0
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requests_per_minute")
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	assert.Equal(t, "127.0.0.1:8080", s.Addr())
}
