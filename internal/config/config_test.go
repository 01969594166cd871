package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noEnvFile keeps tests from picking up a stray .env in the package dir.
var noEnvFile = []string{"--env-file", ""}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(noEnvFile)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Web.Addr)
	assert.Equal(t, 5.0, cfg.Web.Rate)
	assert.Equal(t, 10, cfg.Web.Burst)
	assert.Equal(t, []string{"*"}, cfg.Web.AllowedOrigins)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("ABC_CONSOLE_BACKEND_URL", "http://backend:8000")
	t.Setenv("ABC_CONSOLE_BACKEND_TIMEOUT", "3s")
	t.Setenv("ABC_CONSOLE_LOG_LEVEL", "debug")
	t.Setenv("ABC_CONSOLE_WEB_ADDR", ":9090")
	t.Setenv("ABC_CONSOLE_WEB_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(noEnvFile)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:8000", cfg.Backend.URL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Web.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Web.AllowedOrigins)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("ABC_CONSOLE_BACKEND_URL", "http://from-env")

	cfg, err := Load(append(noEnvFile, "--backend-url", "http://from-flag", "--log-format", "json"))
	require.NoError(t, err)

	assert.Equal(t, "http://from-flag", cfg.Backend.URL)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	content := "backend:\n  url: http://file-backend\n  timeout: 2s\nweb:\n  addr: \":8081\"\n  burst: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(append(noEnvFile, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, "http://file-backend", cfg.Backend.URL)
	assert.Equal(t, 2*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, ":8081", cfg.Web.Addr)
	assert.Equal(t, 3, cfg.Web.Burst)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(append(noEnvFile, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ABC_CONSOLE_LOG_LEVEL=warn\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ABC_CONSOLE_LOG_LEVEL") })

	cfg, err := Load([]string{"--env-file", path})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Help(t *testing.T) {
	_, err := Load([]string{"--help"})
	assert.True(t, errors.Is(err, pflag.ErrHelp))
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Backend: BackendConfig{URL: "http://x", Timeout: time.Second},
			Log:     LogConfig{Level: "info", Format: "text"},
			Web:     WebConfig{Addr: ":80", Rate: 1, Burst: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty backend url", func(c *Config) { c.Backend.URL = "" }},
		{"zero timeout", func(c *Config) { c.Backend.Timeout = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero rate", func(c *Config) { c.Web.Rate = 0 }},
		{"zero burst", func(c *Config) { c.Web.Burst = 0 }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_WebDisabledSkipsLimits(t *testing.T) {
	cfg := Config{
		Backend: BackendConfig{URL: "http://x", Timeout: time.Second},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
	assert.NoError(t, cfg.Validate())
}
