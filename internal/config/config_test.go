package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/pgscout/internal/config"
	"codeberg.org/mutker/pgscout/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"pgscout"}, args...)
}

func TestLoad(t *testing.T) {
	withArgs(t)
	tempDir := t.TempDir()

	configContent := []byte(`
interval = 30
dsn = "postgres://scout@db:5432/postgres"
log_level = "debug"
store = true
database = "/path/to/samples.db"
push_url = "https://aps-workspaces.us-west-2.amazonaws.com/workspaces/ws-1/api/v1/remote_write"
sigv4 = true
aws_region = "us-west-2"
`)
	configPath := filepath.Join(tempDir, "pgscout.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("PGSCOUT_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Interval, "Expected Interval 30")
	assert.Equal(t, "postgres://scout@db:5432/postgres", cfg.DSN)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.True(t, cfg.Store, "Expected Store true")
	assert.Equal(t, "/path/to/samples.db", cfg.Database)
	assert.True(t, cfg.SigV4, "Expected SigV4 true")
	assert.Equal(t, "us-west-2", cfg.AWSRegion)
	assert.Equal(t, "us-west-2", cfg.Region())
}

func TestLoadDefaults(t *testing.T) {
	withArgs(t)
	t.Setenv("PGSCOUT_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultInterval, cfg.Interval)
	assert.Equal(t, config.DefaultDSN, cfg.DSN)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.Store, "Expected Store disabled by default")
	assert.False(t, cfg.SigV4, "Expected SigV4 disabled by default")
	assert.Equal(t, config.DefaultAWSRegion, cfg.Region(), "Expected default region when unset")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	withArgs(t)
	tempDir := t.TempDir()

	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(tempDir, "pgscout.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("PGSCOUT_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Equal(t, errors.ErrReadConfig, errors.CodeOf(err))
}

func TestInvalidLogLevel(t *testing.T) {
	withArgs(t)
	tempDir := t.TempDir()

	configContent := []byte(`
log_level = "invalid"
`)
	configPath := filepath.Join(tempDir, "pgscout.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("PGSCOUT_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidLogLevel, errors.CodeOf(err))
}

func TestInvalidInterval(t *testing.T) {
	withArgs(t)
	tempDir := t.TempDir()

	configContent := []byte(`
interval = 0
`)
	configPath := filepath.Join(tempDir, "pgscout.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("PGSCOUT_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInterval, errors.CodeOf(err))
}

func TestLogLevelFlag(t *testing.T) {
	withArgs(t, "--log-level", "debug")
	t.Setenv("PGSCOUT_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
}
