package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name                  string
		env, configured, host string
		want                  string
	}{
		{"env wins", "http://api.example.com/", "http://other:9000", "10.0.0.5", "http://api.example.com"},
		{"config next", "", "http://other:9000/", "10.0.0.5", "http://other:9000"},
		{"network host", "", "", "192.168.1.20", "http://192.168.1.20:8000"},
		{"localhost", "", "", "localhost", "http://localhost:8000"},
		{"loopback", "", "", "127.0.0.1", "http://localhost:8000"},
		{"empty host", "", "", "", "http://localhost:8000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveBaseURL(tt.env, tt.configured, tt.host))
		})
	}
}

func TestLoadCreatesDefaultConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.StatusPollInterval)
	assert.Equal(t, 2*time.Second, cfg.TimelinePollInterval)
	assert.Equal(t, 50, cfg.JobsLimit)
	assert.Equal(t, "sqlite", cfg.CacheBackend)
	assert.Equal(t, filepath.Join(dir, "cache.db"), cfg.CachePath)
	assert.Equal(t, dir, cfg.Dir)
}

func TestSetPersistsValue(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.NoError(t, err)

	require.NoError(t, Set(dir, "user_id", "user_2abc"))
	require.NoError(t, Set(dir, "jobs_limit", "120"))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", cfg.UserID)
	assert.Equal(t, 120, cfg.JobsLimit)
}

func TestSetRejectsInvalidValueWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.NoError(t, err)
	before, err := os.ReadFile(Path(dir))
	require.NoError(t, err)

	err = Set(dir, "jobs_limit", "0")
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "jobs_limit")

	err = Set(dir, "status_poll_interval", "soon")
	require.ErrorIs(t, err, ErrInvalid)

	after, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.JobsLimit)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOBHUNTER_USER_ID", "from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.UserID)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := &Config{
		LogLevel:             "loud",
		StatusPollInterval:   5 * time.Second,
		TimelinePollInterval: 2 * time.Second,
		JobsLimit:            50,
		CacheBackend:         "sqlite",
	}
	assert.Error(t, cfg.Validate())

	cfg.LogLevel = "debug"
	assert.NoError(t, cfg.Validate())

	cfg.CacheBackend = "redis"
	assert.Error(t, cfg.Validate(), "redis backend needs an address")

	cfg.RedisAddr = "localhost:6379"
	assert.NoError(t, cfg.Validate())
}

func TestIsSettable(t *testing.T) {
	assert.True(t, IsSettable("api_base_url"))
	assert.False(t, IsSettable("openai_key"))
}
