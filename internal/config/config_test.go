package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
	assert.Equal(t, 30*time.Second, cfg.Dispatch.CallTimeout.Duration())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TASKDECK_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("TASKDECK_POOL_SIZE", "32")
	t.Setenv("TASKDECK_CALL_TIMEOUT", "2s")
	t.Setenv("TASKDECK_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
	assert.Equal(t, 2*time.Second, cfg.Dispatch.CallTimeout.Duration())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_CallTimeoutNone(t *testing.T) {
	t.Setenv("TASKDECK_CALL_TIMEOUT", "none")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.Dispatch.CallTimeout.Duration(),
		"explicit none disables the per-call deadline")
}

func TestLoad_RedisURLPrecedence(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://:secret@redis.example:6390/2")
	t.Setenv("TASKDECK_REDIS_ADDR", "should-lose:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	// Both survive parsing; the store layer prefers URL when set.
	assert.Equal(t, "redis://:secret@redis.example:6390/2", cfg.Redis.URL)
	assert.Equal(t, "should-lose:6379", cfg.Redis.Addr)
}

func TestLoad_YAMLFileThenEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskdeck.yaml")
	body := `
redis:
  addr: file.redis:6379
  pool_size: 4
log:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("TASKDECK_LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file.redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 4, cfg.Redis.PoolSize)
	assert.Equal(t, "error", cfg.Log.Level, "environment overrides the file")
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("TASKDECK_POOL_SIZE", "-3")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_UnknownLogFormat(t *testing.T) {
	t.Setenv("TASKDECK_LOG_FORMAT", "xml")
	_, err := Load("")
	assert.Error(t, err)
}
