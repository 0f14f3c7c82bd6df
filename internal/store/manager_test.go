package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/logging"
	"github.com/taskdeck/taskdeck/internal/store"
)

func newManager(t *testing.T) (*store.Manager, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	m := store.NewFromClient(client, logging.NewNop(),
		store.WithPingTimeout(500*time.Millisecond))
	return m, mr
}

func TestManager_ConnectLifecycle(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	assert.False(t, m.Healthy(), "fresh manager starts disconnected")
	assert.Equal(t, store.Disconnected, m.State())

	require.NoError(t, m.Connect(ctx))
	assert.True(t, m.Healthy())
	assert.Equal(t, store.Connected, m.State())

	// Idempotent: a second connect is a no-op, not an error.
	require.NoError(t, m.Connect(ctx))
	assert.True(t, m.Healthy())

	require.NoError(t, m.Disconnect())
	assert.False(t, m.Healthy())

	// Idempotent: a second disconnect is a no-op.
	require.NoError(t, m.Disconnect())
}

func TestManager_ConnectFailure(t *testing.T) {
	m, mr := newManager(t)
	mr.Close()

	err := m.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, m.Healthy(), "failed connect leaves the manager unhealthy")
}

func TestManager_HealthFlipsOnOutage(t *testing.T) {
	m, mr := newManager(t)
	ctx := context.Background()

	require.NoError(t, m.Connect(ctx))
	require.True(t, m.Healthy())

	mr.Close()
	m.CheckNow(ctx)
	assert.False(t, m.Healthy(), "outage detected by health check")

	mr.Restart()
	m.CheckNow(ctx)
	assert.True(t, m.Healthy(), "recovery restores health with no operator action")
}

func TestManager_FromConfig(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.RedisConfig{
		Addr:        mr.Addr(),
		PoolSize:    4,
		DialTimeout: time.Second,
		ReadTimeout: time.Second,
	}
	m, err := store.New(cfg, logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, m.Connect(context.Background()))
	assert.True(t, m.Healthy())
	require.NoError(t, m.Disconnect())
}

func TestManager_BadURL(t *testing.T) {
	_, err := store.New(config.RedisConfig{URL: "http://not-redis"}, logging.NewNop())
	assert.Error(t, err)
}
