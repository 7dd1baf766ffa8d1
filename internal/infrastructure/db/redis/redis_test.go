package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_OptionsApplyDefaults(t *testing.T) {
	opts := Config{Addr: "cache:6379", MinIdleConns: 50}.options()

	assert.Equal(t, defaultDialTimeout, opts.DialTimeout)
	assert.Equal(t, defaultIOTimeout, opts.ReadTimeout)
	assert.Equal(t, defaultIOTimeout, opts.WriteTimeout)
	assert.Equal(t, defaultPoolSize, opts.PoolSize)
	assert.Zero(t, opts.MinIdleConns, "idle floor above the pool size is dropped")
}

func TestConnect_PingsWithPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("hunter2")

	client, err := Connect(context.Background(), Config{
		Addr:         mr.Addr(),
		Password:     "hunter2",
		PoolSize:     4,
		MinIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, 4, client.Options().PoolSize)
	assert.NoError(t, Ping(client)(context.Background()))
}

func TestConnect_FailsWithoutCredentials(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("hunter2")

	_, err := Connect(context.Background(), Config{Addr: mr.Addr(), DialTimeout: 500 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping "+mr.Addr())
}
