package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/clinic-whatsapp/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClickGuard_Acquire(t *testing.T) {
	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter("click-guard-test", "clinic:", &redis.Options{Addrs: []string{mr.Addr()}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	guard := NewRedisClickGuard(adapter, 10*time.Second)
	ctx := context.Background()

	ok, err := guard.Acquire(ctx, "click:1:abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.Acquire(ctx, "click:1:abc")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = guard.Acquire(ctx, "click:2:abc")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, guard.Release(ctx, "click:2:abc"))
	assert.False(t, mr.Exists("clinic:click:2:abc"))
	ok, err = guard.Acquire(ctx, "click:2:abc")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(11 * time.Second)
	ok, err = guard.Acquire(ctx, "click:1:abc")
	require.NoError(t, err)
	assert.True(t, ok)
}
