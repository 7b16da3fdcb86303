package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T, name, prefix string) (*miniredis.Miniredis, RedisAdapter) {
	t.Helper()
	mr := miniredis.RunT(t)
	adapter, err := NewRedisAdapter(name, prefix, &Options{Addrs: []string{mr.Addr()}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	return mr, adapter
}

func TestRedisAdapter_SetNX(t *testing.T) {
	mr, r := setupRedis(t, "setnx", "clinic:")
	ctx := context.Background()

	ok, err := r.SetNX(ctx, "click:1", []byte("1"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.SetNX(ctx, "click:1", []byte("1"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, mr.Exists("clinic:click:1"))

	mr.FastForward(2 * time.Minute)
	ok, err = r.SetNX(ctx, "click:1", []byte("1"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisAdapter_GetSetDel(t *testing.T) {
	_, r := setupRedis(t, "getset", "")
	ctx := context.Background()

	_, err := r.Get(ctx, "missing")
	assert.ErrorIs(t, err, NilError)

	require.NoError(t, r.Set(ctx, "k", []byte("v"), time.Minute))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	ttl, err := r.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	require.NoError(t, r.Del(ctx, "k"))
	_, err = r.Get(ctx, "k")
	assert.ErrorIs(t, err, NilError)
	assert.NoError(t, r.Ping(ctx))
}

func TestNewRedisAdapter_ReusesNamedInstance(t *testing.T) {
	_, first := setupRedis(t, "shared", "")

	second, err := NewRedisAdapter("shared", "", &Options{Addrs: []string{"127.0.0.1:1"}})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Same(t, first, GetRedis("shared"))
}

func TestNewRedisAdapter_ConnectError(t *testing.T) {
	_, err := NewRedisAdapter("broken", "", &Options{Addrs: []string{"127.0.0.1:1"}, DialTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
}
