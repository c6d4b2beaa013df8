package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"redis": func(t *testing.T) Store {
			s, _ := newRedisStore(t)
			return s
		},
	}

	for name, build := range stores {
		t.Run(name+"/revoke", func(t *testing.T) {
			s := build(t)
			ctx := context.Background()

			revoked, err := s.IsRevoked(ctx, "sid")
			require.NoError(t, err)
			assert.False(t, revoked)

			require.NoError(t, s.Revoke(ctx, "sid", time.Now().Add(time.Hour)))
			revoked, err = s.IsRevoked(ctx, "sid")
			require.NoError(t, err)
			assert.True(t, revoked)

			// already expired: nothing to remember
			require.NoError(t, s.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
			revoked, err = s.IsRevoked(ctx, "old")
			require.NoError(t, err)
			assert.False(t, revoked)
		})

		t.Run(name+"/flashes are single read", func(t *testing.T) {
			s := build(t)
			ctx := context.Background()

			require.NoError(t, s.PushFlash(ctx, "sid", Flash{Category: FlashSuccess, Message: "one"}))
			require.NoError(t, s.PushFlash(ctx, "sid", Flash{Category: FlashDanger, Message: "two"}))

			got, err := s.PopFlashes(ctx, "sid")
			require.NoError(t, err)
			assert.Equal(t, []Flash{
				{Category: FlashSuccess, Message: "one"},
				{Category: FlashDanger, Message: "two"},
			}, got)

			got, err = s.PopFlashes(ctx, "sid")
			require.NoError(t, err)
			assert.Empty(t, got)
		})

		t.Run(name+"/revoke drops flashes", func(t *testing.T) {
			s := build(t)
			ctx := context.Background()

			require.NoError(t, s.PushFlash(ctx, "sid", Flash{Category: FlashInfo, Message: "x"}))
			require.NoError(t, s.Revoke(ctx, "sid", time.Now().Add(time.Hour)))

			got, err := s.PopFlashes(ctx, "sid")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestRedisStore_KeysExpire(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "sid", time.Now().Add(time.Minute)))
	require.NoError(t, s.PushFlash(ctx, "other", Flash{Category: FlashInfo, Message: "hi"}))

	assert.True(t, mr.Exists(revokedPrefix+"sid"))
	assert.Greater(t, mr.TTL(flashPrefix+"other"), time.Duration(0))

	mr.FastForward(2 * time.Minute)
	revoked, err := s.IsRevoked(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDial(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := Dial(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	rdb.Close()

	_, err = Dial(context.Background(), "://bad")
	assert.Error(t, err)
}
