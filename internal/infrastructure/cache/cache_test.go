package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	svcauction "github.com/jplsports/player-auction-backend/internal/service/auction"
)

func newTestCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCacheFromClient(client, zap.NewNop()), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorAs(t, err, &ErrKeyNotFound{})
}

func TestRedisCacheMissingKey(t *testing.T) {
	c, _ := newTestCache(t)

	_, err := c.Get(context.Background(), "absent")
	var notFound ErrKeyNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "absent", notFound.Key)
}

func TestSnapshotCache(t *testing.T) {
	c, _ := newTestCache(t)
	sc := NewSnapshotCache(c, 0, zap.NewNop())
	ctx := context.Background()

	_, ok := sc.Load(ctx)
	assert.False(t, ok)

	snap := svcauction.Snapshot{
		State:            "active",
		CycleID:          uuid.New(),
		RemainingSeconds: 420,
		BidCount:         3,
	}
	sc.Store(ctx, snap)

	got, ok := sc.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, snap.State, got.State)
	assert.Equal(t, snap.CycleID, got.CycleID)
	assert.Equal(t, snap.RemainingSeconds, got.RemainingSeconds)
	assert.Equal(t, snap.BidCount, got.BidCount)
}

func TestSnapshotCacheOverwritesStale(t *testing.T) {
	c, _ := newTestCache(t)
	sc := NewSnapshotCache(c, 0, zap.NewNop())
	ctx := context.Background()

	// A live snapshot survives a process restart; the replacement write at
	// boot must win so readers never see the dead cycle as live.
	sc.Store(ctx, svcauction.Snapshot{State: "active", CycleID: uuid.New(), RemainingSeconds: 120})
	sc.Store(ctx, svcauction.Snapshot{State: "idle"})

	got, ok := sc.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "idle", got.State)
	assert.Equal(t, uuid.Nil, got.CycleID)
	assert.Zero(t, got.RemainingSeconds)
}

func TestSessionStoreRevocation(t *testing.T) {
	c, mr := newTestCache(t)
	store := NewSessionStore(c)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Revocation marker lapses with the token's own expiry.
	mr.FastForward(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
