package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	svcauction "github.com/jplsports/player-auction-backend/internal/service/auction"
)

const snapshotKey = "auction:state"

// SnapshotCache keeps the latest auction snapshot in Redis so read traffic
// and late-joining observers never enter the coordinator's critical section.
// Writes are best-effort: the database remains the source of truth.
type SnapshotCache struct {
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewSnapshotCache creates the snapshot cache. A zero ttl keeps snapshots
// until the next write.
func NewSnapshotCache(cache Cache, ttl time.Duration, logger *zap.Logger) *SnapshotCache {
	return &SnapshotCache{cache: cache, ttl: ttl, logger: logger}
}

// Store replaces the cached snapshot
func (s *SnapshotCache) Store(ctx context.Context, snap svcauction.Snapshot) {
	if err := s.cache.SetJSON(ctx, snapshotKey, snap, s.ttl); err != nil {
		s.logger.Warn("snapshot cache write failed", zap.Error(err))
	}
}

// Load returns the cached snapshot; ok is false when none is cached
func (s *SnapshotCache) Load(ctx context.Context) (svcauction.Snapshot, bool) {
	var snap svcauction.Snapshot
	if err := s.cache.GetJSON(ctx, snapshotKey, &snap); err != nil {
		var notFound ErrKeyNotFound
		if !errors.As(err, &notFound) {
			s.logger.Warn("snapshot cache read failed", zap.Error(err))
		}
		return svcauction.Snapshot{}, false
	}
	return snap, true
}
