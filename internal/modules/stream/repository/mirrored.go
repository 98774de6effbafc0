package repository

import (
	"context"
	"log/slog"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/cache"
)

// SnapshotKey holds the latest published collection in Redis
var SnapshotKey = cache.Key("streams")

// MirroredRepository wraps a Repository and copies every saved collection
// to Redis. Loads prefer the inner store and fall back to the snapshot, which
// lets runners without persistent disks resume from the last publication.
type MirroredRepository struct {
	inner Repository
	cache *cache.Redis
}

// NewMirroredRepository creates a MirroredRepository over inner
func NewMirroredRepository(inner Repository, c *cache.Redis) *MirroredRepository {
	return &MirroredRepository{inner: inner, cache: c}
}

func (m *MirroredRepository) Load(ctx context.Context) ([]domain.Item, error) {
	items, err := m.inner.Load(ctx)
	if err == nil {
		return items, nil
	}

	snapshot, cacheErr := cache.Get[[]domain.Item](ctx, m.cache, SnapshotKey)
	if cacheErr != nil {
		return nil, err
	}
	slog.Warn("Loaded collection from redis snapshot", "key", SnapshotKey, "items", len(snapshot), "store_error", err)
	return snapshot, nil
}

func (m *MirroredRepository) Save(ctx context.Context, items []domain.Item) error {
	if err := m.inner.Save(ctx, items); err != nil {
		return err
	}
	if err := cache.Set(ctx, m.cache, SnapshotKey, items, 0); err != nil {
		slog.Error("Failed to mirror collection to redis", "key", SnapshotKey, "error", err)
	}
	return nil
}
