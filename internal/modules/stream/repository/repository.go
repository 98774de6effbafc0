package repository

import (
	"context"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
)

// Repository defines the interface for the published collection.
// The collection is read and replaced as a whole; implementations return
// errors.ErrStateNotFound when nothing has been published yet.
type Repository interface {
	Load(ctx context.Context) ([]domain.Item, error)
	Save(ctx context.Context, items []domain.Item) error
}
