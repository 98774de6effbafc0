package repository

import (
	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/domain"
)

// Repository defines read access to the channel roster.
// The roster is fixed at startup, so there are no write operations.
type Repository interface {
	GetChannel(channelID string) (*domain.Channel, error)
	GetAllChannels() ([]*domain.Channel, error)
	Contains(channelID string) bool
}
