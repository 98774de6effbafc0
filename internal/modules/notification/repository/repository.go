package repository

import (
	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/notification/domain"
)

// Repository defines the interface for the pending notification queue
type Repository interface {
	// Append adds notifications not already queued and returns how many were added
	Append(notifications []domain.Notification) (int, error)
	Pending() ([]domain.Notification, error)
	Clear() error
}
