package service

import (
	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/domain"
	channelRepo "github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/repository"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Service resolves which roster channels a run covers
type Service struct {
	repo channelRepo.Repository
}

// New creates a new channel service
func New(repo channelRepo.Repository) *Service {
	return &Service{repo: repo}
}

// Scope returns every roster channel, or only channelID when it is set.
// An id outside the roster yields errors.ErrChannelNotFound.
func (s *Service) Scope(channelID string) ([]domain.Channel, error) {
	if channelID != "" {
		ch, err := s.repo.GetChannel(channelID)
		if err != nil {
			return nil, oops.With("channel_id", channelID).Wrap(err)
		}
		return []domain.Channel{*ch}, nil
	}

	channels, err := s.repo.GetAllChannels()
	if err != nil {
		return nil, oops.With("context", "failed to list roster").Wrap(err)
	}
	return lo.Map(channels, func(ch *domain.Channel, _ int) domain.Channel {
		return *ch
	}), nil
}

// InRoster reports whether channelID belongs to the roster
func (s *Service) InRoster(channelID string) bool {
	return s.repo.Contains(channelID)
}

// GetChannel retrieves a roster channel by ID
func (s *Service) GetChannel(channelID string) (*domain.Channel, error) {
	return s.repo.GetChannel(channelID)
}

// GetAllChannels retrieves the whole roster
func (s *Service) GetAllChannels() ([]*domain.Channel, error) {
	return s.repo.GetAllChannels()
}
