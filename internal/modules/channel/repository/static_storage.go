package repository

import (
	"strings"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// StaticStorage implements channel.Repository over a roster loaded from configuration
type StaticStorage struct {
	channels []*domain.Channel
	byID     map[string]*domain.Channel
}

// NewStaticStorage validates the roster and indexes it by channel id
func NewStaticStorage(channels []domain.Channel) (Repository, error) {
	if len(channels) == 0 {
		return nil, oops.With("context", "roster is empty").Wrap(errors.ErrInvalidRoster)
	}

	s := &StaticStorage{byID: make(map[string]*domain.Channel, len(channels))}
	for idx := range channels {
		ch := channels[idx]
		ch.ID = strings.TrimSpace(ch.ID)
		if ch.ID == "" {
			return nil, oops.With("index", idx, "context", "channel without id").Wrap(errors.ErrInvalidRoster)
		}
		if _, dup := s.byID[ch.ID]; dup {
			return nil, oops.With("channel_id", ch.ID, "context", "duplicate channel id").Wrap(errors.ErrInvalidRoster)
		}
		if ch.Name == "" {
			ch.Name = ch.ID
		}
		s.byID[ch.ID] = &ch
		s.channels = append(s.channels, &ch)
	}

	return s, nil
}

func (s *StaticStorage) GetChannel(channelID string) (*domain.Channel, error) {
	ch, ok := s.byID[channelID]
	if !ok {
		return nil, errors.ErrChannelNotFound
	}
	copied := *ch
	return &copied, nil
}

func (s *StaticStorage) GetAllChannels() ([]*domain.Channel, error) {
	return lo.Map(s.channels, func(ch *domain.Channel, _ int) *domain.Channel {
		copied := *ch
		return &copied
	}), nil
}

func (s *StaticStorage) Contains(channelID string) bool {
	_, ok := s.byID[channelID]
	return ok
}
