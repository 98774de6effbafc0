package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/metrics"
	"github.com/samber/lo"
)

// BatchSize is the upstream limit on ids per detail call
const BatchSize = 50

// Fetcher is the upstream batch-detail capability
type Fetcher interface {
	Videos(ctx context.Context, ids []string) ([]domain.ItemDetail, error)
	Channels(ctx context.Context, ids []string) (map[string]string, error)
}

// Service turns candidate ids into item details and channel avatars
type Service struct {
	fetcher Fetcher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new detail resolver
func New(fetcher Fetcher, m *metrics.Metrics) *Service {
	return &Service{
		fetcher: fetcher,
		metrics: m,
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// ResolveDetails fetches details in sequential batches of BatchSize. A failed
// batch is dropped. Ids unknown upstream are missing from the result.
func (s *Service) ResolveDetails(ctx context.Context, ids []string) []domain.ItemDetail {
	ids = lo.Uniq(lo.Compact(ids))
	var details []domain.ItemDetail
	for idx, batch := range lo.Chunk(ids, BatchSize) {
		found, err := s.fetcher.Videos(ctx, batch)
		if err != nil {
			s.metrics.IncBatchFailure("videos")
			s.logger.Warn("Detail batch failed", "batch", idx, "size", len(batch), "error", err)
			continue
		}
		details = append(details, found...)
	}
	return details
}

// ResolveChannelAvatars looks up avatar URLs in sequential batches of BatchSize
func (s *Service) ResolveChannelAvatars(ctx context.Context, channelIDs []string) map[string]string {
	channelIDs = lo.Uniq(lo.Compact(channelIDs))
	avatars := make(map[string]string, len(channelIDs))
	for idx, batch := range lo.Chunk(channelIDs, BatchSize) {
		found, err := s.fetcher.Channels(ctx, batch)
		if err != nil {
			s.metrics.IncBatchFailure("channels")
			s.logger.Warn("Avatar batch failed", "batch", idx, "size", len(batch), "error", err)
			continue
		}
		for id, url := range found {
			avatars[id] = url
		}
	}
	return avatars
}

// Resolve fetches item details and the avatars of channelIDs concurrently,
// then fills in avatars. Channels seen only in the details are looked up
// afterwards.
func (s *Service) Resolve(ctx context.Context, ids []string, channelIDs []string) []domain.ItemDetail {
	var (
		details []domain.ItemDetail
		avatars map[string]string
		wg      sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		details = s.ResolveDetails(ctx, ids)
	}()
	go func() {
		defer wg.Done()
		avatars = s.ResolveChannelAvatars(ctx, channelIDs)
	}()
	wg.Wait()

	missing := lo.Uniq(lo.FilterMap(details, func(d domain.ItemDetail, _ int) (string, bool) {
		_, ok := avatars[d.ChannelID]
		return d.ChannelID, !ok && d.ChannelID != ""
	}))
	if len(missing) > 0 {
		for id, url := range s.ResolveChannelAvatars(ctx, missing) {
			avatars[id] = url
		}
	}

	for idx := range details {
		if url, ok := avatars[details[idx].ChannelID]; ok {
			details[idx].ChannelThumbnailURL = url
		}
	}

	s.logger.Info("Resolved details", "requested", len(ids), "resolved", len(details), "avatars", len(avatars))
	return details
}
