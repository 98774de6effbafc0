package service

import (
	"context"
	"log/slog"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/notification/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/notification/repository"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/errors"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/metrics"
	"github.com/samber/oops"
)

// Dispatcher delivers one notification to an outbound target
type Dispatcher interface {
	Name() string
	Dispatch(ctx context.Context, n domain.Notification) error
}

// Service queues detected notifications and delivers them
type Service struct {
	queue       repository.Repository
	dispatchers []Dispatcher
	checker     *ThumbnailChecker
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// New creates a new notification service. dispatchers may be empty, in which
// case pending notifications stay queued.
func New(queue repository.Repository, checker *ThumbnailChecker, m *metrics.Metrics, dispatchers ...Dispatcher) *Service {
	return &Service{
		queue:       queue,
		dispatchers: dispatchers,
		checker:     checker,
		metrics:     m,
		logger:      slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Enqueue stores notifications for the next Drain
func (s *Service) Enqueue(notifications []domain.Notification) error {
	added, err := s.queue.Append(notifications)
	if err != nil {
		return oops.With("count", len(notifications), "context", "failed to queue notifications").Wrap(err)
	}
	if added > 0 {
		s.logger.Info("Queued notifications", "count", added)
	}
	return nil
}

// Drain delivers every pending notification to every dispatcher and clears
// the queue. A failed delivery is logged and not retried. It returns the
// number of successful deliveries.
func (s *Service) Drain(ctx context.Context) (int, error) {
	pending, err := s.queue.Pending()
	if err != nil {
		return 0, oops.With("context", "failed to read pending notifications").Wrap(err)
	}
	if len(pending) == 0 {
		s.logger.Info("No pending notifications")
		return 0, nil
	}
	if len(s.dispatchers) == 0 {
		s.logger.Info("Notification targets not configured, keeping queue", "pending", len(pending))
		return 0, errors.ErrNoDispatchTargets
	}

	s.logger.Info("Processing notifications", "count", len(pending))
	sent := 0
	for _, n := range pending {
		if s.checker != nil && !s.checker.WaitReady(ctx, n.ThumbnailURL) {
			s.logger.Warn("Thumbnail still not ready, notifying anyway", "item_id", n.ItemID, "url", n.ThumbnailURL)
		}

		for _, d := range s.dispatchers {
			if err := d.Dispatch(ctx, n); err != nil {
				s.metrics.IncNotification(d.Name(), "failure")
				s.logger.Error("Notification failed", "target", d.Name(), "item_id", n.ItemID, "kind", n.Kind, "error", err)
				continue
			}
			s.metrics.IncNotification(d.Name(), "success")
			s.logger.Info("Notification sent", "target", d.Name(), "item_id", n.ItemID, "kind", n.Kind)
			sent++
		}
	}

	if err := s.queue.Clear(); err != nil {
		return sent, oops.With("context", "failed to clear notification queue").Wrap(err)
	}
	return sent, nil
}
