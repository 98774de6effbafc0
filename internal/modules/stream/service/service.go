package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	channelDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/domain"
	notificationDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/notification/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	streamRepo "github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/repository"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/errors"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/metrics"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// LockKey guards against overlapping runs when a Locker is configured
const LockKey = "streamfeed:update"

// Scoper resolves the roster channels a run covers
type Scoper interface {
	Scope(channelID string) ([]channelDomain.Channel, error)
}

// Collector gathers candidate ids for channels
type Collector interface {
	Collect(ctx context.Context, channels []channelDomain.Channel) []domain.RawCandidate
}

// Resolver fetches item details and channel avatars
type Resolver interface {
	Resolve(ctx context.Context, ids []string, channelIDs []string) []domain.ItemDetail
}

// Notifier queues and delivers change notifications
type Notifier interface {
	Enqueue(notifications []notificationDomain.Notification) error
	Drain(ctx context.Context) (int, error)
}

// Detector finds notifications between the prior and fresh collections
type Detector func(prior, fresh []domain.Item, now time.Time) []notificationDomain.Notification

// Locker grants exclusive access to a run
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

type RunOptions struct {
	// ChannelID scopes the run to one roster channel
	ChannelID string
}

type RunResult struct {
	RunID         string
	Candidates    int
	Resolved      int
	Published     int
	Notifications []notificationDomain.Notification
	Delivered     int
}

type Options struct {
	NotifyInline bool
	LockTTL      time.Duration
}

// Service runs the ingestion pipeline once per Run call
type Service struct {
	scoper     Scoper
	collector  Collector
	resolver   Resolver
	classifier *Classifier
	merger     *Merger
	repo       streamRepo.Repository
	notifier   Notifier
	detect     Detector
	locker     Locker
	metrics    *metrics.Metrics
	opts       Options
	now        func() time.Time
	logger     *slog.Logger
}

// New creates a new pipeline service
func New(
	scoper Scoper,
	collector Collector,
	resolver Resolver,
	classifier *Classifier,
	merger *Merger,
	repo streamRepo.Repository,
	notifier Notifier,
	detect Detector,
	m *metrics.Metrics,
	opts Options,
) *Service {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 15 * time.Minute
	}
	return &Service{
		scoper:     scoper,
		collector:  collector,
		resolver:   resolver,
		classifier: classifier,
		merger:     merger,
		repo:       repo,
		notifier:   notifier,
		detect:     detect,
		metrics:    m,
		opts:       opts,
		now:        time.Now,
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// SetLocker enables the run lock
func (s *Service) SetLocker(locker Locker) {
	s.locker = locker
}

// SetClock replaces the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Run executes one full pass. The collection is written only after every
// in-memory step succeeded; upstream failures shrink the result instead of
// failing the run.
func (s *Service) Run(ctx context.Context, opts RunOptions) (result *RunResult, err error) {
	started := s.now()
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID)
	if opts.ChannelID != "" {
		logger = logger.With("scope", opts.ChannelID)
	}
	defer func() {
		s.metrics.ObserveRun(s.now().Sub(started), err)
	}()

	if s.locker != nil {
		unlock, lockErr := s.locker.TryLock(ctx, LockKey, s.opts.LockTTL)
		if lockErr != nil {
			return nil, oops.With("lock_key", LockKey).Wrap(lockErr)
		}
		defer unlock()
	}

	channels, err := s.scoper.Scope(opts.ChannelID)
	if err != nil {
		return nil, err
	}

	prior, loadErr := s.repo.Load(ctx)
	switch {
	case stdErrors.Is(loadErr, errors.ErrStateNotFound):
		logger.Info("No published collection yet, starting cold")
		prior = nil
	case loadErr != nil:
		logger.Warn("Published collection unreadable, starting cold", "error", loadErr)
		prior = nil
	}

	candidates := s.collector.Collect(ctx, channels)
	ids := lo.Map(candidates, func(c domain.RawCandidate, _ int) string { return c.ID })
	channelIDs := lo.Map(channels, func(ch channelDomain.Channel, _ int) string { return ch.ID })

	details := s.resolver.Resolve(ctx, ids, channelIDs)
	applyShortHints(details, candidates)

	inScope := lo.SliceToMap(channelIDs, func(id string) (string, struct{}) { return id, struct{}{} })
	details = lo.Filter(details, func(d domain.ItemDetail, _ int) bool {
		_, ok := inScope[d.ChannelID]
		return ok
	})

	fresh := lo.Map(details, func(d domain.ItemDetail, _ int) domain.Item {
		return s.classifier.Classify(d)
	})

	merged := s.merger.Merge(prior, fresh, opts.ChannelID)

	freshIDs := lo.SliceToMap(fresh, func(item domain.Item) (string, struct{}) { return item.ID, struct{}{} })
	surviving := lo.Filter(merged, func(item domain.Item, _ int) bool {
		_, ok := freshIDs[item.ID]
		return ok
	})
	notifications := s.detect(prior, surviving, s.now())

	if err := s.repo.Save(ctx, merged); err != nil {
		return nil, oops.With("run_id", runID, "context", "failed to publish collection").Wrap(err)
	}

	s.metrics.SetPublished(len(merged), lo.CountValuesBy(merged, func(item domain.Item) string {
		return item.Status.String()
	}))

	result = &RunResult{
		RunID:         runID,
		Candidates:    len(candidates),
		Resolved:      len(details),
		Published:     len(merged),
		Notifications: notifications,
	}

	if err := s.notifier.Enqueue(notifications); err != nil {
		logger.Error("Failed to queue notifications", "count", len(notifications), "error", err)
	} else if s.opts.NotifyInline && len(notifications) > 0 {
		delivered, drainErr := s.notifier.Drain(ctx)
		if drainErr != nil {
			logger.Warn("Notification delivery incomplete", "error", drainErr)
		}
		result.Delivered = delivered
	}

	logger.Info("Pipeline run complete",
		"candidates", result.Candidates,
		"resolved", result.Resolved,
		"published", result.Published,
		"notifications", len(notifications),
		"duration", s.now().Sub(started),
	)
	return result, nil
}

// applyShortHints copies the short-form hint of a candidate onto its details
func applyShortHints(details []domain.ItemDetail, candidates []domain.RawCandidate) {
	hints := lo.SliceToMap(lo.Filter(candidates, func(c domain.RawCandidate, _ int) bool {
		return c.Short != nil
	}), func(c domain.RawCandidate) (string, *bool) {
		return c.ID, c.Short
	})
	for idx := range details {
		if details[idx].Short != nil {
			continue
		}
		if hint, ok := hints[details[idx].ID]; ok {
			details[idx].Short = hint
		}
	}
}
