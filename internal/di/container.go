package di

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"os"
	"sync"

	candidateService "github.com/reshetovitsme/stream-schedule-feed/internal/modules/candidate/service"
	channelRepo "github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/repository"
	channelService "github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/service"
	detailService "github.com/reshetovitsme/stream-schedule-feed/internal/modules/detail/service"
	feedDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/feed/domain"
	feedService "github.com/reshetovitsme/stream-schedule-feed/internal/modules/feed/service"
	notificationRepo "github.com/reshetovitsme/stream-schedule-feed/internal/modules/notification/repository"
	notificationService "github.com/reshetovitsme/stream-schedule-feed/internal/modules/notification/service"
	streamDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	streamRepo "github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/repository"
	streamService "github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/service"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/cache"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/config"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/metrics"
	httpServer "github.com/reshetovitsme/stream-schedule-feed/internal/transport/http"
	"github.com/reshetovitsme/stream-schedule-feed/internal/transport/telegram"
	"github.com/reshetovitsme/stream-schedule-feed/internal/transport/webhook"
	"github.com/reshetovitsme/stream-schedule-feed/internal/transport/youtube"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// closers collects resources opened by providers so Shutdown only touches
// what was actually created
type closers struct {
	mu  sync.Mutex
	fns []func() error
}

func (c *closers) add(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
}

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	return SetupWith(nil)
}

// SetupWith initializes the container with an already loaded config. A nil
// cfg is loaded from files and the environment.
func SetupWith(cfg *config.Config) (do.Injector, error) {
	injector := do.New()
	do.ProvideValue(injector, &closers{})

	// Register Config
	if cfg != nil {
		do.ProvideValue(injector, cfg)
	} else {
		do.Provide(injector, func(i do.Injector) (*config.Config, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, oops.With("context", "failed to load config").Wrap(err)
			}
			return cfg, nil
		})
	}

	// Register Metrics
	do.Provide(injector, func(i do.Injector) (*metrics.Metrics, error) {
		return metrics.New(), nil
	})

	// Register Redis; nil when redis_url is not set
	do.Provide(injector, func(i do.Injector) (*cache.Redis, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.RedisURL == "" {
			return nil, nil
		}
		client, err := cache.New(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		if err := client.Ping(context.Background()); err != nil {
			slog.Warn("Redis unreachable, continuing without it", "error", err)
			_ = client.Shutdown()
			return nil, nil
		}
		do.MustInvoke[*closers](i).add(client.Shutdown)
		return client, nil
	})

	// Register Channel Repository
	do.Provide(injector, func(i do.Injector) (channelRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := channelRepo.NewStaticStorage(cfg.Channels)
		if err != nil {
			return nil, oops.With("channels", len(cfg.Channels), "context", "failed to initialize channel repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Channel Service
	do.Provide(injector, func(i do.Injector) (*channelService.Service, error) {
		return channelService.New(do.MustInvoke[channelRepo.Repository](i)), nil
	})

	// Register Stream Repository
	do.Provide(injector, func(i do.Injector) (streamRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if err := os.MkdirAll(cfg.StoragePath, 0o755); err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to create storage directory").Wrap(err)
		}

		var repo streamRepo.Repository
		switch cfg.StorageDriver {
		case streamDomain.StorageDriverSqlite:
			store, err := streamRepo.NewSQLiteStorage(cfg.SQLitePath())
			if err != nil {
				return nil, oops.With("path", cfg.SQLitePath(), "context", "failed to initialize sqlite storage").Wrap(err)
			}
			do.MustInvoke[*closers](i).add(store.Shutdown)
			repo = store
		default:
			store, err := streamRepo.NewFileStorage(cfg.StreamsPath())
			if err != nil {
				return nil, oops.With("path", cfg.StreamsPath(), "context", "failed to initialize file storage").Wrap(err)
			}
			repo = store
		}

		if redis := do.MustInvoke[*cache.Redis](i); redis != nil {
			repo = streamRepo.NewMirroredRepository(repo, redis)
		}
		return repo, nil
	})

	// Register YouTube Client
	do.Provide(injector, func(i do.Injector) (*youtube.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return youtube.NewClient(youtube.Options{
			APIKey:            cfg.YouTubeAPIKey,
			BaseURL:           cfg.YouTubeAPIURL,
			Timeout:           cfg.RequestTimeoutDuration(),
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
	})

	// Register Feed Reader
	do.Provide(injector, func(i do.Injector) (*youtube.FeedReader, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return youtube.NewFeedReader(cfg.YouTubeFeedURL, cfg.RequestTimeoutDuration()), nil
	})

	// Register Candidate Collector
	do.Provide(injector, func(i do.Injector) (*candidateService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[*youtube.Client](i)
		feeds := do.MustInvoke[*youtube.FeedReader](i)
		svc := candidateService.New(client, feeds, candidateService.Options{
			Keyword:          cfg.GroupKeyword,
			UploadsPageSize:  cfg.UploadsPageSize,
			SearchMaxResults: cfg.SearchMaxResults,
		}, do.MustInvoke[*metrics.Metrics](i))
		svc.SetLogger(slog.Default())
		return svc, nil
	})

	// Register Detail Resolver
	do.Provide(injector, func(i do.Injector) (*detailService.Service, error) {
		svc := detailService.New(do.MustInvoke[*youtube.Client](i), do.MustInvoke[*metrics.Metrics](i))
		svc.SetLogger(slog.Default())
		return svc, nil
	})

	// Register Notification Service
	do.Provide(injector, func(i do.Injector) (*notificationService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		queue, err := notificationRepo.NewFileStorage(cfg.PendingPath())
		if err != nil {
			return nil, oops.With("path", cfg.PendingPath(), "context", "failed to initialize notification queue").Wrap(err)
		}

		var dispatchers []notificationService.Dispatcher
		if cfg.NotifyURL != "" {
			dispatchers = append(dispatchers, webhook.New(cfg.NotifyURL, cfg.RequestTimeoutDuration()))
		}
		if cfg.TelegramBotToken != "" && len(cfg.TelegramChatIDs) > 0 {
			tg, err := telegram.New(cfg.TelegramBotToken, cfg.TelegramAPIURL, cfg.TelegramChatIDs, cfg.RequestTimeoutDuration())
			if err != nil {
				return nil, oops.With("context", "failed to create telegram dispatcher").Wrap(err)
			}
			tg.SetLogger(slog.Default())
			dispatchers = append(dispatchers, tg)
		}

		checker := notificationService.NewThumbnailChecker(cfg.ThumbnailAttempts, cfg.ThumbnailIntervalDuration())
		svc := notificationService.New(queue, checker, do.MustInvoke[*metrics.Metrics](i), dispatchers...)
		svc.SetLogger(slog.Default())
		return svc, nil
	})

	// Register Pipeline
	do.Provide(injector, func(i do.Injector) (*streamService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		pipeline := streamService.New(
			do.MustInvoke[*channelService.Service](i),
			do.MustInvoke[*candidateService.Service](i),
			do.MustInvoke[*detailService.Service](i),
			streamService.NewClassifier(nil),
			streamService.NewMerger(cfg.MaxItems),
			do.MustInvoke[streamRepo.Repository](i),
			do.MustInvoke[*notificationService.Service](i),
			notificationService.Detect,
			do.MustInvoke[*metrics.Metrics](i),
			streamService.Options{NotifyInline: cfg.NotifyInline},
		)
		if redis := do.MustInvoke[*cache.Redis](i); redis != nil {
			pipeline.SetLocker(redis)
		}
		pipeline.SetLogger(slog.Default())
		return pipeline, nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return feedService.New(do.MustInvoke[channelRepo.Repository](i), feedDomain.DefaultFeedConfig(cfg.GroupKeyword)), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		server := httpServer.New(
			cfg,
			do.MustInvoke[streamRepo.Repository](i),
			do.MustInvoke[*feedService.Service](i),
			do.MustInvoke[*metrics.Metrics](i),
		)
		server.SetLogger(slog.Default())
		return server, nil
	})

	return injector, nil
}

// Shutdown releases every resource opened by the container
func Shutdown(injector do.Injector) error {
	c, err := do.Invoke[*closers](injector)
	if err != nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for idx := len(c.fns) - 1; idx >= 0; idx-- {
		if err := c.fns[idx](); err != nil {
			errs = append(errs, err)
		}
	}
	c.fns = nil
	return stdErrors.Join(errs...)
}
