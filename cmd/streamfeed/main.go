package main

import (
	"context"
	stdErrors "errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/reshetovitsme/stream-schedule-feed/internal/di"
	channelDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/domain"
	notificationService "github.com/reshetovitsme/stream-schedule-feed/internal/modules/notification/service"
	streamService "github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/service"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/cache"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/config"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/errors"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/metrics"
	httpServer "github.com/reshetovitsme/stream-schedule-feed/internal/transport/http"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

const usage = `Usage: streamfeed <command> [flags]

Commands:
  update [-channel UC...]  collect, merge and publish the stream collection (default)
  notify                   deliver pending notifications
  serve                    serve the published collection over HTTP
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		setupLogger(channelDomain.AppEnvProduction)
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.AppEnv)

	command, args := "update", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Setup dependency injection
	injector, err := di.SetupWith(cfg)
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}

	var runErr error
	switch command {
	case "update":
		runErr = runUpdate(ctx, injector, cfg, args)
	case "notify":
		runErr = runNotify(ctx, injector)
	case "serve":
		runErr = runServe(ctx, injector, cfg)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprint(os.Stderr, usage)
		runErr = fmt.Errorf("unknown command %q", command)
	}

	if err := di.Shutdown(injector); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}
	if runErr != nil {
		slog.Error("Command failed", "command", command, "error", runErr)
		os.Exit(1)
	}
}

// setupLogger fans out text logs to stdout and errors as JSON to stderr
func setupLogger(env channelDomain.AppEnv) {
	level := slog.LevelInfo
	if env == channelDomain.AppEnvLocal {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	// Use Fanout to send logs to both handlers
	logger := slog.New(slogmulti.Fanout(textHandler, jsonHandler))
	slog.SetDefault(logger)
}

func runUpdate(ctx context.Context, injector do.Injector, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	channelID := fs.String("channel", "", "limit the run to one roster channel id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Nothing is read or written before the configuration is usable
	if err := cfg.ValidateForUpdate(); err != nil {
		return err
	}
	slog.Info("Starting update", cfg.Summary()...)

	pipeline, err := do.Invoke[*streamService.Service](injector)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(ctx, streamService.RunOptions{ChannelID: *channelID})
	if stdErrors.Is(err, cache.ErrLocked) {
		slog.Warn("Another update is running, skipping")
		return nil
	}
	if stdErrors.Is(err, errors.ErrChannelNotFound) {
		return fmt.Errorf("channel %q is not in the roster: %w", *channelID, err)
	}

	m := do.MustInvoke[*metrics.Metrics](injector)
	if exportErr := m.Export(ctx, cfg.PushgatewayURL, cfg.MetricsTextfile); exportErr != nil {
		slog.Warn("Failed to export metrics", "error", exportErr)
	}
	if err != nil {
		return err
	}

	slog.Info("Update finished",
		"run_id", result.RunID,
		"published", result.Published,
		"notifications", len(result.Notifications),
		"delivered", result.Delivered,
	)
	return nil
}

func runNotify(ctx context.Context, injector do.Injector) error {
	notifier, err := do.Invoke[*notificationService.Service](injector)
	if err != nil {
		return err
	}

	sent, err := notifier.Drain(ctx)
	if stdErrors.Is(err, errors.ErrNoDispatchTargets) {
		slog.Info("Set notify_url or telegram_bot_token with telegram_chat_ids to deliver notifications")
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("Notifications delivered", "sent", sent)
	return nil
}

func runServe(ctx context.Context, injector do.Injector, cfg *config.Config) error {
	server, err := do.Invoke[*httpServer.Server](injector)
	if err != nil {
		return err
	}

	go func() {
		if err := server.Watch(ctx); err != nil {
			slog.Warn("Collection reload disabled", "error", err)
		}
	}()

	slog.Info("Application started", "port", cfg.HTTPPort)
	slog.Info("Press Ctrl+C to stop")
	return server.Start(ctx)
}
