package http

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/feeds"
	channelDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/domain"
	feedService "github.com/reshetovitsme/stream-schedule-feed/internal/modules/feed/service"
	streamDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	streamRepo "github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/repository"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/config"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/errors"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/metrics"
	"github.com/samber/lo"
	"github.com/samber/oops"
	sloghttp "github.com/samber/slog-http"
)

// reloadDebounce coalesces the bursts of events an atomic rename produces
const reloadDebounce = 250 * time.Millisecond

// Server publishes the collection over HTTP as JSON and syndication feeds
type Server struct {
	cfg         *config.Config
	repo        streamRepo.Repository
	feedService *feedService.Service
	metrics     *metrics.Metrics
	logger      *slog.Logger

	mu     sync.RWMutex
	items  []streamDomain.Item
	loaded bool

	// generation advances on every Invalidate so a load that raced with
	// one is not cached
	generation uint64
}

// New creates a new HTTP server
func New(cfg *config.Config, repo streamRepo.Repository, feedService *feedService.Service, m *metrics.Metrics) *Server {
	return &Server{
		cfg:         cfg,
		repo:        repo,
		feedService: feedService,
		metrics:     m,
		logger:      slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler returns the routed handler without middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /streams.json", s.handleStreams)
	mux.HandleFunc("GET /rss", s.handleFeed(formatRSS))
	mux.HandleFunc("GET /rss/{channelID}", s.handleFeed(formatRSS))
	mux.HandleFunc("GET /atom", s.handleFeed(formatAtom))
	mux.HandleFunc("GET /feed.json", s.handleFeed(formatJSON))
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.HandleFunc("GET /{$}", s.handleRoot)

	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("Stream feed server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(s.Handler())
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stdErrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return oops.With("addr", addr, "context", "http server failed").Wrap(err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// Watch drops the cached collection whenever the published state file
// changes. The parent directory is watched so atomic renames are seen.
func (s *Server) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return oops.With("context", "failed to create file watcher").Wrap(err)
	}
	defer watcher.Close()

	statePath := s.cfg.StatePath()
	dir := filepath.Dir(statePath)
	if err := watcher.Add(dir); err != nil {
		return oops.With("dir", dir, "context", "failed to watch state directory").Wrap(err)
	}
	s.logger.Info("Watching published collection", "path", statePath)

	name := filepath.Base(statePath)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(event.Name), name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, s.Invalidate)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("File watcher error", "error", err)
		}
	}
}

// Invalidate forces the next request to reload the collection
func (s *Server) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.loaded = false
	s.generation++
	s.logger.Info("Published collection changed, cache invalidated")
}

func (s *Server) collection(ctx context.Context) ([]streamDomain.Item, error) {
	s.mu.RLock()
	if s.loaded {
		items := s.items
		s.mu.RUnlock()
		return items, nil
	}
	generation := s.generation
	s.mu.RUnlock()

	items, err := s.repo.Load(ctx)
	if stdErrors.Is(err, errors.ErrStateNotFound) {
		items, err = []streamDomain.Item{}, nil
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.generation == generation {
		s.items = items
		s.loaded = true
	}
	s.mu.Unlock()
	return items, nil
}

func (s *Server) handleStreams(w http.ResponseWriter, r *http.Request) {
	items, err := s.collection(r.Context())
	if err != nil {
		s.logger.Error("Error loading collection", "error", err)
		http.Error(w, "Failed to load streams", http.StatusInternalServerError)
		return
	}

	if hide := r.URL.Query().Get("hide"); hide != "" {
		prefs := channelDomain.HideChannels(lo.Map(strings.Split(hide, ","), func(id string, _ int) string {
			return strings.TrimSpace(id)
		})...)
		items = streamDomain.FilterByChannel(items, func(channelID string) bool {
			return prefs.For(channelID).Display
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=600")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(items); err != nil {
		s.logger.Error("Error writing streams", "error", err)
	}
}

type feedFormat struct {
	contentType string
	render      func(*feeds.Feed) (string, error)
}

var (
	formatRSS  = feedFormat{"application/rss+xml; charset=utf-8", (*feeds.Feed).ToRss}
	formatAtom = feedFormat{"application/atom+xml; charset=utf-8", (*feeds.Feed).ToAtom}
	formatJSON = feedFormat{"application/feed+json; charset=utf-8", (*feeds.Feed).ToJSON}
)

func (s *Server) handleFeed(format feedFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID := r.PathValue("channelID")

		items, err := s.collection(r.Context())
		if err != nil {
			s.logger.Error("Error loading collection", "error", err)
			http.Error(w, "Failed to load streams", http.StatusInternalServerError)
			return
		}

		baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)
		feed, err := s.feedService.GenerateFeed(items, baseURL, channelID)
		if stdErrors.Is(err, errors.ErrChannelNotFound) {
			http.Error(w, "Channel not found", http.StatusNotFound)
			return
		}
		if err != nil {
			s.logger.Error("Error generating feed", "channel_id", channelID, "error", err)
			http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
			return
		}

		body, err := format.render(feed)
		if err != nil {
			s.logger.Error("Error rendering feed", "error", err)
			http.Error(w, "Failed to render feed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", format.contentType)
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Stream Schedule Feed</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Stream Schedule Feed</h1>
    <div class="info">
        <p>Collection: <code>/streams.json</code> (hide channels with <code>?hide=UC...,UC...</code>)</p>
        <p>Feeds: <code>/rss</code>, <code>/atom</code>, <code>/feed.json</code>, <code>/rss/{channelID}</code></p>
    </div>
    <p><a href="/health">Health Check</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
