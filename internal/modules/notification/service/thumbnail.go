package service

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	// PlaceholderMaxBytes is the size at or below which a thumbnail is
	// taken to be the platform's placeholder image
	PlaceholderMaxBytes = 2000
	defaultAttempts     = 6
	defaultInterval     = 10 * time.Second
	thumbnailTimeout    = 5 * time.Second
)

// ThumbnailChecker waits for a freshly published thumbnail to replace the
// placeholder the platform serves at first
type ThumbnailChecker struct {
	http     *http.Client
	attempts int
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) bool
	logger   *slog.Logger
}

func NewThumbnailChecker(attempts int, interval time.Duration) *ThumbnailChecker {
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	return &ThumbnailChecker{
		http:     &http.Client{Timeout: thumbnailTimeout},
		attempts: attempts,
		interval: interval,
		sleep:    sleepContext,
		logger:   slog.Default(),
	}
}

// Ready issues one HEAD request and reports whether the image is larger
// than the placeholder. An empty URL counts as ready.
func (c *ThumbnailChecker) Ready(ctx context.Context, url string) bool {
	if url == "" {
		return true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	size := resp.ContentLength
	if size < 0 {
		size, _ = strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	}
	return size > PlaceholderMaxBytes
}

// WaitReady polls Ready up to the configured number of attempts. It returns
// false when the thumbnail never became ready; callers send anyway.
func (c *ThumbnailChecker) WaitReady(ctx context.Context, url string) bool {
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if c.Ready(ctx, url) {
			return true
		}
		if attempt == c.attempts {
			break
		}
		c.logger.Info("Thumbnail not ready, waiting", "url", url, "attempt", attempt, "max_attempts", c.attempts, "wait", c.interval)
		if !c.sleep(ctx, c.interval) {
			return false
		}
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
