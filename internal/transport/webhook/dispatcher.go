package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/notification/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Payload is the body accepted by the notification endpoint
type Payload struct {
	Action       string `json:"action"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Dispatcher posts notifications to an HTTP endpoint that fans them out to
// client devices
type Dispatcher struct {
	url  string
	http *http.Client
}

// New creates a webhook dispatcher posting to url
func New(url string, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		url:  url,
		http: &http.Client{Timeout: lo.CoalesceOrEmpty(timeout, 15*time.Second)},
	}
}

func (d *Dispatcher) Name() string {
	return "webhook"
}

func (d *Dispatcher) Dispatch(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(Payload{
		Action:       "notify",
		Title:        n.Title,
		Body:         n.Body,
		ThumbnailURL: n.ThumbnailURL,
	})
	if err != nil {
		return oops.With("item_id", n.ItemID, "context", "failed to marshal payload").Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return oops.With("item_id", n.ItemID, "context", "failed to build request").Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return oops.With("item_id", n.ItemID, "context", "webhook request failed").Wrap(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return oops.With("item_id", n.ItemID, "status", resp.StatusCode).Wrap(errors.ErrUnexpectedStatusCode)
	}
	return nil
}
