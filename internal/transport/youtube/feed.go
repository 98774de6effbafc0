package youtube

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// DefaultFeedBaseURL serves the public per-channel Atom feed
var DefaultFeedBaseURL = "https://www.youtube.com/feeds/videos.xml"

// FeedReader reads a channel's public upload feed. It costs no API quota
// and lists the latest ~15 uploads.
type FeedReader struct {
	baseURL string
	parser  *gofeed.Parser
}

func NewFeedReader(baseURL string, timeout time.Duration) *FeedReader {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: lo.CoalesceOrEmpty(timeout, 15*time.Second)}
	return &FeedReader{
		baseURL: lo.CoalesceOrEmpty(baseURL, DefaultFeedBaseURL),
		parser:  parser,
	}
}

// ChannelUploads returns the ids listed in the channel feed. Entries linking
// to the shorts player carry a short-form hint.
func (r *FeedReader) ChannelUploads(ctx context.Context, channelID string) ([]domain.RawCandidate, error) {
	feedURL := r.baseURL + "?channel_id=" + url.QueryEscape(channelID)

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to parse channel feed").Wrap(err)
	}

	return lo.FilterMap(feed.Items, func(item *gofeed.Item, _ int) (domain.RawCandidate, bool) {
		id := feedVideoID(item)
		if id == "" {
			return domain.RawCandidate{}, false
		}
		candidate := domain.RawCandidate{
			ID:        id,
			ChannelID: lo.CoalesceOrEmpty(feedExtension(item, "channelId"), channelID),
		}
		if strings.Contains(item.Link, "/shorts/") {
			short := true
			candidate.Short = &short
		}
		return candidate, true
	}), nil
}

func feedVideoID(item *gofeed.Item) string {
	if id := feedExtension(item, "videoId"); id != "" {
		return id
	}
	if id, ok := strings.CutPrefix(item.GUID, "yt:video:"); ok {
		return id
	}
	return ""
}

func feedExtension(item *gofeed.Item, name string) string {
	ext, ok := item.Extensions["yt"]
	if !ok {
		return ""
	}
	values := ext[name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}
