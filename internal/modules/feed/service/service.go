package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	channelRepo "github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/repository"
	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/feed/domain"
	streamDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Service renders the published collection as RSS, Atom or JSON Feed
type Service struct {
	channelRepo channelRepo.Repository
	cfg         domain.FeedConfig
}

// New creates a new feed service
func New(channelRepo channelRepo.Repository, cfg domain.FeedConfig) *Service {
	return &Service{
		channelRepo: channelRepo,
		cfg:         cfg,
	}
}

// GenerateFeed builds a feed of items. With channelID set only that roster
// channel's items are included.
func (s *Service) GenerateFeed(items []streamDomain.Item, baseURL, channelID string) (*feeds.Feed, error) {
	title := s.cfg.Title
	link := baseURL + "/rss"
	description := s.cfg.Description

	if channelID != "" {
		channel, err := s.channelRepo.GetChannel(channelID)
		if err != nil {
			return nil, oops.With("channel_id", channelID, "context", "channel not found").Wrap(err)
		}
		items = lo.Filter(items, func(item streamDomain.Item, _ int) bool {
			return item.ChannelID == channelID
		})
		title = fmt.Sprintf("%s - Streams", channel.Name)
		link = fmt.Sprintf("%s/rss/%s", baseURL, channel.ID)
		description = fmt.Sprintf("Live, upcoming and recent streams of %s", channel.Name)
	}

	if s.cfg.Limit > 0 && len(items) > s.cfg.Limit {
		items = items[:s.cfg.Limit]
	}

	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: link},
		Description: description,
		Author:      &feeds.Author{Name: s.cfg.Author},
		Created:     time.Now().UTC(),
	}
	for _, item := range items {
		if item.UpdatedAt.After(feed.Updated) {
			feed.Updated = item.UpdatedAt
		}
	}

	feed.Items = lo.Map(items, func(item streamDomain.Item, _ int) *feeds.Item {
		return s.itemToFeedItem(item)
	})
	return feed, nil
}

func (s *Service) itemToFeedItem(item streamDomain.Item) *feeds.Item {
	var description strings.Builder
	fmt.Fprintf(&description, "%s / %s", statusLabel(item), item.ChannelTitle)
	if start := item.EffectiveTime(); !start.IsZero() {
		fmt.Fprintf(&description, " / %s", start.UTC().Format(time.RFC3339))
	}
	if item.Duration != "" {
		fmt.Fprintf(&description, " / %s", item.Duration)
	}

	content := fmt.Sprintf(`<p>%s</p>`, escapeHTML(description.String()))
	if item.ThumbnailURL != "" {
		content = fmt.Sprintf(`<p><img src="%s" alt="%s"/></p>`, escapeHTML(item.ThumbnailURL), escapeHTML(item.Title)) + content
	}

	feedItem := &feeds.Item{
		Title:       item.Title,
		Link:        &feeds.Link{Href: item.WatchURL()},
		Description: description.String(),
		Content:     content,
		Author:      &feeds.Author{Name: item.ChannelTitle},
		Created:     item.EffectiveTime(),
		Updated:     item.UpdatedAt,
		Id:          item.ID,
	}
	if item.ThumbnailURL != "" {
		feedItem.Enclosure = &feeds.Enclosure{Url: item.ThumbnailURL, Type: "image/jpeg", Length: "0"}
	}
	return feedItem
}

func statusLabel(item streamDomain.Item) string {
	switch {
	case item.Status == streamDomain.StatusLive:
		return "LIVE"
	case item.Status == streamDomain.StatusUpcoming:
		return "UPCOMING"
	case item.IsShort:
		return "SHORT"
	case item.Type == streamDomain.TypeStream:
		return "ARCHIVE"
	default:
		return "VIDEO"
	}
}

func escapeHTML(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '<':
			result = append(result, []rune("&lt;")...)
		case '>':
			result = append(result, []rune("&gt;")...)
		case '&':
			result = append(result, []rune("&amp;")...)
		case '"':
			result = append(result, []rune("&quot;")...)
		case '\'':
			result = append(result, []rune("&#39;")...)
		default:
			result = append(result, r)
		}
	}
	return string(result)
}
