package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Item is one published record of the collection consumed by clients
type Item struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	ChannelTitle        string     `json:"channelTitle"`
	ChannelID           string     `json:"channelId"`
	ChannelThumbnailURL string     `json:"channelThumbnailUrl,omitempty"`
	ThumbnailURL        string     `json:"thumbnailUrl"`
	Type                Type       `json:"type"`
	Status              Status     `json:"status"`
	ScheduledStartTime  *time.Time `json:"scheduledStartTime,omitempty"`
	PublishedAt         *time.Time `json:"publishedAt,omitempty"`
	Duration            string     `json:"duration,omitempty"`
	IsShort             bool       `json:"isShort,omitempty"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// EffectiveTime returns the scheduled start, falling back to the publish
// time, falling back to the zero time
func (i Item) EffectiveTime() time.Time {
	if i.ScheduledStartTime != nil {
		return *i.ScheduledStartTime
	}
	if i.PublishedAt != nil {
		return *i.PublishedAt
	}
	return time.Time{}
}

// DurationSeconds returns the parsed duration and whether it is known
func (i Item) DurationSeconds() (int64, bool) {
	return ParseDuration(i.Duration)
}

// NormalizedTitle is the title used for duplicate detection
func (i Item) NormalizedTitle() string {
	return strings.TrimSpace(i.Title)
}

// WatchURL returns the public page of the item
func (i Item) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + i.ID
}

// SortByEffectiveTime sorts items newest first. Items with equal effective
// times are ordered by id so repeated runs produce identical output.
func SortByEffectiveTime(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		if c := b.EffectiveTime().Compare(a.EffectiveTime()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// FilterByChannel keeps the items whose channel passes visible
func FilterByChannel(items []Item, visible func(channelID string) bool) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if visible(item.ChannelID) {
			out = append(out, item)
		}
	}
	return out
}
