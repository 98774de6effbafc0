package service

import (
	"strings"
	"time"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
)

const (
	// LongFormThreshold separates streams from short live-adjacent clips such as premieres
	LongFormThreshold = 25 * time.Minute
	// UpcomingGrace is how long past its scheduled start an upcoming item stays upcoming
	UpcomingGrace = 2 * time.Hour
	// ShortThreshold is the upper bound on short-form video length
	ShortThreshold = 181 * time.Second
)

var shortMarkers = []string{"#shorts", "#short", "#ショート"}

// Classifier maps upstream details onto the published item model
type Classifier struct {
	now func() time.Time
}

// NewClassifier creates a classifier reading the current time from now
func NewClassifier(now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{now: now}
}

// Classify computes type, status and the short flag from raw signals
func (c *Classifier) Classify(d domain.ItemDetail) domain.Item {
	now := c.now().UTC()
	seconds, durationKnown := domain.ParseDuration(d.Duration)
	hasLiveSession := d.LiveSession != nil

	item := domain.Item{
		ID:                  d.ID,
		Title:               d.Title,
		ChannelTitle:        d.ChannelTitle,
		ChannelID:           d.ChannelID,
		ChannelThumbnailURL: d.ChannelThumbnailURL,
		ThumbnailURL:        d.ThumbnailURL,
		Duration:            d.Duration,
		UpdatedAt:           now,
	}
	if !d.PublishedAt.IsZero() {
		published := d.PublishedAt.UTC()
		item.PublishedAt = &published
	}
	if hasLiveSession && d.LiveSession.ScheduledStart != nil {
		start := d.LiveSession.ScheduledStart.UTC()
		item.ScheduledStartTime = &start
	} else if item.PublishedAt != nil {
		start := *item.PublishedAt
		item.ScheduledStartTime = &start
	}

	item.Type = domain.TypeVideo
	if hasLiveSession {
		item.Type = domain.TypeStream
		// Zero length means the archive is not processed yet, not a premiere
		if durationKnown && seconds > 0 && time.Duration(seconds)*time.Second < LongFormThreshold && d.BroadcastContent == domain.BroadcastContentNone {
			item.Type = domain.TypeVideo
		}
	}

	item.Status = domain.StatusEnded
	if item.Type == domain.TypeStream {
		item.Status = streamStatus(d, item.EffectiveTime(), now)
	}

	item.IsShort = isShort(d, seconds, durationKnown)
	return item
}

func streamStatus(d domain.ItemDetail, start, now time.Time) domain.Status {
	if d.LiveSession.ActualEnd != nil || d.BroadcastContent == domain.BroadcastContentNone {
		return domain.StatusEnded
	}

	status := domain.StatusLive
	if d.BroadcastContent == domain.BroadcastContentUpcoming {
		status = domain.StatusUpcoming
	}

	if status == domain.StatusUpcoming && !start.IsZero() && now.Sub(start) > UpcomingGrace {
		return domain.StatusEnded
	}
	return status
}

// isShort prefers an explicit upstream flag. A zero duration means the
// length is not known yet, as with live and upcoming broadcasts.
func isShort(d domain.ItemDetail, seconds int64, durationKnown bool) bool {
	if d.Short != nil {
		return *d.Short
	}
	if durationKnown && seconds > 0 && time.Duration(seconds)*time.Second < ShortThreshold {
		return true
	}
	title := strings.ToLower(d.Title)
	for _, marker := range shortMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}
