package domain

import (
	"fmt"
	"time"
)

// Notification is one pending announcement of a newly live or newly
// scheduled item
type Notification struct {
	ItemID       string    `json:"id"`
	Kind         Kind      `json:"kind"`
	ChannelID    string    `json:"channelId"`
	ChannelTitle string    `json:"channelTitle"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Link         string    `json:"link"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Marker is the label prefix shown for the kind
func (k Kind) Marker() string {
	switch k {
	case KindLive:
		return "🔴 LIVE"
	case KindScheduled:
		return "📅 SCHEDULED"
	default:
		return string(k)
	}
}

// Label builds the human-readable heading from channel name and kind
func Label(kind Kind, channelTitle string) string {
	return fmt.Sprintf("%s %s", kind.Marker(), channelTitle)
}

// Key identifies a notification for de-duplication in the queue
func (n Notification) Key() string {
	return n.ItemID + "/" + n.Kind.String()
}
