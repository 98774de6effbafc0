package domain

import "time"

// RawCandidate is an item id discovered during collection, not yet verified
type RawCandidate struct {
	ID        string
	ChannelID string
	// Short is set when the discovering source marks the item as short-form
	Short *bool
}

// SearchQuery describes one upstream search call
type SearchQuery struct {
	Keyword    string
	ChannelID  string
	EventState EventState
	MaxResults int
}

// ItemDetail is the authoritative upstream metadata of one item
type ItemDetail struct {
	ID                  string
	Title               string
	ThumbnailURL        string
	ChannelID           string
	ChannelTitle        string
	ChannelThumbnailURL string
	BroadcastContent    BroadcastContent
	LiveSession         *LiveSession
	Duration            string
	PublishedAt         time.Time
	Short               *bool
}

// LiveSession holds the timing of a live broadcast. Its presence alone marks
// an item as having a live lifecycle.
type LiveSession struct {
	ScheduledStart *time.Time
	ActualStart    *time.Time
	ActualEnd      *time.Time
}
