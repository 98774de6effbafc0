package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func ptr(t time.Time) *time.Time { return &t }

func TestItemEffectiveTime(t *testing.T) {
	scheduled := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	published := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	if got := (Item{ScheduledStartTime: ptr(scheduled), PublishedAt: ptr(published)}).EffectiveTime(); !got.Equal(scheduled) {
		t.Fatalf("EffectiveTime() = %v, want scheduled start %v", got, scheduled)
	}
	if got := (Item{PublishedAt: ptr(published)}).EffectiveTime(); !got.Equal(published) {
		t.Fatalf("EffectiveTime() = %v, want publish time %v", got, published)
	}
	if got := (Item{}).EffectiveTime(); !got.IsZero() {
		t.Fatalf("EffectiveTime() = %v, want zero", got)
	}
}

func TestSortByEffectiveTime(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	items := []Item{
		{ID: "old", ScheduledStartTime: ptr(base)},
		{ID: "none"},
		{ID: "b", ScheduledStartTime: ptr(base.Add(time.Hour))},
		{ID: "a", ScheduledStartTime: ptr(base.Add(time.Hour))},
		{ID: "new", PublishedAt: ptr(base.Add(2 * time.Hour))},
	}

	SortByEffectiveTime(items)

	want := []string{"new", "a", "b", "old", "none"}
	for idx, id := range want {
		if items[idx].ID != id {
			t.Fatalf("position %d = %q, want %q", idx, items[idx].ID, id)
		}
	}
}

func TestFilterByChannel(t *testing.T) {
	items := []Item{{ID: "1", ChannelID: "UCa"}, {ID: "2", ChannelID: "UCb"}, {ID: "3", ChannelID: "UCa"}}

	got := FilterByChannel(items, func(channelID string) bool { return channelID == "UCa" })
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("FilterByChannel() = %+v", got)
	}
}

func TestItemJSONShape(t *testing.T) {
	item := Item{
		ID:           "abc",
		Title:        "Stream",
		ChannelTitle: "Channel",
		ChannelID:    "UCx",
		Type:         TypeStream,
		Status:       StatusLive,
		UpdatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{`"id":"abc"`, `"channelId":"UCx"`, `"type":"stream"`, `"status":"live"`, `"thumbnailUrl":""`} {
		if !strings.Contains(out, want) {
			t.Fatalf("Marshal() = %s, missing %s", out, want)
		}
	}
	for _, absent := range []string{"scheduledStartTime", "duration", "isShort", "channelThumbnailUrl"} {
		if strings.Contains(out, absent) {
			t.Fatalf("Marshal() = %s, should omit %s", out, absent)
		}
	}
}

func TestStatusRank(t *testing.T) {
	if !(StatusUpcoming.Rank() < StatusLive.Rank() && StatusLive.Rank() < StatusEnded.Rank()) {
		t.Fatalf("ranks must advance upcoming -> live -> ended")
	}
}
