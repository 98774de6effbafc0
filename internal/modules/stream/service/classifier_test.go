package service

import (
	"testing"
	"time"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func at(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func boolPtr(b bool) *bool { return &b }

func TestClassify_StateMachine(t *testing.T) {
	tests := []struct {
		name       string
		detail     domain.ItemDetail
		wantType   domain.Type
		wantStatus domain.Status
	}{
		{
			name:       "plain upload",
			detail:     domain.ItemDetail{BroadcastContent: domain.BroadcastContentNone, Duration: "PT12M"},
			wantType:   domain.TypeVideo,
			wantStatus: domain.StatusEnded,
		},
		{
			name:       "no duration no session",
			detail:     domain.ItemDetail{BroadcastContent: domain.BroadcastContentNone},
			wantType:   domain.TypeVideo,
			wantStatus: domain.StatusEnded,
		},
		{
			name:       "live flag without session is a video",
			detail:     domain.ItemDetail{BroadcastContent: domain.BroadcastContentLive},
			wantType:   domain.TypeVideo,
			wantStatus: domain.StatusEnded,
		},
		{
			name: "live broadcast",
			detail: domain.ItemDetail{
				BroadcastContent: domain.BroadcastContentLive,
				LiveSession:      &domain.LiveSession{ScheduledStart: at(-30 * time.Minute), ActualStart: at(-25 * time.Minute)},
				Duration:         "P0D",
			},
			wantType:   domain.TypeStream,
			wantStatus: domain.StatusLive,
		},
		{
			name: "live flag with actual end",
			detail: domain.ItemDetail{
				BroadcastContent: domain.BroadcastContentLive,
				LiveSession:      &domain.LiveSession{ScheduledStart: at(-3 * time.Hour), ActualEnd: at(-time.Minute)},
			},
			wantType:   domain.TypeStream,
			wantStatus: domain.StatusEnded,
		},
		{
			name: "upcoming within grace",
			detail: domain.ItemDetail{
				BroadcastContent: domain.BroadcastContentUpcoming,
				LiveSession:      &domain.LiveSession{ScheduledStart: at(-time.Hour)},
				Duration:         "PT0S",
			},
			wantType:   domain.TypeStream,
			wantStatus: domain.StatusUpcoming,
		},
		{
			name: "upcoming in the future",
			detail: domain.ItemDetail{
				BroadcastContent: domain.BroadcastContentUpcoming,
				LiveSession:      &domain.LiveSession{ScheduledStart: at(24 * time.Hour)},
			},
			wantType:   domain.TypeStream,
			wantStatus: domain.StatusUpcoming,
		},
		{
			name: "stuck upcoming past grace",
			detail: domain.ItemDetail{
				BroadcastContent: domain.BroadcastContentUpcoming,
				LiveSession:      &domain.LiveSession{ScheduledStart: at(-3 * time.Hour)},
			},
			wantType:   domain.TypeStream,
			wantStatus: domain.StatusEnded,
		},
		{
			name: "archived stream",
			detail: domain.ItemDetail{
				BroadcastContent: domain.BroadcastContentNone,
				LiveSession:      &domain.LiveSession{ScheduledStart: at(-48 * time.Hour), ActualEnd: at(-46 * time.Hour)},
				Duration:         "PT2H1M",
			},
			wantType:   domain.TypeStream,
			wantStatus: domain.StatusEnded,
		},
		{
			name: "ended stream without processed archive",
			detail: domain.ItemDetail{
				BroadcastContent: domain.BroadcastContentNone,
				LiveSession:      &domain.LiveSession{ScheduledStart: at(-3 * time.Hour), ActualStart: at(-3 * time.Hour), ActualEnd: at(-time.Hour)},
				Duration:         "P0D",
			},
			wantType:   domain.TypeStream,
			wantStatus: domain.StatusEnded,
		},
		{
			name: "ended stream with zero seconds",
			detail: domain.ItemDetail{
				BroadcastContent: domain.BroadcastContentNone,
				LiveSession:      &domain.LiveSession{ScheduledStart: at(-3 * time.Hour), ActualEnd: at(-time.Hour)},
				Duration:         "PT0S",
			},
			wantType:   domain.TypeStream,
			wantStatus: domain.StatusEnded,
		},
		{
			name: "short premiere is a video",
			detail: domain.ItemDetail{
				BroadcastContent: domain.BroadcastContentNone,
				LiveSession:      &domain.LiveSession{ScheduledStart: at(-48 * time.Hour)},
				Duration:         "PT3M30S",
			},
			wantType:   domain.TypeVideo,
			wantStatus: domain.StatusEnded,
		},
		{
			name: "short session still live stays a stream",
			detail: domain.ItemDetail{
				BroadcastContent: domain.BroadcastContentLive,
				LiveSession:      &domain.LiveSession{ScheduledStart: at(-5 * time.Minute)},
				Duration:         "PT5M",
			},
			wantType:   domain.TypeStream,
			wantStatus: domain.StatusLive,
		},
	}

	classifier := NewClassifier(fixedClock)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.detail.ID = "id"
			item := classifier.Classify(tc.detail)
			if item.Type != tc.wantType {
				t.Fatalf("Type = %s, want %s", item.Type, tc.wantType)
			}
			if item.Status != tc.wantStatus {
				t.Fatalf("Status = %s, want %s", item.Status, tc.wantStatus)
			}
			if item.Status == domain.StatusLive && item.Type != domain.TypeStream {
				t.Fatalf("live item classified as %s", item.Type)
			}
		})
	}
}

func TestClassify_ScheduledStartFallsBackToPublishTime(t *testing.T) {
	published := testNow.Add(-72 * time.Hour)
	item := NewClassifier(fixedClock).Classify(domain.ItemDetail{
		ID:               "vid",
		BroadcastContent: domain.BroadcastContentNone,
		PublishedAt:      published,
	})

	if item.ScheduledStartTime == nil || !item.ScheduledStartTime.Equal(published) {
		t.Fatalf("ScheduledStartTime = %v, want %v", item.ScheduledStartTime, published)
	}
	if item.PublishedAt == nil || !item.PublishedAt.Equal(published) {
		t.Fatalf("PublishedAt = %v, want %v", item.PublishedAt, published)
	}
	if !item.UpdatedAt.Equal(testNow) {
		t.Fatalf("UpdatedAt = %v, want %v", item.UpdatedAt, testNow)
	}
}

func TestClassify_Short(t *testing.T) {
	tests := []struct {
		name   string
		detail domain.ItemDetail
		want   bool
	}{
		{"under threshold", domain.ItemDetail{Duration: "PT45S"}, true},
		{"at 180 seconds", domain.ItemDetail{Duration: "PT3M"}, true},
		{"at threshold", domain.ItemDetail{Duration: "PT3M1S"}, false},
		{"long upload", domain.ItemDetail{Duration: "PT12M"}, false},
		{"zero length is unknown", domain.ItemDetail{Duration: "PT0S"}, false},
		{"marker in title", domain.ItemDetail{Title: "Dance #Shorts", Duration: "PT10M"}, true},
		{"japanese marker", domain.ItemDetail{Title: "ダンス #ショート"}, true},
		{"explicit flag wins over length", domain.ItemDetail{Duration: "PT30S", Short: boolPtr(false)}, false},
		{"explicit flag wins over missing signals", domain.ItemDetail{Duration: "PT10M", Short: boolPtr(true)}, true},
	}

	classifier := NewClassifier(fixedClock)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.detail.BroadcastContent = domain.BroadcastContentNone
			if got := classifier.Classify(tc.detail).IsShort; got != tc.want {
				t.Fatalf("IsShort = %v, want %v", got, tc.want)
			}
		})
	}
}
