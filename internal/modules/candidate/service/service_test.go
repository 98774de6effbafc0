package service

import (
	"context"
	stdErrors "errors"
	"sort"
	"sync"
	"testing"

	channelDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/metrics"
)

var (
	alpha = channelDomain.Channel{ID: "UCalpha", Name: "Alpha"}
	beta  = channelDomain.Channel{ID: "UCbeta", Name: "Beta"}
)

type fakeSearcher struct {
	mu        sync.Mutex
	playlists map[string][]domain.RawCandidate
	failLists map[string]bool
	byState   map[domain.EventState][]domain.RawCandidate
	failState map[domain.EventState]bool
	byChannel map[string][]domain.RawCandidate
	queries   []domain.SearchQuery
}

func (f *fakeSearcher) SearchVideos(_ context.Context, q domain.SearchQuery) ([]domain.RawCandidate, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if q.ChannelID != "" {
		return f.byChannel[q.ChannelID], nil
	}
	if f.failState[q.EventState] {
		return nil, stdErrors.New("quotaExceeded")
	}
	return f.byState[q.EventState], nil
}

func (f *fakeSearcher) PlaylistItems(_ context.Context, playlistID string, _ int) ([]domain.RawCandidate, error) {
	if f.failLists[playlistID] {
		return nil, stdErrors.New("playlistNotFound")
	}
	return f.playlists[playlistID], nil
}

type fakeFeeds struct {
	uploads map[string][]domain.RawCandidate
	fail    bool
}

func (f *fakeFeeds) ChannelUploads(_ context.Context, channelID string) ([]domain.RawCandidate, error) {
	if f.fail {
		return nil, stdErrors.New("feed unavailable")
	}
	return f.uploads[channelID], nil
}

func candidateIDs(cs []domain.RawCandidate) []string {
	out := make([]string, len(cs))
	for idx, c := range cs {
		out[idx] = c.ID
	}
	sort.Strings(out)
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}

func TestCollect_MergesAxesAndFiltersRoster(t *testing.T) {
	searcher := &fakeSearcher{
		playlists: map[string][]domain.RawCandidate{
			"UUalpha": {{ID: "a1", ChannelID: "UCalpha"}, {ID: "shared", ChannelID: "UCalpha"}},
			"UUbeta":  {{ID: "b1", ChannelID: "UCbeta"}},
		},
		byState: map[domain.EventState][]domain.RawCandidate{
			domain.EventStateLive:     {{ID: "shared", ChannelID: "UCalpha"}, {ID: "stranger", ChannelID: "UCother"}},
			domain.EventStateUpcoming: {{ID: "b2", ChannelID: "UCbeta"}},
		},
	}
	svc := New(searcher, nil, Options{Keyword: "group"}, metrics.New())

	got := svc.Collect(context.Background(), []channelDomain.Channel{alpha, beta})

	want := []string{"a1", "b1", "b2", "shared"}
	if ids := candidateIDs(got); !equalIDs(ids, want) {
		t.Fatalf("Collect() = %v, want %v", ids, want)
	}
	for _, q := range searcher.queries {
		if q.ChannelID == "" && q.Keyword != "group" {
			t.Fatalf("keyword query without keyword: %+v", q)
		}
	}
}

func TestCollect_FailedSubqueryDegrades(t *testing.T) {
	searcher := &fakeSearcher{
		playlists: map[string][]domain.RawCandidate{
			"UUalpha": {{ID: "a1", ChannelID: "UCalpha"}},
		},
		failState: map[domain.EventState]bool{domain.EventStateLive: true, domain.EventStateCompleted: true},
		byState: map[domain.EventState][]domain.RawCandidate{
			domain.EventStateUpcoming: {{ID: "b2", ChannelID: "UCbeta"}},
		},
	}
	m := metrics.New()
	svc := New(searcher, nil, Options{Keyword: "group"}, m)

	got := svc.Collect(context.Background(), []channelDomain.Channel{alpha, beta})
	if ids := candidateIDs(got); !equalIDs(ids, []string{"a1", "b2"}) {
		t.Fatalf("Collect() = %v", ids)
	}
}

func TestCollect_UploadsFallBackToFeedThenSearch(t *testing.T) {
	short := true
	searcher := &fakeSearcher{
		failLists: map[string]bool{"UUalpha": true, "UUbeta": true},
		byChannel: map[string][]domain.RawCandidate{
			"UCbeta": {{ID: "b-search", ChannelID: "UCbeta"}},
		},
	}
	feeds := &fakeFeeds{uploads: map[string][]domain.RawCandidate{
		"UCalpha": {{ID: "a-feed", ChannelID: "UCalpha", Short: &short}},
	}}
	svc := New(searcher, feeds, Options{Keyword: "group"}, nil)

	got := svc.Collect(context.Background(), []channelDomain.Channel{alpha})
	if ids := candidateIDs(got); !equalIDs(ids, []string{"a-feed"}) {
		t.Fatalf("Collect(alpha) = %v", ids)
	}
	if got[0].Short == nil || !*got[0].Short {
		t.Fatalf("short hint lost: %+v", got[0])
	}

	feeds.fail = true
	got = svc.Collect(context.Background(), []channelDomain.Channel{beta})
	if ids := candidateIDs(got); !equalIDs(ids, []string{"b-search"}) {
		t.Fatalf("Collect(beta) = %v", ids)
	}
}

func TestCollect_SingleChannelSearchesPerState(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := New(searcher, nil, Options{Keyword: "group"}, nil)

	svc.Collect(context.Background(), []channelDomain.Channel{alpha})

	states := map[domain.EventState]bool{}
	for _, q := range searcher.queries {
		if q.Keyword != "" {
			t.Fatalf("scoped collection ran a keyword search: %+v", q)
		}
		if q.ChannelID == "UCalpha" {
			states[q.EventState] = true
		}
	}
	for _, state := range []domain.EventState{domain.EventStateLive, domain.EventStateUpcoming, domain.EventStateCompleted} {
		if !states[state] {
			t.Fatalf("missing channel search for %s", state)
		}
	}
}

func TestMergeCandidates(t *testing.T) {
	short := true
	got := mergeCandidates([]domain.RawCandidate{
		{ID: "a"},
		{ID: ""},
		{ID: "a", ChannelID: "UC1", Short: &short},
		{ID: "b", ChannelID: "UC2"},
	})
	if len(got) != 2 || got[0].ChannelID != "UC1" || got[0].Short == nil {
		t.Fatalf("mergeCandidates() = %+v", got)
	}
}
