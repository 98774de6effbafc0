package service

import (
	"context"
	"log/slog"
	"sync"

	channelDomain "github.com/reshetovitsme/stream-schedule-feed/internal/modules/channel/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/metrics"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Collection axes, used as log and metric labels
const (
	AxisUploads       = "uploads"
	AxisFeed          = "feed"
	AxisChannelSearch = "channel_search"
	AxisKeyword       = "keyword"
)

// Searcher is the upstream search and playlist capability
type Searcher interface {
	SearchVideos(ctx context.Context, q domain.SearchQuery) ([]domain.RawCandidate, error)
	PlaylistItems(ctx context.Context, playlistID string, maxResults int) ([]domain.RawCandidate, error)
}

// FeedSource lists a channel's uploads without spending API quota
type FeedSource interface {
	ChannelUploads(ctx context.Context, channelID string) ([]domain.RawCandidate, error)
}

type Options struct {
	Keyword          string
	UploadsPageSize  int
	SearchMaxResults int
}

// Service produces candidate ids for the roster from several search axes
type Service struct {
	search  Searcher
	feeds   FeedSource
	opts    Options
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new collector. feeds may be nil.
func New(search Searcher, feeds FeedSource, opts Options, m *metrics.Metrics) *Service {
	if opts.UploadsPageSize <= 0 {
		opts.UploadsPageSize = 20
	}
	if opts.SearchMaxResults <= 0 {
		opts.SearchMaxResults = 50
	}
	return &Service{
		search:  search,
		feeds:   feeds,
		opts:    opts,
		metrics: m,
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// CollectByUploads lists the most recent uploads of one channel
func (s *Service) CollectByUploads(ctx context.Context, ch channelDomain.Channel) ([]domain.RawCandidate, error) {
	playlistID := ch.UploadsPlaylistID()
	if playlistID == "" {
		return nil, oops.With("channel_id", ch.ID).Errorf("channel id has no uploads playlist")
	}
	return s.search.PlaylistItems(ctx, playlistID, s.opts.UploadsPageSize)
}

// CollectByFeed lists uploads from the channel's public feed
func (s *Service) CollectByFeed(ctx context.Context, ch channelDomain.Channel) ([]domain.RawCandidate, error) {
	if s.feeds == nil {
		return nil, oops.With("channel_id", ch.ID).Errorf("feed source not configured")
	}
	return s.feeds.ChannelUploads(ctx, ch.ID)
}

// CollectByKeywordAndState searches the whole group by keyword, filtered to
// one broadcast state. An empty state searches without a state filter.
func (s *Service) CollectByKeywordAndState(ctx context.Context, keyword string, state domain.EventState, maxResults int) ([]domain.RawCandidate, error) {
	return s.search.SearchVideos(ctx, domain.SearchQuery{
		Keyword:    keyword,
		EventState: state,
		MaxResults: maxResults,
	})
}

// CollectByChannelSearch searches one channel, used when its uploads cannot be listed
func (s *Service) CollectByChannelSearch(ctx context.Context, ch channelDomain.Channel, maxResults int) ([]domain.RawCandidate, error) {
	return s.search.SearchVideos(ctx, domain.SearchQuery{
		ChannelID:  ch.ID,
		MaxResults: maxResults,
	})
}

// Collect fans out every sub-query, waits for all of them and returns the
// deduplicated candidates whose channel is in channels. A failed sub-query
// contributes nothing. With a single channel the keyword axis is replaced by
// per-state searches restricted to that channel.
func (s *Service) Collect(ctx context.Context, channels []channelDomain.Channel) []domain.RawCandidate {
	type task struct {
		axis  string
		label string
		run   func(context.Context) ([]domain.RawCandidate, error)
	}

	var tasks []task
	for _, ch := range channels {
		tasks = append(tasks, task{
			axis:  AxisUploads,
			label: ch.ID,
			run: func(ctx context.Context) ([]domain.RawCandidate, error) {
				return s.collectChannel(ctx, ch)
			},
		})
	}

	states := []domain.EventState{domain.EventStateLive, domain.EventStateUpcoming, domain.EventStateCompleted}
	for _, state := range states {
		if len(channels) == 1 {
			ch := channels[0]
			tasks = append(tasks, task{
				axis:  AxisChannelSearch,
				label: ch.ID + "/" + state.String(),
				run: func(ctx context.Context) ([]domain.RawCandidate, error) {
					return s.search.SearchVideos(ctx, domain.SearchQuery{
						ChannelID:  ch.ID,
						EventState: state,
						MaxResults: s.opts.SearchMaxResults,
					})
				},
			})
			continue
		}
		tasks = append(tasks, task{
			axis:  AxisKeyword,
			label: state.String(),
			run: func(ctx context.Context) ([]domain.RawCandidate, error) {
				return s.CollectByKeywordAndState(ctx, s.opts.Keyword, state, s.opts.SearchMaxResults)
			},
		})
	}

	// Each branch owns one slot; slots are merged after every branch returns
	results := make([][]domain.RawCandidate, len(tasks))
	var wg sync.WaitGroup
	for idx, t := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			found, err := t.run(ctx)
			if err != nil {
				s.metrics.IncSubqueryFailure(t.axis)
				s.logger.Warn("Candidate sub-query failed", "axis", t.axis, "query", t.label, "error", err)
				return
			}
			s.metrics.AddCandidates(t.axis, len(found))
			results[idx] = found
		}()
	}
	wg.Wait()

	allowed := lo.SliceToMap(channels, func(ch channelDomain.Channel) (string, struct{}) {
		return ch.ID, struct{}{}
	})

	merged := mergeCandidates(lo.Flatten(results))
	kept := lo.Filter(merged, func(c domain.RawCandidate, _ int) bool {
		_, ok := allowed[c.ChannelID]
		return ok
	})

	s.logger.Info("Collected candidates", "channels", len(channels), "found", len(merged), "in_roster", len(kept))
	return kept
}

// collectChannel lists one channel's uploads, falling back to its public
// feed and then to a channel search
func (s *Service) collectChannel(ctx context.Context, ch channelDomain.Channel) ([]domain.RawCandidate, error) {
	found, err := s.CollectByUploads(ctx, ch)
	if err == nil {
		return found, nil
	}
	s.metrics.IncSubqueryFailure(AxisUploads)
	s.logger.Warn("Uploads listing failed, trying feed", "channel_id", ch.ID, "error", err)

	if s.feeds != nil {
		found, err = s.CollectByFeed(ctx, ch)
		if err == nil {
			return found, nil
		}
		s.metrics.IncSubqueryFailure(AxisFeed)
		s.logger.Warn("Channel feed failed, trying channel search", "channel_id", ch.ID, "error", err)
	}

	return s.CollectByChannelSearch(ctx, ch, s.opts.SearchMaxResults)
}

// mergeCandidates drops repeated ids, keeping the first occurrence and any
// channel id or short hint a later occurrence adds
func mergeCandidates(all []domain.RawCandidate) []domain.RawCandidate {
	index := make(map[string]int, len(all))
	out := make([]domain.RawCandidate, 0, len(all))
	for _, c := range all {
		if c.ID == "" {
			continue
		}
		if pos, seen := index[c.ID]; seen {
			if out[pos].ChannelID == "" {
				out[pos].ChannelID = c.ChannelID
			}
			if out[pos].Short == nil {
				out[pos].Short = c.Short
			}
			continue
		}
		index[c.ID] = len(out)
		out = append(out, c)
	}
	return out
}
