package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"golang.org/x/time/rate"
)

// MaxBatchSize is the upstream limit on ids per videos/channels call
const MaxBatchSize = 50

// DefaultAPIBaseURL is the Data API v3 root. Tests point it at an httptest server.
var DefaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

type Options struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client calls the YouTube Data API v3. Every call carries the client
// timeout and waits on a shared limiter to stay inside the quota.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.ErrMissingAPIKey
	}

	baseURL := strings.TrimRight(lo.CoalesceOrEmpty(opts.BaseURL, DefaultAPIBaseURL), "/")
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: lo.CoalesceOrEmpty(opts.Timeout, 15*time.Second)}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		apiKey:  opts.APIKey,
		baseURL: baseURL,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// SearchVideos runs one search call and returns the video ids it found
func (c *Client) SearchVideos(ctx context.Context, q domain.SearchQuery) ([]domain.RawCandidate, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("maxResults", strconv.Itoa(clampResults(q.MaxResults)))
	if q.Keyword != "" {
		params.Set("q", q.Keyword)
	}
	if q.ChannelID != "" {
		params.Set("channelId", q.ChannelID)
	}
	if q.EventState != "" {
		params.Set("eventType", q.EventState.String())
	}

	var resp searchResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return nil, err
	}

	return lo.FilterMap(resp.Items, func(item searchItem, _ int) (domain.RawCandidate, bool) {
		if item.ID.VideoID == "" {
			return domain.RawCandidate{}, false
		}
		return domain.RawCandidate{ID: item.ID.VideoID, ChannelID: item.Snippet.ChannelID}, true
	}), nil
}

// PlaylistItems lists the most recent entries of a playlist
func (c *Client) PlaylistItems(ctx context.Context, playlistID string, maxResults int) ([]domain.RawCandidate, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(clampResults(maxResults)))

	var resp playlistItemsResponse
	if err := c.get(ctx, "playlistItems", params, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.RawCandidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		id := lo.CoalesceOrEmpty(item.ContentDetails.VideoID, item.Snippet.ResourceID.VideoID)
		if id == "" {
			continue
		}
		out = append(out, domain.RawCandidate{
			ID:        id,
			ChannelID: lo.CoalesceOrEmpty(item.Snippet.VideoOwnerChannelID, item.Snippet.ChannelID),
		})
	}
	return out, nil
}

// Videos fetches details for at most MaxBatchSize ids. Ids unknown upstream
// are absent from the result.
func (c *Client) Videos(ctx context.Context, ids []string) ([]domain.ItemDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, oops.With("ids", len(ids)).Wrap(errors.ErrBatchTooLarge)
	}

	params := url.Values{}
	params.Set("part", "snippet,liveStreamingDetails,contentDetails")
	params.Set("id", strings.Join(ids, ","))
	params.Set("maxResults", strconv.Itoa(MaxBatchSize))

	var resp videosResponse
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.ItemDetail, 0, len(resp.Items))
	for _, v := range resp.Items {
		detail := domain.ItemDetail{
			ID:           v.ID,
			Title:        v.Snippet.Title,
			ThumbnailURL: v.Snippet.Thumbnails.best(),
			ChannelID:    v.Snippet.ChannelID,
			ChannelTitle: v.Snippet.ChannelTitle,
			Duration:     v.ContentDetails.Duration,
			PublishedAt:  v.Snippet.PublishedAt,
		}

		flag, err := domain.ParseBroadcastContent(v.Snippet.LiveBroadcastContent)
		if err != nil {
			flag = domain.BroadcastContentNone
		}
		detail.BroadcastContent = flag

		if ls := v.LiveStreamingDetails; ls != nil {
			detail.LiveSession = &domain.LiveSession{
				ScheduledStart: ls.ScheduledStartTime,
				ActualStart:    ls.ActualStartTime,
				ActualEnd:      ls.ActualEndTime,
			}
		}
		out = append(out, detail)
	}
	return out, nil
}

// Channels returns avatar URLs keyed by channel id for at most MaxBatchSize ids
func (c *Client) Channels(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, oops.With("ids", len(ids)).Wrap(errors.ErrBatchTooLarge)
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", strings.Join(ids, ","))
	params.Set("maxResults", strconv.Itoa(MaxBatchSize))

	var resp channelsResponse
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return nil, err
	}

	avatars := make(map[string]string, len(resp.Items))
	for _, ch := range resp.Items {
		if u := ch.Snippet.Thumbnails.best(); u != "" {
			avatars[ch.ID] = u
		}
	}
	return avatars, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return oops.With("endpoint", endpoint, "context", "rate limiter wait aborted").Wrap(err)
	}

	params.Set("key", c.apiKey)
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return oops.With("endpoint", endpoint, "context", "failed to build request").Wrap(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return oops.With("endpoint", endpoint, "context", "request failed").Wrap(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return oops.With("endpoint", endpoint, "context", "failed to read response").Wrap(err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		return oops.
			Code(apiErr.reason()).
			With("endpoint", endpoint, "status", resp.StatusCode, "message", apiErr.Error.Message).
			Wrap(errors.ErrUnexpectedStatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return oops.With("endpoint", endpoint, "context", "failed to decode response").Wrap(err)
	}
	return nil
}

func clampResults(n int) int {
	if n <= 0 || n > MaxBatchSize {
		return MaxBatchSize
	}
	return n
}
