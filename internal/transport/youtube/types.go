package youtube

import "time"

type thumbnail struct {
	URL string `json:"url"`
}

type thumbnails struct {
	Default  *thumbnail `json:"default"`
	Medium   *thumbnail `json:"medium"`
	High     *thumbnail `json:"high"`
	Standard *thumbnail `json:"standard"`
	Maxres   *thumbnail `json:"maxres"`
}

// best returns high, then medium, then default
func (t thumbnails) best() string {
	for _, th := range []*thumbnail{t.High, t.Medium, t.Default, t.Standard, t.Maxres} {
		if th != nil && th.URL != "" {
			return th.URL
		}
	}
	return ""
}

type searchResponse struct {
	NextPageToken string       `json:"nextPageToken"`
	Items         []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		ChannelID            string `json:"channelId"`
		Title                string `json:"title"`
		LiveBroadcastContent string `json:"liveBroadcastContent"`
	} `json:"snippet"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			ChannelID           string `json:"channelId"`
			VideoOwnerChannelID string `json:"videoOwnerChannelId"`
			Title               string `json:"title"`
			ResourceID          struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			PublishedAt          time.Time  `json:"publishedAt"`
			ChannelID            string     `json:"channelId"`
			Title                string     `json:"title"`
			Thumbnails           thumbnails `json:"thumbnails"`
			ChannelTitle         string     `json:"channelTitle"`
			LiveBroadcastContent string     `json:"liveBroadcastContent"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		LiveStreamingDetails *struct {
			ActualStartTime    *time.Time `json:"actualStartTime"`
			ActualEndTime      *time.Time `json:"actualEndTime"`
			ScheduledStartTime *time.Time `json:"scheduledStartTime"`
		} `json:"liveStreamingDetails"`
	} `json:"items"`
}

type channelsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title      string     `json:"title"`
			Thumbnails thumbnails `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
			Domain string `json:"domain"`
		} `json:"errors"`
	} `json:"error"`
}

func (e errorResponse) reason() string {
	if len(e.Error.Errors) > 0 && e.Error.Errors[0].Reason != "" {
		return e.Error.Errors[0].Reason
	}
	return "unknown"
}
