package domain

// FeedConfig describes the syndication feed built from the published collection
type FeedConfig struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	// Limit caps the number of entries, newest first
	Limit int `json:"limit"`
}

// DefaultFeedConfig titles the feed after the group keyword
func DefaultFeedConfig(group string) FeedConfig {
	return FeedConfig{
		Title:       group + " - Streams",
		Description: "Live, upcoming and recent streams of " + group,
		Author:      group,
		Limit:       100,
	}
}
