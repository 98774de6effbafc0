package domain

// Channel represents a content channel in the fixed roster
type Channel struct {
	ID    string `json:"id" koanf:"id"`
	Name  string `json:"name" koanf:"name"`
	Color string `json:"color" koanf:"color"`
}

// UploadsPlaylistID returns the id of the playlist holding every public
// upload of the channel. Channel ids start with "UC", uploads playlists
// with "UU" followed by the same suffix.
func (c Channel) UploadsPlaylistID() string {
	if len(c.ID) < 2 {
		return ""
	}
	return "UU" + c.ID[2:]
}
