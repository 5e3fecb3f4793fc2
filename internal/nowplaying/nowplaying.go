package nowplaying

import "errors"

type Status string

const (
	StatusPlaying      Status = "playing"
	StatusNotPlaying   Status = "not_playing"
	StatusNotConnected Status = "not_connected"
)

var (
	ErrUpstream = errors.New("spotify api error")
)

// Track is the normalized currently playing item.
type Track struct {
	Name       string `json:"track"`
	Artists    string `json:"artists"`
	Album      string `json:"album,omitempty"`
	AlbumArt   string `json:"albumArt,omitempty"`
	URL        string `json:"url,omitempty"`
	IsPlaying  bool   `json:"isPlaying"`
	ProgressMs int    `json:"progressMs"`
	DurationMs int    `json:"durationMs"`
}

type Result struct {
	Status Status
	Track  *Track
}
