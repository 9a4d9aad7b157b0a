package model

import "time"

// Sample is one browsable media clip from the catalog. The backend owns
// storage and processing; the gateway only lists and caches these.
type Sample struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	Title       string    `json:"title"`
	SourceURL   string    `json:"source_url"`
	PreviewURL  string    `json:"preview_url"`
	DownloadURL string    `json:"download_url,omitempty"`
	DurationSec int       `json:"duration_sec"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
