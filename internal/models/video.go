package models

import "time"

// VideoRecord is one appearance of the subject in external media.
// Every field is an empty string when the upstream row omits it.
type VideoRecord struct {
	Date             string `json:"date"`
	MediaType        string `json:"media_type"`
	ContentType      string `json:"content_type"`
	Creator          string `json:"creator"`
	Notes            string `json:"notes"`
	PrimaryLink      string `json:"primary_link"`
	PrimaryThumbnail string `json:"primary_thumbnail"`
	PrimaryTitle     string `json:"primary_title"`
	SecondaryLink    string `json:"secondary_link"`
}

// MonthGroup holds the records published in one calendar month.
type MonthGroup struct {
	Key    string        `json:"key"` // YYYY-MM
	Year   int           `json:"year"`
	Month  int           `json:"month"`
	Videos []VideoRecord `json:"videos"`
}

// Provider identifies a video platform we know how to embed.
type Provider string

const (
	ProviderNone    Provider = "none"
	ProviderYouTube Provider = "youtube"
	ProviderTwitch  Provider = "twitch"
)

// EmbedTarget is the resolved iframe source for a link. Src is empty when
// Provider is ProviderNone.
type EmbedTarget struct {
	Provider Provider `json:"provider"`
	Src      string   `json:"src,omitempty"`
}

// VideoInfo is an enrichment cache entry keyed by normalized URL.
type VideoInfo struct {
	Title     string    `json:"title,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Source    string    `json:"source"`
	Error     string    `json:"error,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// VideoInfo sources.
const (
	SourceYouTubeAPI         = "youtube_api"
	SourceYouTubeOEmbed      = "youtube_oembed"
	SourceYouTubeThumb       = "youtube_thumb"
	SourceYouTubeUnavailable = "youtube_unavailable"
	SourceTwitchOG           = "twitch_og"
	SourceUnknown            = "unknown"
	SourceError              = "error"
)
