package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"video-gallery/internal/models"
	"video-gallery/shared/config"
	"video-gallery/shared/embed"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	defaultThumbnailBase = "https://i.ytimg.com/vi/"
	defaultOEmbedURL     = "https://www.youtube.com/oembed"
)

// thumbnailNames are tried in order of preference.
var thumbnailNames = []string{"maxresdefault.jpg", "hqdefault.jpg", "mqdefault.jpg", "sddefault.jpg"}

// ErrVideoNotFound is returned when the Data API knows nothing about an id.
var ErrVideoNotFound = errors.New("video not found")

// Client fetches YouTube titles and thumbnails. Titles come from the Data
// API when credentials are configured, and from oEmbed otherwise.
type Client struct {
	service       *youtube.Service
	httpClient    *http.Client
	userAgent     string
	thumbnailBase string
	oembedURL     string
}

// Option customizes a Client.
type Option func(*Client)

// WithThumbnailBase points thumbnail probes at base instead of i.ytimg.com.
func WithThumbnailBase(base string) Option {
	return func(c *Client) { c.thumbnailBase = strings.TrimSuffix(base, "/") + "/" }
}

// WithOEmbedURL replaces the public oEmbed endpoint.
func WithOEmbedURL(endpoint string) Option {
	return func(c *Client) { c.oembedURL = endpoint }
}

// WithService uses service for title lookups.
func WithService(service *youtube.Service) Option {
	return func(c *Client) { c.service = service }
}

func NewClient(ctx context.Context, cfg *config.EnrichConfig, opts ...Option) (*Client, error) {
	c := &Client{
		httpClient:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		userAgent:     cfg.UserAgent,
		thumbnailBase: defaultThumbnailBase,
		oembedURL:     defaultOEmbedURL,
	}

	switch {
	case cfg.YouTubeAPIKey != "":
		service, err := youtube.NewService(ctx, option.WithAPIKey(cfg.YouTubeAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service: %w", err)
		}
		c.service = service
		log.Println("YouTube titles from the Data API (API key)")
	case cfg.UseADC:
		httpClient, err := google.DefaultClient(ctx, youtube.YoutubeReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("failed to load application default credentials: %w", err)
		}
		service, err := youtube.NewService(ctx, option.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service: %w", err)
		}
		c.service = service
		log.Println("YouTube titles from the Data API (application default credentials)")
	default:
		log.Println("YouTube titles from oEmbed (no API credentials configured)")
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch returns what is known about the YouTube video at link. Lookups that
// simply find nothing are not errors; the entry is returned with empty
// fields instead.
func (c *Client) Fetch(ctx context.Context, link string) (models.VideoInfo, error) {
	info := models.VideoInfo{Source: models.SourceUnknown}

	ref, ok := embed.ResolveVideoID(link, nil)
	if ok && ref.Provider == models.ProviderYouTube {
		info.Thumbnail = c.bestThumbnail(ctx, ref.ID)
		info.Source = models.SourceYouTubeThumb
	} else {
		ref = embed.VideoRef{}
	}

	if c.service != nil && ref.ID != "" {
		title, err := c.apiTitle(ctx, ref.ID)
		if errors.Is(err, ErrVideoNotFound) {
			info.Source = models.SourceYouTubeUnavailable
			return info, nil
		}
		if err != nil {
			return info, err
		}
		if title != "" {
			info.Title = title
			info.Source = models.SourceYouTubeAPI
		}
		return info, nil
	}

	title, err := c.oembedTitle(ctx, link)
	if err != nil {
		log.Printf("Warning: oEmbed lookup failed for %s: %v", link, err)
	}
	if title != "" {
		info.Title = title
		info.Source = models.SourceYouTubeOEmbed
	}
	return info, nil
}

func (c *Client) apiTitle(ctx context.Context, id string) (string, error) {
	resp, err := c.service.Videos.List([]string{"snippet"}).Id(id).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get video %s: %w", id, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", ErrVideoNotFound
	}
	return strings.TrimSpace(resp.Items[0].Snippet.Title), nil
}

type oembedResponse struct {
	Title string `json:"title"`
}

func (c *Client) oembedTitle(ctx context.Context, link string) (string, error) {
	endpoint := c.oembedURL + "?" + url.Values{"url": {link}, "format": {"json"}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create oEmbed request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch oEmbed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode oEmbed response: %w", err)
	}
	return strings.TrimSpace(body.Title), nil
}

// bestThumbnail returns the first thumbnail that exists, or the hqdefault
// URL when none answers.
func (c *Client) bestThumbnail(ctx context.Context, id string) string {
	escaped := url.PathEscape(id)
	for _, name := range thumbnailNames {
		candidate := c.thumbnailBase + escaped + "/" + name
		if c.exists(ctx, candidate) {
			return candidate
		}
	}
	return c.thumbnailBase + escaped + "/hqdefault.jpg"
}

func (c *Client) exists(ctx context.Context, target string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *Client) setHeaders(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}
