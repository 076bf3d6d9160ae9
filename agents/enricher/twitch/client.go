package twitch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"video-gallery/internal/models"
	"video-gallery/shared/config"

	"github.com/PuerkitoBio/goquery"
)

// PlaceholderThumbnail is the generic logo Twitch serves for pages without
// their own preview image.
const PlaceholderThumbnail = "https://static-cdn.jtvnw.net/ttv-static-metadata/twitch_logo3.jpg"

// Client reads Open Graph metadata from Twitch pages.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

func NewClient(cfg *config.EnrichConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		userAgent:  cfg.UserAgent,
	}
}

// Fetch downloads the page at link and returns its og:title and og:image.
func (c *Client) Fetch(ctx context.Context, link string) (models.VideoInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return models.VideoInfo{}, fmt.Errorf("failed to create Twitch request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.VideoInfo{}, fmt.Errorf("failed to fetch Twitch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.VideoInfo{}, fmt.Errorf("Twitch returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.VideoInfo{}, fmt.Errorf("failed to parse Twitch page: %w", err)
	}

	info := models.VideoInfo{
		Title:     metaContent(doc, "og:title"),
		Thumbnail: metaContent(doc, "og:image"),
		Source:    models.SourceTwitchOG,
	}
	if info.Thumbnail == PlaceholderThumbnail {
		info.Thumbnail = ""
	}
	return info, nil
}

// metaContent returns the content of the first meta tag whose property or
// name is key.
func metaContent(doc *goquery.Document, key string) string {
	selector := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, key, key)
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
