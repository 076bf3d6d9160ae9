package enricher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"video-gallery/agents/enricher/twitch"
	"video-gallery/internal/models"
	"video-gallery/shared/config"
	"video-gallery/shared/embed"
	"video-gallery/shared/records"
	"video-gallery/shared/scheduler"
	"video-gallery/shared/storage"
)

type fakeFetcher struct {
	infos map[string]models.VideoInfo
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, link string) (models.VideoInfo, error) {
	f.calls = append(f.calls, link)
	if err := f.errs[link]; err != nil {
		return models.VideoInfo{}, err
	}
	return f.infos[link], nil
}

const rawRows = `[
  {"Date": "2024-03-02", "Media type": "Guest", "Creator": "Someone", "timestamp 1 link": "https://youtu.be/abc123?t=90", "timestamp 2 link": ""},
  {"Date": "2024-03-05", "Media type": "VOD⏳", "timestamp 1 link": "https://www.twitch.tv/videos/998877", "timestamp 2 link": "https://www.youtube.com/watch?v=abc123&si=share"},
  {"Date": "2024-03-09", "Media type": "Guest", "timestamp 1 link": "https://www.youtube.com/watch?v=broken"},
  {"Date": "2024-03-10", "Media type": "Other", "timestamp 1 link": "https://example.org/clip.mp4"},
  "not a row"
]`

func newTestAgent(t *testing.T) (*EnricherAgent, *fakeFetcher, *fakeFetcher, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	rawPath := filepath.Join(dir, "out.json")
	if err := os.WriteFile(rawPath, []byte(rawRows), 0644); err != nil {
		t.Fatalf("Failed to write raw rows: %v", err)
	}

	cfg := &config.Config{
		Data: config.DataConfig{
			RawPath:      rawPath,
			EnrichedPath: filepath.Join(dir, "out.enriched.json"),
			CachePath:    filepath.Join(dir, "video_info.json"),
			LinkFields:   []string{"timestamp 1 link", "timestamp 2 link"},
		},
		Enrich: config.EnrichConfig{RefetchAfterDays: 7},
		Expiry: config.ExpiryConfig{MediaType: embed.VODMediaType, Months: 2},
	}

	yt := &fakeFetcher{
		infos: map[string]models.VideoInfo{
			"https://www.youtube.com/watch?v=abc123": {Title: "Guest Spot", Thumbnail: "https://i.ytimg.com/vi/abc123/hqdefault.jpg", Source: models.SourceYouTubeOEmbed},
		},
		errs: map[string]error{
			"https://www.youtube.com/watch?v=broken": errors.New("connection reset"),
		},
	}
	tw := &fakeFetcher{
		infos: map[string]models.VideoInfo{
			"https://www.twitch.tv/videos/998877": {Title: "Late Stream", Source: models.SourceTwitchOG},
		},
	}

	agent := NewEnricherAgent(cfg)
	agent.youtube = yt
	agent.twitch = tw
	agent.now = func() time.Time { return time.Date(2024, 3, 20, 12, 30, 45, 500, time.UTC) }
	agent.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }

	if err := agent.Initialize(); err != nil {
		t.Fatalf("Failed to initialize agent: %v", err)
	}
	return agent, yt, tw, cfg
}

func TestEnrichMetricsGetSummary(t *testing.T) {
	tests := []struct {
		name     string
		metrics  EnrichMetrics
		expected string
	}{
		{
			name:     "Clean run",
			metrics:  EnrichMetrics{UniqueURLs: 4, Fetched: 2, Rows: 5},
			expected: "4 unique URLs, 2 fetched, 5 rows written, 0 flagged",
		},
		{
			name:     "Failures and email",
			metrics:  EnrichMetrics{UniqueURLs: 4, Fetched: 4, Failed: 1, Rows: 5, Flagged: 2, EmailSent: true},
			expected: "4 unique URLs, 4 fetched (1 failed), 5 rows written, 2 flagged, audit email sent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.metrics.GetSummary()
			if result != tt.expected {
				t.Errorf("Expected summary '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestNewEnricherAgent(t *testing.T) {
	cfg := &config.Config{}
	agent := NewEnricherAgent(cfg)

	if agent.config != cfg {
		t.Error("Agent config not set correctly")
	}
	if agent.Name() != "Video Enricher" {
		t.Errorf("Expected agent name 'Video Enricher', got '%s'", agent.Name())
	}
}

func TestInitializeRequiresPaths(t *testing.T) {
	agent := NewEnricherAgent(&config.Config{})
	if err := agent.Initialize(); err == nil {
		t.Error("Expected error for missing raw row path")
	}
}

func TestRunOnce(t *testing.T) {
	agent, yt, tw, cfg := newTestAgent(t)

	var metrics scheduler.Metrics
	var partial error
	events := &scheduler.AgentEvents{
		OnSuccess:        func(m scheduler.Metrics, d time.Duration) { metrics = m },
		OnPartialFailure: func(err error, d time.Duration) { partial = err },
	}

	if err := agent.RunOnce(context.Background(), events); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	if len(yt.calls) != 2 {
		t.Errorf("Expected 2 YouTube fetches (deduplicated), got %v", yt.calls)
	}
	if len(tw.calls) != 1 {
		t.Errorf("Expected 1 Twitch fetch, got %v", tw.calls)
	}
	if partial == nil {
		t.Error("Expected a partial failure for the broken link")
	}

	m, ok := metrics.(EnrichMetrics)
	if !ok {
		t.Fatalf("Expected EnrichMetrics, got %T", metrics)
	}
	if m.UniqueURLs != 4 || m.Fetched != 4 || m.Failed != 1 || m.Rows != 5 {
		t.Errorf("Unexpected metrics: %+v", m)
	}

	cache, err := storage.NewInfoCache(cfg.Data.CachePath)
	if err != nil {
		t.Fatalf("Failed to reopen cache: %v", err)
	}
	broken, ok := cache.Get("https://www.youtube.com/watch?v=broken")
	if !ok || broken.Source != models.SourceError || broken.Error != "connection reset" {
		t.Errorf("Expected failed fetch recorded as error, got %+v", broken)
	}
	unknown, _ := cache.Get("https://example.org/clip.mp4")
	if unknown.Source != models.SourceUnknown {
		t.Errorf("Expected unknown source for other hosts, got %+v", unknown)
	}
	expectedTime := time.Date(2024, 3, 20, 12, 30, 45, 0, time.UTC)
	if !unknown.FetchedAt.Equal(expectedTime) {
		t.Errorf("Expected fetched_at %s, got %s", expectedTime, unknown.FetchedAt)
	}

	rows, err := records.ReadRows(cfg.Data.EnrichedPath)
	if err != nil {
		t.Fatalf("Failed to read enriched rows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("Expected 5 enriched rows, got %d", len(rows))
	}
	if got := rows[0].Get("timestamp 1 title"); got != "Guest Spot" {
		t.Errorf("Expected title from cache, got %q", got)
	}
	if got := rows[0].Get("timestamp 2 title"); got != "" {
		t.Errorf("Expected empty title for empty link, got %q", got)
	}
	if got := rows[1].Get("timestamp 2 thumbnail"); got != "https://i.ytimg.com/vi/abc123/hqdefault.jpg" {
		t.Errorf("Expected thumbnail for normalized link, got %q", got)
	}
	if got := rows[1].Get("timestamp 1 title"); got != "Late Stream" {
		t.Errorf("Expected Twitch title, got %q", got)
	}
	if rows[4].IsObject() || string(rows[4].Raw) != `"not a row"` {
		t.Errorf("Expected non-object row to pass through, got %+v", rows[4])
	}
}

func TestRunOnceUsesCache(t *testing.T) {
	agent, yt, tw, _ := newTestAgent(t)

	if err := agent.RunOnce(context.Background(), nil); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	yt.calls, tw.calls = nil, nil

	if err := agent.RunOnce(context.Background(), nil); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if len(yt.calls) != 0 || len(tw.calls) != 0 {
		t.Errorf("Expected no fetches on second run, got %v %v", yt.calls, tw.calls)
	}
}

func TestRunOnceRefetchesPlaceholderThumbnails(t *testing.T) {
	agent, _, tw, _ := newTestAgent(t)
	agent.cache.Put("https://www.twitch.tv/videos/998877", models.VideoInfo{
		Title:     "Old",
		Thumbnail: twitch.PlaceholderThumbnail,
		Source:    models.SourceTwitchOG,
	})

	if err := agent.RunOnce(context.Background(), nil); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if len(tw.calls) != 1 {
		t.Errorf("Expected placeholder entry to be refetched, got %v", tw.calls)
	}
}

func TestRunOnceCancelled(t *testing.T) {
	agent, yt, _, _ := newTestAgent(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := agent.RunOnce(ctx, nil); err == nil {
		t.Error("Expected error when context is cancelled")
	}
	if len(yt.calls) > 1 {
		t.Errorf("Expected fetching to stop after cancellation, got %v", yt.calls)
	}
}

func TestRunOnceMissingInput(t *testing.T) {
	agent, _, _, cfg := newTestAgent(t)
	cfg.Data.RawPath = filepath.Join(t.TempDir(), "missing.json")

	if err := agent.RunOnce(context.Background(), nil); err == nil {
		t.Error("Expected error for missing raw rows")
	}
}
