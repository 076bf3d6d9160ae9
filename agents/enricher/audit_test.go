package enricher

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"video-gallery/internal/models"
	"video-gallery/shared/embed"
	"video-gallery/shared/records"
)

func row(fields map[string]any) records.Row {
	return records.Row{Fields: fields}
}

func TestAudit(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	linkFields := []string{"timestamp 1 link", "timestamp 2 link"}

	rows := []records.Row{
		row(map[string]any{"Media type": "Guest", "timestamp 1 link": "https://youtu.be/missing1"}),
		row(map[string]any{"Media type": "Collab", "timestamp 2 link": "https://www.youtube.com/watch?v=missing1&si=x"}),
		row(map[string]any{"Media type": embed.VODMediaType, "Date": "2024-01-01", "timestamp 1 link": "https://www.twitch.tv/videos/1"}),
		row(map[string]any{"Media type": embed.VODMediaType, "Date": "", "Added date": "2023-01-01", "timestamp 1 link": "https://www.twitch.tv/videos/2"}),
		row(map[string]any{"Media type": embed.VODMediaType, "Date": "2024-05-20", "timestamp 1 link": "https://www.twitch.tv/videos/3"}),
		row(map[string]any{"Media type": embed.VODMediaType, "date": "not a date", "timestamp 1 link": "https://www.twitch.tv/videos/4"}),
		{Raw: []byte(`"stray"`)},
	}

	cache := map[string]models.VideoInfo{
		"https://www.youtube.com/watch?v=missing1": {Thumbnail: "https://i.ytimg.com/vi/missing1/hqdefault.jpg", Source: models.SourceYouTubeThumb},
		"https://www.youtube.com/watch?v=complete": {Title: "Fine", Thumbnail: "https://i.ytimg.com/vi/complete/hqdefault.jpg", Source: models.SourceYouTubeOEmbed},
		"https://www.youtube.com/watch?v=gone":     {Source: models.SourceYouTubeUnavailable},
		"https://www.twitch.tv/videos/1":           {Source: models.SourceTwitchOG},
		"https://www.twitch.tv/videos/2":           {Source: models.SourceTwitchOG},
		"https://www.twitch.tv/videos/3":           {Title: "Recent", Source: models.SourceTwitchOG},
		"https://www.twitch.tv/videos/4":           {Title: "Undated", Source: models.SourceTwitchOG},
		"https://example.org/orphan":               {Title: "   ", Source: models.SourceUnknown},
	}

	report := Audit(rows, cache, linkFields, embed.DefaultExpiryPolicy, now)

	if report.Checked != len(cache) {
		t.Errorf("Expected %d checked, got %d", len(cache), report.Checked)
	}
	// The unavailable video and the two expired Twitch VODs.
	if report.Skipped != 3 {
		t.Errorf("Expected 3 skipped, got %d", report.Skipped)
	}

	expected := []*models.AuditEntry{
		{URL: "https://example.org/orphan", Missing: []string{"title", "thumbnail"}, Source: models.SourceUnknown, Rows: 0},
		{URL: "https://www.twitch.tv/videos/3", Missing: []string{"thumbnail"}, Source: models.SourceTwitchOG, Rows: 1, MediaTypes: []string{embed.VODMediaType}},
		{URL: "https://www.twitch.tv/videos/4", Missing: []string{"thumbnail"}, Source: models.SourceTwitchOG, Rows: 1, MediaTypes: []string{embed.VODMediaType}},
		{URL: "https://www.youtube.com/watch?v=missing1", Missing: []string{"title"}, Source: models.SourceYouTubeThumb, Rows: 2, MediaTypes: []string{"Collab", "Guest"}},
	}
	if diff := cmp.Diff(expected, report.Flagged); diff != "" {
		t.Errorf("Flagged entries mismatch (-want +got):\n%s", diff)
	}
}

func TestAuditEntryLabels(t *testing.T) {
	entry := &models.AuditEntry{URL: "https://example.org/orphan", Missing: []string{"title", "thumbnail"}, Source: "unknown"}
	expected := "[NO_ROW] https://example.org/orphan | missing: title, thumbnail | source: unknown | rows: 0"
	if entry.String() != expected {
		t.Errorf("Expected %q, got %q", expected, entry.String())
	}
}

func TestAuditEmptyCache(t *testing.T) {
	report := Audit(nil, map[string]models.VideoInfo{}, []string{"timestamp 1 link"}, embed.DefaultExpiryPolicy, time.Now())
	if report.Checked != 0 || report.Skipped != 0 || len(report.Flagged) != 0 {
		t.Errorf("Expected an empty report, got %+v", report)
	}
}
