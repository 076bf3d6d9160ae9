package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"video-gallery/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		expected []models.VideoRecord
	}{
		{
			name: "Array of rows",
			content: `[
				{"Date": "2024-03-05", "Media type": "VOD⏳", "Creator": "  Etho ", "timestamp 1 link": "https://youtu.be/abc", "timestamp 1 title": "Episode 1"},
				{"Date": "2024-01-20", "Notes": null, "timestamp 2 link": "https://www.twitch.tv/videos/1"}
			]`,
			expected: []models.VideoRecord{
				{Date: "2024-03-05", MediaType: "VOD⏳", Creator: "Etho", PrimaryLink: "https://youtu.be/abc", PrimaryTitle: "Episode 1"},
				{Date: "2024-01-20", SecondaryLink: "https://www.twitch.tv/videos/1"},
			},
		},
		{
			name:    "Wrapped rows",
			content: `{"videos": [{"Date": "2024-02-01", "Content type": "Collab"}]}`,
			expected: []models.VideoRecord{
				{Date: "2024-02-01", ContentType: "Collab"},
			},
		},
		{
			name:    "Non string values",
			content: `[{"Date": 20240201, "Notes": true, "Creator": 12.5}]`,
			expected: []models.VideoRecord{
				{Date: "20240201", Notes: "true", Creator: "12.5"},
			},
		},
		{
			name:     "Non object entries skipped",
			content:  `[null, "stray", {"Date": "2024-02-01"}]`,
			expected: []models.VideoRecord{{Date: "2024-02-01"}},
		},
		{
			name:     "Malformed JSON",
			content:  `[{"Date": `,
			expected: []models.VideoRecord{},
		},
		{
			name:     "Object without videos",
			content:  `{"rows": []}`,
			expected: []models.VideoRecord{},
		},
		{
			name:     "Empty file",
			content:  ``,
			expected: []models.VideoRecord{},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.Repeat("x", i+1)+".json", tt.content)
			if diff := cmp.Diff(tt.expected, Load(path)); diff != "" {
				t.Errorf("Load mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	videos := Load(filepath.Join(t.TempDir(), "missing.json"))
	if videos == nil || len(videos) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", videos)
	}
}

func TestWriteRowsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.json", `[{"Date": "2024-01-01", "Count": 3, "timestamp 1 link": "https://www.youtube.com/watch?v=a&b=c"}, 7]`)

	rows, err := ReadRows(in)
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[1].IsObject() {
		t.Error("Expected the number entry to be kept raw")
	}

	out := filepath.Join(dir, "nested", "out.json")
	if err := WriteRows(out, rows); err != nil {
		t.Fatalf("WriteRows failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	got := string(data)
	for _, want := range []string{`"Count": 3`, `v=a&b=c`, "\n  7\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, got)
		}
	}
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected temporary file to be gone")
	}
}

func TestColumnNames(t *testing.T) {
	tests := []struct {
		link      string
		title     string
		thumbnail string
	}{
		{"timestamp 1 link", "timestamp 1 title", "timestamp 1 thumbnail"},
		{"ts 2 Link", "ts 2 title", "ts 2 thumbnail"},
		{"url", "url title", "url thumbnail"},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			if got := TitleColumn(tt.link); got != tt.title {
				t.Errorf("TitleColumn(%q) = %q, want %q", tt.link, got, tt.title)
			}
			if got := ThumbnailColumn(tt.link); got != tt.thumbnail {
				t.Errorf("ThumbnailColumn(%q) = %q, want %q", tt.link, got, tt.thumbnail)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "found.json", "[]")
	missing := filepath.Join(dir, "missing.json")

	if got := ResolvePath("/configured.json", missing, existing); got != "/configured.json" {
		t.Errorf("Expected configured path to win, got %q", got)
	}
	if got := ResolvePath("", missing, existing); got != existing {
		t.Errorf("Expected first existing candidate, got %q", got)
	}
	if got := ResolvePath("", missing); got != missing {
		t.Errorf("Expected first candidate when none exist, got %q", got)
	}
	if got := ResolvePath(""); got != "" {
		t.Errorf("Expected empty path, got %q", got)
	}
}
