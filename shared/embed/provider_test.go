package embed

import (
	"net/url"
	"testing"

	"video-gallery/internal/models"
)

func TestResolveVideoID(t *testing.T) {
	base, _ := url.Parse("https://gallery.example.com")

	tests := []struct {
		name   string
		input  string
		want   VideoRef
		wantOK bool
	}{
		{
			name:   "Short link",
			input:  "https://youtu.be/abc123",
			want:   VideoRef{Provider: models.ProviderYouTube, ID: "abc123"},
			wantOK: true,
		},
		{
			name:   "Short link with timestamp",
			input:  "https://youtu.be/abc123?t=90",
			want:   VideoRef{Provider: models.ProviderYouTube, ID: "abc123"},
			wantOK: true,
		},
		{
			name:   "Watch URL",
			input:  "https://www.youtube.com/watch?v=xyz",
			want:   VideoRef{Provider: models.ProviderYouTube, ID: "xyz"},
			wantOK: true,
		},
		{
			name:   "Mobile watch URL",
			input:  "https://m.youtube.com/watch?feature=share&v=mob1",
			want:   VideoRef{Provider: models.ProviderYouTube, ID: "mob1"},
			wantOK: true,
		},
		{
			name:   "Uppercase host",
			input:  "https://WWW.YouTube.com/watch?v=up",
			want:   VideoRef{Provider: models.ProviderYouTube, ID: "up"},
			wantOK: true,
		},
		{
			name:   "Shorts",
			input:  "https://www.youtube.com/shorts/foo",
			want:   VideoRef{Provider: models.ProviderYouTube, ID: "foo"},
			wantOK: true,
		},
		{
			name:   "Embed path",
			input:  "https://www.youtube.com/embed/emb",
			want:   VideoRef{Provider: models.ProviderYouTube, ID: "emb"},
			wantOK: true,
		},
		{
			name:   "Live path",
			input:  "https://www.youtube.com/live/liv?si=tracking",
			want:   VideoRef{Provider: models.ProviderYouTube, ID: "liv"},
			wantOK: true,
		},
		{
			name:   "Twitch VOD",
			input:  "https://www.twitch.tv/videos/998877",
			want:   VideoRef{Provider: models.ProviderTwitch, ID: "998877"},
			wantOK: true,
		},
		{
			name:   "Twitch VOD with timestamp",
			input:  "https://m.twitch.tv/videos/123?t=1h2m3s",
			want:   VideoRef{Provider: models.ProviderTwitch, ID: "123"},
			wantOK: true,
		},
		{name: "YouTube channel page", input: "https://www.youtube.com/@somechannel", wantOK: false},
		{name: "YouTube shorts without id", input: "https://www.youtube.com/shorts/", wantOK: false},
		{name: "YouTube empty v", input: "https://www.youtube.com/watch?v=", wantOK: false},
		{name: "Short link without id", input: "https://youtu.be/", wantOK: false},
		{name: "Twitch channel", input: "https://www.twitch.tv/somestreamer", wantOK: false},
		{name: "Twitch clip", input: "https://www.twitch.tv/videos/abc", wantOK: false},
		{name: "Unknown host", input: "https://vimeo.com/12345", wantOK: false},
		{name: "Relative path resolves to own origin", input: "/watch?v=abc", wantOK: false},
		{name: "Empty", input: "", wantOK: false},
		{name: "Malformed query escape", input: "https://www.youtube.com/watch?v=%zz", wantOK: false},
		{name: "Bad host", input: "http://[::1", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveVideoID(tt.input, base)
			if ok != tt.wantOK {
				t.Fatalf("ResolveVideoID(%q) ok = %t, want %t (got %+v)", tt.input, ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Errorf("ResolveVideoID(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveVideoIDWithoutBase(t *testing.T) {
	if _, ok := ResolveVideoID("youtu.be/abc", nil); ok {
		t.Error("Expected scheme-less link to be rejected without a base")
	}
	if ref, ok := ResolveVideoID("https://youtu.be/abc", nil); !ok || ref.ID != "abc" {
		t.Errorf("Expected absolute link to resolve without a base, got %+v, %t", ref, ok)
	}
}

func TestMatchersOrder(t *testing.T) {
	if len(Matchers) < 2 {
		t.Fatalf("Expected at least two matchers, got %d", len(Matchers))
	}
	if Matchers[0].Provider != models.ProviderYouTube || Matchers[1].Provider != models.ProviderTwitch {
		t.Errorf("Unexpected matcher order: %s, %s", Matchers[0].Provider, Matchers[1].Provider)
	}
}
