package thumbnail

import (
	"math/rand"
	"testing"
)

var images = []string{"/assets/fallback/a.png", "/assets/fallback/b.png", "/assets/fallback/c.png"}

func newSelector() *Selector {
	return &Selector{
		Images:      images,
		LocalPrefix: "/assets/",
		Rand:        rand.New(rand.NewSource(1)),
	}
}

func TestIsTrusted(t *testing.T) {
	s := newSelector()

	tests := []struct {
		input    string
		expected bool
	}{
		{"https://i.ytimg.com/vi/abc/hqdefault.jpg", true},
		{"http://static-cdn.jtvnw.net/thumb.jpg", true},
		{"/assets/fallback/a.png", true},
		{"  https://example.com/x.jpg  ", true},
		{"", false},
		{"javascript:alert(1)", false},
		{"data:image/png;base64,AAAA", false},
		{"//example.com/x.jpg", false},
		{"thumb.jpg", false},
		{"/uploads/thumb.jpg", false},
		{"ftp://example.com/x.jpg", false},
		{"https://", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := s.IsTrusted(tt.input); result != tt.expected {
				t.Errorf("IsTrusted(%q) = %t, want %t", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPickFallbackExcludesFailedImage(t *testing.T) {
	s := newSelector()
	for i := 0; i < 100; i++ {
		if got := s.PickFallback(images[0]); got == images[0] {
			t.Fatalf("Expected %q to be excluded", images[0])
		}
	}
}

func TestPickFallbackCoversPool(t *testing.T) {
	s := newSelector()
	seen := make(map[string]bool)
	for i := 0; i < 300; i++ {
		seen[s.PickFallback("")] = true
	}
	for _, img := range images {
		if !seen[img] {
			t.Errorf("Expected %q to be picked at least once", img)
		}
	}
}

func TestPickFallbackSingleImage(t *testing.T) {
	s := &Selector{Images: []string{"/assets/only.png"}}
	if got := s.PickFallback("/assets/only.png"); got != "/assets/only.png" {
		t.Errorf("Expected the only image when exclusion empties the pool, got %q", got)
	}
}

func TestPickFallbackEmptyPool(t *testing.T) {
	s := &Selector{}
	if got := s.PickFallback(""); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}

func TestChoose(t *testing.T) {
	s := newSelector()

	if got := s.Choose("https://i.ytimg.com/vi/abc/hqdefault.jpg"); got != "https://i.ytimg.com/vi/abc/hqdefault.jpg" {
		t.Errorf("Expected trusted URL to be kept, got %q", got)
	}

	got := s.Choose("javascript:alert(1)")
	found := false
	for _, img := range images {
		if got == img {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a placeholder for untrusted URL, got %q", got)
	}
}
