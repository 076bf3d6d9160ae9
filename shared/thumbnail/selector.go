package thumbnail

import (
	"math/rand"
	"net/url"
	"strings"
)

// Selector decides which image a video card shows.
type Selector struct {
	// Images is the pool of placeholder images used when a thumbnail is
	// missing, untrusted or fails to load.
	Images []string
	// LocalPrefix is the path prefix of assets served by the site itself.
	LocalPrefix string
	// Rand is used for picking placeholders. A nil Rand uses the global source.
	Rand *rand.Rand
}

// IsTrusted reports whether raw is an absolute http(s) URL or a path under
// the local asset prefix.
func (s *Selector) IsTrusted(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if s.LocalPrefix != "" && strings.HasPrefix(raw, s.LocalPrefix) {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// PickFallback returns a random placeholder other than excluding. When
// excluding is the only image the full pool is used. It returns "" when the
// pool is empty.
func (s *Selector) PickFallback(excluding string) string {
	if len(s.Images) == 0 {
		return ""
	}
	candidates := make([]string, 0, len(s.Images))
	for _, img := range s.Images {
		if img != excluding {
			candidates = append(candidates, img)
		}
	}
	if len(candidates) == 0 {
		candidates = s.Images
	}
	return candidates[s.intn(len(candidates))]
}

// Choose returns raw when it is trusted and a placeholder otherwise.
func (s *Selector) Choose(raw string) string {
	if s.IsTrusted(raw) {
		return strings.TrimSpace(raw)
	}
	return s.PickFallback("")
}

func (s *Selector) intn(n int) int {
	if s.Rand != nil {
		return s.Rand.Intn(n)
	}
	return rand.Intn(n)
}
