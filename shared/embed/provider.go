package embed

import (
	"net/url"
	"regexp"
	"strings"

	"video-gallery/internal/models"
)

// VideoRef is a provider-scoped video identifier extracted from a URL.
type VideoRef struct {
	Provider models.Provider
	ID       string
}

// Matcher recognizes one platform's URL shapes. Match decides whether the
// host belongs to the platform; Extract pulls the video id out of a matching
// URL and reports false when the path carries no id.
type Matcher struct {
	Provider models.Provider
	Match    func(host string) bool
	Extract  func(u *url.URL) (string, bool)
}

var twitchVideoPathRe = regexp.MustCompile(`^/videos/(\d+)(?:/|$)`)

// Matchers is tried in order; the first matcher whose host predicate accepts
// the URL decides the outcome.
var Matchers = []Matcher{
	{
		Provider: models.ProviderYouTube,
		Match: func(host string) bool {
			return strings.Contains(host, "youtu.be") || strings.Contains(host, "youtube.com")
		},
		Extract: extractYouTubeID,
	},
	{
		Provider: models.ProviderTwitch,
		Match: func(host string) bool {
			return strings.Contains(host, "twitch.tv")
		},
		Extract: func(u *url.URL) (string, bool) {
			m := twitchVideoPathRe.FindStringSubmatch(u.EscapedPath())
			if m == nil {
				return "", false
			}
			return m[1], true
		},
	},
}

func extractYouTubeID(u *url.URL) (string, bool) {
	host := strings.ToLower(u.Hostname())
	segments := pathSegments(u.Path)

	if strings.Contains(host, "youtu.be") {
		if len(segments) == 0 {
			return "", false
		}
		return segments[0], true
	}

	if v := u.Query().Get("v"); v != "" {
		return v, true
	}

	if len(segments) >= 2 {
		switch segments[0] {
		case "shorts", "embed", "live":
			return segments[1], true
		}
	}
	return "", false
}

func pathSegments(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// ParseLink parses raw as an absolute URL. Scheme-less input is resolved
// against base, the origin of the page showing the link; with a nil base it
// is rejected.
func ParseLink(raw string, base *url.URL) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	if u.Scheme == "" {
		if base == nil {
			return nil, false
		}
		u = base.ResolveReference(u)
	}
	if u.Host == "" {
		return nil, false
	}
	return u, true
}

// ResolveVideoID classifies raw against the known platform URL shapes and
// returns the canonical video id.
func ResolveVideoID(raw string, base *url.URL) (VideoRef, bool) {
	u, ok := ParseLink(raw, base)
	if !ok {
		return VideoRef{}, false
	}
	return resolveParsed(u)
}

func resolveParsed(u *url.URL) (VideoRef, bool) {
	host := strings.ToLower(u.Hostname())
	for _, m := range Matchers {
		if !m.Match(host) {
			continue
		}
		id, ok := m.Extract(u)
		if !ok {
			return VideoRef{}, false
		}
		return VideoRef{Provider: m.Provider, ID: id}, true
	}
	return VideoRef{}, false
}
