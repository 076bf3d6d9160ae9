package embed

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"video-gallery/internal/models"
)

const (
	youTubeEmbedBase = "https://www.youtube.com/embed/"
	twitchPlayerBase = "https://player.twitch.tv/"
)

// Builder turns a raw link into an iframe source.
type Builder struct {
	// Parent is the hostname the Twitch player is embedded on. When empty the
	// hostname of Base is used.
	Parent string
	// Base is the origin scheme-less links are resolved against.
	Base   *url.URL
	Expiry ExpiryPolicy
	Now    func() time.Time
}

// NewBuilder returns a Builder for pages served from siteURL.
func NewBuilder(siteURL string, policy ExpiryPolicy) *Builder {
	b := &Builder{Expiry: policy, Now: time.Now}
	if u, err := url.Parse(siteURL); err == nil && u.Host != "" {
		b.Base = &url.URL{Scheme: u.Scheme, Host: u.Host}
		b.Parent = u.Hostname()
	}
	return b
}

// WithRequest returns a copy of the builder for a page served to host,
// resolving relative links and the Twitch parent against it.
func (b *Builder) WithRequest(scheme, host string, now time.Time) *Builder {
	c := *b
	c.Base = &url.URL{Scheme: scheme, Host: host}
	c.Parent = c.Base.Hostname()
	c.Now = func() time.Time { return now }
	return &c
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *Builder) parent() string {
	if b.Parent != "" {
		return b.Parent
	}
	if b.Base != nil {
		return b.Base.Hostname()
	}
	return ""
}

// Build resolves link into an EmbedTarget. Anything that cannot be embedded,
// including Twitch replays presumed expired, yields ProviderNone.
func (b *Builder) Build(link, mediaType, date string) models.EmbedTarget {
	none := models.EmbedTarget{Provider: models.ProviderNone}

	u, ok := ParseLink(link, b.Base)
	if !ok {
		return none
	}
	ref, ok := resolveParsed(u)
	if !ok {
		return none
	}
	query := u.Query()

	switch ref.Provider {
	case models.ProviderYouTube:
		raw := query.Get("t")
		if raw == "" {
			raw = query.Get("start")
		}

		var src strings.Builder
		src.WriteString(youTubeEmbedBase)
		src.WriteString(url.PathEscape(ref.ID))
		src.WriteString("?rel=0&modestbranding=1&autoplay=0")
		if seconds, ok := ParseOffsetSeconds(raw); ok {
			src.WriteString("&start=")
			src.WriteString(strconv.Itoa(seconds))
		}
		return models.EmbedTarget{Provider: models.ProviderYouTube, Src: src.String()}

	case models.ProviderTwitch:
		if b.Expiry.IsPresumedExpired(mediaType, date, b.now()) {
			return none
		}
		parent := b.parent()
		if parent == "" {
			// The player refuses to load without a parent.
			return none
		}

		var src strings.Builder
		src.WriteString(twitchPlayerBase)
		src.WriteString("?video=v")
		src.WriteString(ref.ID)
		src.WriteString("&autoplay=false&parent=")
		src.WriteString(url.QueryEscape(parent))
		if seconds, ok := ParseOffsetSeconds(query.Get("t")); ok {
			src.WriteString("&time=")
			src.WriteString(strconv.Itoa(seconds))
			src.WriteString("s")
		}
		return models.EmbedTarget{Provider: models.ProviderTwitch, Src: src.String()}
	}

	return none
}
