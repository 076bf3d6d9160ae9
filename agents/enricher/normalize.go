package enricher

import (
	"net/url"
	"strings"
)

// trackingParams never change which video a link points at.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"si":           true,
	"feature":      true,
	"t":            true,
}

// NormalizeURL canonicalizes a link so equivalent links share one cache key.
// Unparseable input is returned trimmed.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if !strings.Contains(raw, "://") && !strings.HasPrefix(raw, "/") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	u.RawFragment = ""

	if strings.EqualFold(u.Hostname(), "youtu.be") {
		id := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)[0]
		if id != "" {
			return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
		}
	}

	query := u.Query()
	for key, values := range query {
		if trackingParams[key] {
			delete(query, key)
			continue
		}
		kept := values[:0]
		for _, v := range values {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			delete(query, key)
		} else {
			query[key] = kept
		}
	}
	u.RawQuery = query.Encode()
	u.ForceQuery = false

	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}

	return u.String()
}
