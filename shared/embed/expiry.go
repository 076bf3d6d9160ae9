package embed

import (
	"strings"
	"time"
)

// VODMediaType marks a time-limited video-on-demand replay.
const VODMediaType = "VOD⏳"

// ExpiryPolicy decides when a time-limited replay is presumed gone.
type ExpiryPolicy struct {
	MediaType string // only this exact tag can expire
	Months    int    // calendar months after publication
}

// DefaultExpiryPolicy matches the platforms' two month replay retention.
var DefaultExpiryPolicy = ExpiryPolicy{MediaType: VODMediaType, Months: 2}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
}

// ParseDate parses an ISO-8601 calendar date or timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExpiresAt returns the moment a source of the given media type, published
// on date, becomes presumed expired. It reports false when the media type
// never expires or the date is unparseable.
func (p ExpiryPolicy) ExpiresAt(mediaType, date string) (time.Time, bool) {
	if mediaType != p.MediaType {
		return time.Time{}, false
	}
	published, ok := ParseDate(date)
	if !ok {
		return time.Time{}, false
	}
	return published.AddDate(0, p.Months, 0), true
}

// IsPresumedExpired reports whether a source of the given media type,
// published on date, is likely unavailable at asOf. Unparseable dates are
// never expired.
func (p ExpiryPolicy) IsPresumedExpired(mediaType, date string, asOf time.Time) bool {
	threshold, ok := p.ExpiresAt(mediaType, date)
	if !ok {
		return false
	}
	return !asOf.Before(threshold)
}
