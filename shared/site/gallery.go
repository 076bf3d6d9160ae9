package site

import (
	"errors"
	"strings"

	"video-gallery/internal/models"
	"video-gallery/shared/months"
)

// DefaultSiteURL is used when no site URL is configured.
const DefaultSiteURL = "https://etho.clooney.io"

// ErrNoMonths is returned when a gallery has nothing to show.
var ErrNoMonths = errors.New("gallery has no months")

// NormalizeSiteURL trims raw, falls back to DefaultSiteURL when it is empty
// and drops one trailing slash.
func NormalizeSiteURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultSiteURL
	}
	return strings.TrimSuffix(s, "/")
}

// Gallery is an immutable month-bucketed view of the video records.
type Gallery struct {
	groups []models.MonthGroup
	keys   []string
	index  map[string]int
}

// NewGallery buckets records by month.
func NewGallery(records []models.VideoRecord) *Gallery {
	groups := months.Bucket(records)
	g := &Gallery{
		groups: groups,
		keys:   months.Keys(groups),
		index:  make(map[string]int, len(groups)),
	}
	for i, group := range groups {
		g.index[group.Key] = i
	}
	return g
}

// Groups returns the month groups, newest first.
func (g *Gallery) Groups() []models.MonthGroup {
	return g.groups
}

// Keys returns the available month keys, newest first.
func (g *Gallery) Keys() []string {
	return g.keys
}

// Month looks up a month group by key.
func (g *Gallery) Month(key string) (models.MonthGroup, bool) {
	i, ok := g.index[key]
	if !ok {
		return models.MonthGroup{}, false
	}
	return g.groups[i], true
}

// Newest returns the most recent month key.
func (g *Gallery) Newest() (string, error) {
	if len(g.keys) == 0 {
		return "", ErrNoMonths
	}
	return g.keys[0], nil
}

// Resolve maps a requested month onto an available one.
func (g *Gallery) Resolve(selected string) (string, bool) {
	return months.ResolveTarget(selected, g.keys)
}

// VideoCount returns the number of records across all months.
func (g *Gallery) VideoCount() int {
	n := 0
	for _, group := range g.groups {
		n += len(group.Videos)
	}
	return n
}
