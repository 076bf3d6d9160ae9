package site

import (
	"fmt"
	"io"
	"time"

	"video-gallery/internal/models"
	"video-gallery/shared/embed"
	"video-gallery/shared/thumbnail"
)

// Options describes the site as a whole.
type Options struct {
	Name            string
	Description     string
	URL             string
	SocialImagePath string
}

// Renderer writes gallery pages.
type Renderer struct {
	Site       Options
	Builder    *embed.Builder
	Thumbnails *thumbnail.Selector
}

type monthLink struct {
	Key     string
	Href    string
	Label   string
	Year    int
	Month   int
	Current bool
}

type videoCard struct {
	Link          string
	Title         string
	Thumbnail     string
	Fallback      string
	Date          string
	Creator       string
	MediaType     string
	ContentType   string
	Notes         string
	SecondaryLink string
	Embed         models.EmbedTarget
	// Expires is the RFC 3339 moment a time-limited embed stops being
	// offered. Empty when the embed does not expire.
	Expires string
}

type monthPage struct {
	Site         Options
	CanonicalURL string
	SocialImage  string
	Key          string
	Label        string
	Year         int
	Month        int
	Newest       string
	Oldest       string
	Months       []monthLink
	MonthKeys    []string
	Cards        []videoCard
	Fallbacks    []string
	ThemeKey     string
}

// MonthPath returns the page path of a month.
func MonthPath(key string) string {
	return "/months/" + key + "/"
}

// GoPath returns the redirect path that resolves a requested month.
func GoPath(key string) string {
	return "/go/" + key + "/"
}

// MonthLabel formats a year and month as "March 2024".
func MonthLabel(year, month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%04d-%02d", year, month)
	}
	return fmt.Sprintf("%s %d", time.Month(month), year)
}

// RenderMonth writes the page for the month key. An empty key renders the
// page shown when the gallery has no videos. A nil builder uses the
// renderer's own.
func (r *Renderer) RenderMonth(w io.Writer, g *Gallery, key string, builder *embed.Builder) error {
	if builder == nil {
		builder = r.Builder
	}

	page := monthPage{
		Site:         r.Site,
		CanonicalURL: r.Site.URL + "/",
		MonthKeys:    []string{},
		Fallbacks:    []string{},
		ThemeKey:     ThemeStorageKey,
	}
	if r.Thumbnails != nil && len(r.Thumbnails.Images) > 0 {
		page.Fallbacks = r.Thumbnails.Images
	}
	if r.Site.SocialImagePath != "" {
		page.SocialImage = r.Site.URL + r.Site.SocialImagePath
	}

	keys := g.Keys()
	if len(keys) > 0 {
		page.Newest, page.Oldest = keys[0], keys[len(keys)-1]
		page.MonthKeys = keys
	}
	for _, group := range g.Groups() {
		page.Months = append(page.Months, monthLink{
			Key:     group.Key,
			Href:    MonthPath(group.Key),
			Label:   MonthLabel(group.Year, group.Month),
			Year:    group.Year,
			Month:   group.Month,
			Current: group.Key == key,
		})
	}

	if key != "" {
		group, ok := g.Month(key)
		if !ok {
			return fmt.Errorf("unknown month %q", key)
		}
		page.Key = group.Key
		page.Year, page.Month = group.Year, group.Month
		page.Label = MonthLabel(group.Year, group.Month)
		page.CanonicalURL = r.Site.URL + MonthPath(group.Key)
		for _, video := range group.Videos {
			page.Cards = append(page.Cards, r.card(video, builder))
		}
	}

	if err := monthPageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render month %q: %w", key, err)
	}
	return nil
}

// RenderRedirect writes a page that sends the browser to the target month.
func (r *Renderer) RenderRedirect(w io.Writer, target string) error {
	data := struct {
		Key  string
		Href string
	}{Key: target, Href: MonthPath(target)}
	if err := redirectTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render redirect to %q: %w", target, err)
	}
	return nil
}

func (r *Renderer) card(video models.VideoRecord, builder *embed.Builder) videoCard {
	link := video.PrimaryLink
	if link == "" {
		link = video.SecondaryLink
	}

	title := video.PrimaryTitle
	if title == "" {
		title = video.Creator
	}
	if title == "" {
		title = link
	}

	c := videoCard{
		Link:        link,
		Title:       title,
		Date:        video.Date,
		Creator:     video.Creator,
		MediaType:   video.MediaType,
		ContentType: video.ContentType,
		Notes:       video.Notes,
		Embed:       models.EmbedTarget{Provider: models.ProviderNone},
	}
	if video.SecondaryLink != link {
		c.SecondaryLink = video.SecondaryLink
	}
	if builder != nil {
		c.Embed = builder.Build(link, video.MediaType, video.Date)
		if c.Embed.Provider == models.ProviderTwitch {
			if expires, ok := builder.Expiry.ExpiresAt(video.MediaType, video.Date); ok {
				c.Expires = expires.UTC().Format(time.RFC3339)
			}
		}
	}

	if r.Thumbnails != nil {
		c.Thumbnail = r.Thumbnails.Choose(video.PrimaryThumbnail)
		c.Fallback = r.Thumbnails.PickFallback(c.Thumbnail)
		if c.Fallback == c.Thumbnail {
			c.Fallback = ""
		}
	} else {
		c.Thumbnail = video.PrimaryThumbnail
	}
	return c
}
