package enricher

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"video-gallery/internal/models"
	"video-gallery/shared/embed"
	"video-gallery/shared/records"
)

// auditDateColumns are consulted in order for a row's publication date.
var auditDateColumns = []string{records.ColumnDate, records.ColumnAddedDate, "date"}

// Audit flags cached URLs that are missing a title or thumbnail. Entries the
// Data API reported as gone are skipped, as are Twitch URLs whose every
// linked row is presumed expired under policy.
func Audit(rows []records.Row, cache map[string]models.VideoInfo, linkFields []string, policy embed.ExpiryPolicy, now time.Time) *models.AuditReport {
	linked := make(map[string][]records.Row)
	for _, row := range rows {
		if !row.IsObject() {
			continue
		}
		for _, field := range linkFields {
			if u := NormalizeURL(row.Get(field)); u != "" {
				linked[u] = append(linked[u], row)
			}
		}
	}

	report := &models.AuditReport{
		Date:    now,
		Checked: len(cache),
		Flagged: []*models.AuditEntry{},
	}

	for u, info := range cache {
		if info.Source == models.SourceYouTubeUnavailable {
			report.Skipped++
			continue
		}

		linkedRows := linked[u]
		if len(linkedRows) > 0 && allExpiredTwitch(u, linkedRows, policy, now) {
			report.Skipped++
			continue
		}

		var missing []string
		if strings.TrimSpace(info.Title) == "" {
			missing = append(missing, "title")
		}
		if strings.TrimSpace(info.Thumbnail) == "" {
			missing = append(missing, "thumbnail")
		}
		if len(missing) == 0 {
			continue
		}

		report.Flagged = append(report.Flagged, &models.AuditEntry{
			URL:        u,
			Missing:    missing,
			Source:     info.Source,
			Rows:       len(linkedRows),
			MediaTypes: mediaTypes(linkedRows),
		})
	}

	sort.Slice(report.Flagged, func(i, j int) bool {
		return report.Flagged[i].URL < report.Flagged[j].URL
	})
	return report
}

func allExpiredTwitch(link string, rows []records.Row, policy embed.ExpiryPolicy, now time.Time) bool {
	u, err := url.Parse(link)
	if err != nil || !strings.Contains(strings.ToLower(u.Hostname()), "twitch.tv") {
		return false
	}
	for _, row := range rows {
		mediaType := strings.TrimSpace(row.Get(records.ColumnMediaType))
		if !policy.IsPresumedExpired(mediaType, rowDate(row), now) {
			return false
		}
	}
	return true
}

// rowDate returns the first parseable date column of row.
func rowDate(row records.Row) string {
	for _, column := range auditDateColumns {
		value := row.Get(column)
		if _, ok := embed.ParseDate(value); ok {
			return value
		}
	}
	return ""
}

func mediaTypes(rows []records.Row) []string {
	seen := make(map[string]bool)
	var types []string
	for _, row := range rows {
		t := strings.TrimSpace(row.Get(records.ColumnMediaType))
		if t != "" && !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types
}
