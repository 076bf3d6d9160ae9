package records

import (
	"log"
	"os"
	"strings"

	"video-gallery/internal/models"
)

// Load reads the enriched row file at path. A missing or malformed file
// yields no records; the gallery is still built.
func Load(path string) []models.VideoRecord {
	rows, err := ReadRows(path)
	if err != nil {
		log.Printf("Warning: no video records loaded from %s: %v", path, err)
		return []models.VideoRecord{}
	}

	videos := make([]models.VideoRecord, 0, len(rows))
	for _, row := range rows {
		if !row.IsObject() {
			continue
		}
		videos = append(videos, FromRow(row))
	}
	return videos
}

// FromRow maps spreadsheet columns onto a VideoRecord.
func FromRow(row Row) models.VideoRecord {
	return models.VideoRecord{
		Date:             row.Get(ColumnDate),
		MediaType:        row.Get(ColumnMediaType),
		ContentType:      row.Get(ColumnContentType),
		Creator:          strings.TrimSpace(row.Get(ColumnCreator)),
		Notes:            row.Get(ColumnNotes),
		PrimaryLink:      row.Get(ColumnPrimaryLink),
		PrimaryThumbnail: row.Get(ColumnPrimaryThumb),
		PrimaryTitle:     row.Get(ColumnPrimaryTitle),
		SecondaryLink:    row.Get(ColumnSecondaryLink),
	}
}

// ResolvePath returns configured when set. Otherwise it returns the first
// candidate that exists on disk, or the first candidate when none do.
func ResolvePath(configured string, candidates ...string) string {
	if configured != "" {
		return configured
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}
