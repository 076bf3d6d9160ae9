package models

import (
	"fmt"
	"strings"
	"time"
)

// AuditEntry describes a cached URL whose metadata is incomplete
type AuditEntry struct {
	URL        string   `json:"url"`
	Missing    []string `json:"missing"`
	Source     string   `json:"source"`
	Rows       int      `json:"rows"`
	MediaTypes []string `json:"media_types"`
}

// AuditReport summarizes a metadata audit run for email delivery
type AuditReport struct {
	Date    time.Time     `json:"date"`
	Checked int           `json:"checked"`
	Skipped int           `json:"skipped"`
	Flagged []*AuditEntry `json:"flagged"`
}

// MissingLabel joins the missing fields, e.g. "title, thumbnail".
func (e *AuditEntry) MissingLabel() string {
	return strings.Join(e.Missing, ", ")
}

// MediaTypesLabel joins the linked media types, or NO_ROW when the URL is
// not referenced by any row.
func (e *AuditEntry) MediaTypesLabel() string {
	if len(e.MediaTypes) == 0 {
		return "NO_ROW"
	}
	return strings.Join(e.MediaTypes, ", ")
}

// String formats the entry as a single log line.
func (e *AuditEntry) String() string {
	return fmt.Sprintf("[%s] %s | missing: %s | source: %s | rows: %d",
		e.MediaTypesLabel(), e.URL, e.MissingLabel(), e.Source, e.Rows)
}
