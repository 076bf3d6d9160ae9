package months

import (
	"fmt"
	"sort"

	"video-gallery/internal/models"
)

// ParseMonthKey extracts the year and month from the first seven characters
// of a date string. The separator between year and month is not checked.
func ParseMonthKey(date string) (year, month int, ok bool) {
	if len(date) < 7 {
		return 0, 0, false
	}
	year, ok = atoi(date[0:4])
	if !ok || year == 0 {
		return 0, 0, false
	}
	month, ok = atoi(date[5:7])
	if !ok || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

func atoi(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// Key formats a year and month as a zero-padded YYYY-MM key.
func Key(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// Bucket groups records by publication month. Records keep their input order
// inside a group, groups are returned newest first, and records without a
// usable date are dropped.
func Bucket(records []models.VideoRecord) []models.MonthGroup {
	index := make(map[string]int)
	var groups []models.MonthGroup

	for _, record := range records {
		year, month, ok := ParseMonthKey(record.Date)
		if !ok {
			continue
		}
		key := Key(year, month)
		i, exists := index[key]
		if !exists {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.MonthGroup{Key: key, Year: year, Month: month})
		}
		groups[i].Videos = append(groups[i].Videos, record)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key > groups[j].Key
	})
	return groups
}

// Keys returns the month keys of groups in order.
func Keys(groups []models.MonthGroup) []string {
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	return keys
}
