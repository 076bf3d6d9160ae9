package embed

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	digitsRe = regexp.MustCompile(`^\d+$`)
	// Each unit is optional but they must appear in h, m, s order.
	compositeOffsetRe = regexp.MustCompile(`(?i)^(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)
)

// ParseOffsetSeconds converts a start-time string such as "90", "90s" or
// "1h2m3s" into a number of seconds. It reports false for empty, malformed
// or zero offsets, so callers never emit a redundant start parameter.
func ParseOffsetSeconds(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	if digitsRe.MatchString(raw) {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds == 0 {
			return 0, false
		}
		return seconds, true
	}

	matches := compositeOffsetRe.FindStringSubmatch(raw)
	if matches == nil {
		return 0, false
	}

	var total int
	var matched bool
	for i, unit := range []int{3600, 60, 1} {
		segment := matches[i+1]
		if segment == "" {
			continue
		}
		n, err := strconv.Atoi(segment)
		if err != nil {
			return 0, false
		}
		matched = true
		total += n * unit
	}

	if !matched || total == 0 {
		return 0, false
	}
	return total, true
}
