package months

import "sort"

// ResolveTarget picks the page to show for a requested month. An exact match
// wins; otherwise the request is clamped to the newest or oldest available
// month, and anything in between lands on the nearest month at or before it.
func ResolveTarget(selected string, available []string) (string, bool) {
	if len(available) == 0 {
		return "", false
	}
	for _, key := range available {
		if key == selected {
			return key, true
		}
	}

	sorted := make([]string, len(available))
	copy(sorted, available)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	newest, oldest := sorted[0], sorted[len(sorted)-1]
	if selected >= newest {
		return newest, true
	}
	if selected <= oldest {
		return oldest, true
	}
	for _, key := range sorted {
		if key <= selected {
			return key, true
		}
	}
	return oldest, true
}

// Span lists every month key from the oldest to the newest available month,
// including months with no videos. Keys that do not parse are ignored.
func Span(available []string) []string {
	var minYear, minMonth, maxYear, maxMonth int
	found := false
	for _, key := range available {
		year, month, ok := ParseMonthKey(key)
		if !ok {
			continue
		}
		if !found || year*12+month < minYear*12+minMonth {
			minYear, minMonth = year, month
		}
		if !found || year*12+month > maxYear*12+maxMonth {
			maxYear, maxMonth = year, month
		}
		found = true
	}
	if !found {
		return nil
	}

	var span []string
	for y, m := minYear, minMonth; y*12+m <= maxYear*12+maxMonth; {
		span = append(span, Key(y, m))
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return span
}
