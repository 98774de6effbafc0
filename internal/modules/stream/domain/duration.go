package domain

import (
	"regexp"
	"strconv"
)

var durationPattern = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)(?:\.\d+)?S)?)?$`)

// ParseDuration converts an ISO-8601 duration such as "PT1H2M3S" or "P1DT4M"
// into whole seconds. The second result is false for empty or malformed input.
func ParseDuration(s string) (int64, bool) {
	if s == "" || s == "P" || s == "PT" {
		return 0, false
	}
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	units := []int64{7 * 24 * 3600, 24 * 3600, 3600, 60, 1}
	var total int64
	for idx, unit := range units {
		part := m[idx+1]
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, false
		}
		total += n * unit
	}
	return total, true
}
