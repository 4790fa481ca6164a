package services

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order. The front end sends HTML5 date and
// datetime-local values; API clients usually send RFC 3339.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses a date or timestamp string in the accepted formats.
// The result is normalized to UTC so stored values compare as instants.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, dateStr); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD or an ISO 8601 timestamp")
}

// parseOptionalDate returns nil for blank input
func parseOptionalDate(dateStr string) (*time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return nil, nil
	}
	parsed, err := ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
