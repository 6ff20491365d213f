package session

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is how session times are stored and exported: UTC,
// second precision, no zone suffix.
const TimestampLayout = "2006-01-02T15:04:05"

var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a stored timestamp. Values without a zone are UTC.
// It accepts an optional fractional part, a trailing Z or offset, and the
// space-separated form SQLite's datetime('now') produces.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
