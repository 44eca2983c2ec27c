// Package reltime renders store timestamps as human-relative display dates.
package reltime

import (
	"strconv"
	"strings"
	"time"
)

// Date layouts the catalog is known to emit when it does not send an epoch.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Format converts a raw catalog timestamp into a relative display date.
// The input may be an epoch-milliseconds numeric string or a date string.
// Anything unparseable passes through unchanged.
func Format(raw string, now time.Time) string {
	if raw == "" || raw == "Unknown" {
		return "Unknown"
	}

	t, ok := parse(raw)
	if !ok {
		return raw
	}

	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff.Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return strconv.Itoa(days) + " days ago"
	case days < 30:
		return strconv.Itoa(days/7) + " weeks ago"
	case days < 365:
		return strconv.Itoa(days/30) + " months ago"
	default:
		return strconv.Itoa(days/365) + " years ago"
	}
}

func parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms), true
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
