package models

import (
	"strconv"
	"strings"
	"time"
)

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so an identifier containing ':' cannot address a neighbouring bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// WindowStart truncates now to the start of its fixed window.
func WindowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}

// IPKey names the counter for ip in the window starting at start,
// e.g. "rl:ip:203.0.113.7:1767225600".
func IPKey(ip string, start time.Time) string {
	return "rl:ip:" + SanitizeKeySegment(ip) + ":" + strconv.FormatInt(start.Unix(), 10)
}
