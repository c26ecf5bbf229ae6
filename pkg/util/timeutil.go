package util

import "time"

// TimestampLayout is the ISO-8601 layout used for persisted timestamps.
const TimestampLayout = time.RFC3339Nano

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
