package utils

import "time"

// TimestampLayout is the date format the TimeCamp API expects for timer
// and entry timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp formats a time in the API's expected local format.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// FormatDate formats a time as an API date (YYYY-MM-DD).
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
