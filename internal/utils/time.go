package utils

import "time"

// TimestampLayout is the wire format for ticket timestamps: UTC with
// millisecond precision and a literal Z, the format the stored collections
// have always carried.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// DateLayout is the caller-supplied departure date format.
const DateLayout = "2006-01-02"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
