package handlers

import (
	"strconv"
	"strings"
	"time"
)

// TimestampToDate normalizes a store timestamp. Absent or zero values
// fall back to the run's reference date; the client app has habits
// with missing dates and the job treats those as due today on purpose.
func TimestampToDate(ts *time.Time, today time.Time) time.Time {
	if ts == nil || ts.IsZero() {
		return today
	}
	return *ts
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// ParseNum coerces a stored numeric string; malformed input yields def.
func ParseNum(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// ReminderOffset parses a habit reminder like "10 minute" or "1 hour"
// into the duration before start. ok is false when the leading number
// is malformed; such rows are skipped, not errored.
func ReminderOffset(reminder string) (time.Duration, bool) {
	parts := strings.Fields(reminder)
	if len(parts) < 2 {
		return 0, false
	}

	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}

	switch parts[1] {
	case "minute":
		return time.Duration(n) * time.Minute, true
	case "hour":
		return time.Duration(n) * time.Hour, true
	}
	return 0, false
}
