package util

import (
    "strconv"
    "time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// NextTradingDay returns the next calendar day after t, skipping Saturday
// and Sunday. Exchange holidays are not modeled.
func NextTradingDay(t time.Time) time.Time {
    next := t.AddDate(0, 0, 1)
    for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
        next = next.AddDate(0, 0, 1)
    }
    return next
}

// No extra helpers here; use strconv where needed.