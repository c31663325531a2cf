package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestNextTradingDay(t *testing.T) {
    cases := []struct {
        day  time.Time
        want time.Weekday
    }{
        {time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), time.Tuesday},   // Monday
        {time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), time.Monday},   // Friday skips weekend
        {time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), time.Monday},   // Saturday
        {time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), time.Monday},   // Sunday
    }
    for _, c := range cases {
        got := NextTradingDay(c.day)
        if got.Weekday() != c.want {
            t.Fatalf("NextTradingDay(%v) = %v, want weekday %v", c.day, got, c.want)
        }
        if !got.After(c.day) {
            t.Fatalf("NextTradingDay must advance: %v -> %v", c.day, got)
        }
    }
}