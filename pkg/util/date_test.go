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

func TestParseTimeCalendarLayout(t *testing.T) {
	got, ok := ParseTime("2025-03-12 12:30:00")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2025, 3, 12, 12, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", got.Location())
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

func TestParseTimeInvalid(t *testing.T) {
	if _, ok := ParseTime("next tuesday"); ok {
		t.Fatalf("expected failure")
	}
	if _, ok := ParseTime(""); ok {
		t.Fatalf("expected failure on empty")
	}
}

func TestStartOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 23:30 UTC on the 11th is already the 12th in Madrid (UTC+1 in March).
	in := time.Date(2025, 3, 11, 23, 30, 0, 0, time.UTC)
	got := StartOfDay(in, loc)
	if got.Day() != 12 || got.Hour() != 0 {
		t.Fatalf("unexpected start of day %v", got)
	}
}
