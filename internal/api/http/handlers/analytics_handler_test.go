package handlers

import (
	"testing"
	"time"
)

func TestParseTimeAcceptsDateOnly(t *testing.T) {
	got := parseTime("2024-01-01")
	if got == nil {
		t.Fatal("date-only value rejected")
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("parsed %v, want %v", got, want)
	}
}

func TestParseTimeAcceptsRFC3339(t *testing.T) {
	got := parseTime("2024-01-01T15:04:05Z")
	if got == nil {
		t.Fatal("RFC3339 value rejected")
	}
	if got.Hour() != 15 {
		t.Fatalf("parsed %v, want 15:04:05", got)
	}
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	if got := parseTime("not-a-date"); got != nil {
		t.Fatalf("garbage parsed to %v", got)
	}
	if got := parseTime(""); got != nil {
		t.Fatalf("empty string parsed to %v", got)
	}
}
