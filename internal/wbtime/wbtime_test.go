package wbtime

import (
	"testing"
	"time"
)

func TestParseAppliesVendorOffset(t *testing.T) {
	got, err := Parse("2024-03-01T10:30:00Z")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Parse = %v, want %v", got, want)
	}
}

func TestToVendorMatchesParseShift(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	parsed, err := Parse("2024-03-01T10:30:00Z")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !ToVendor(at).Equal(parsed) {
		t.Errorf("ToVendor(%v) = %v, want the frame Parse produces: %v", at, ToVendor(at), parsed)
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, s := range []string{"", "2024-03-01 10:30:00", "yesterday"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q): expected error", s)
		}
	}
}

func TestFormatAPIDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-01T10:30:00Z", "2024-03-01 13:30"},
		{"2023-12-31T22:15:08Z", "2024-01-01 01:15"}, // shift crosses midnight and year
		{"not-a-date", "not-a-date"},                 // passed through untouched
	}

	for _, tt := range tests {
		if got := FormatAPIDate(tt.in); got != tt.want {
			t.Errorf("FormatAPIDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWithinWorkingHours(t *testing.T) {
	day := func(hour, min int) time.Time {
		return time.Date(2024, 3, 1, hour, min, 0, 0, time.UTC)
	}

	tests := []struct {
		at   time.Time
		want bool
	}{
		{day(8, 59), false},
		{day(9, 0), true},
		{day(14, 30), true},
		{day(21, 0), true},
		{day(21, 1), false},
		{day(0, 0), false},
	}

	for _, tt := range tests {
		if got := WithinWorkingHours(tt.at); got != tt.want {
			t.Errorf("WithinWorkingHours(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
}
