package gametime

import (
	"testing"
	"time"
)

// reference: Wednesday 2025-09-10 14:30 local
var wednesday = time.Date(2025, 9, 10, 14, 30, 0, 0, time.Local)

func TestParseAtDayTime(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		// tomorrow evening
		{"Thu 7:20pm", time.Date(2025, 9, 11, 19, 20, 0, 0, time.Local)},
		// upcoming Sunday afternoon
		{"Sun 1:00pm", time.Date(2025, 9, 14, 13, 0, 0, 0, time.Local)},
		// same day, later than now
		{"Wed 8:15pm", time.Date(2025, 9, 10, 20, 15, 0, 0, time.Local)},
		// same day but already past -> next week
		{"Wed 1:00pm", time.Date(2025, 9, 17, 13, 0, 0, 0, time.Local)},
		// noon and midnight edge cases
		{"Fri 12:00pm", time.Date(2025, 9, 12, 12, 0, 0, 0, time.Local)},
		{"Fri 12:30am", time.Date(2025, 9, 12, 0, 30, 0, 0, time.Local)},
		// uppercase meridiem as Underdog renders it
		{"Thu 07:15PM", time.Date(2025, 9, 11, 19, 15, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAt(tt.input, wednesday)
			if err != nil {
				t.Fatalf("ParseAt(%q) returned error: %v", tt.input, err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("ParseAt(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseAtTimeOnly(t *testing.T) {
	// later today
	got, err := ParseAt("7:15pm", wednesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := time.Date(2025, 9, 10, 19, 15, 0, 0, time.Local)
	if !got.Equal(expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}

	// already past today -> tomorrow
	got, err = ParseAt("9:00am", wednesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected = time.Date(2025, 9, 11, 9, 0, 0, 0, time.Local)
	if !got.Equal(expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}

	// trailing timezone label is ignored
	got, err = ParseAt("7:15pm CDT", wednesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected = time.Date(2025, 9, 10, 19, 15, 0, 0, time.Local)
	if !got.Equal(expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

func TestParseAtCountdown(t *testing.T) {
	got, err := ParseAt("12m 30s", wednesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(wednesday) {
		t.Errorf("countdown should resolve to the reference time, got %v", got)
	}
}

func TestParseAtRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "TBD", "Thursday 7:20pm", "25:00pm", "Xyz 7:20pm", "Thu 7:60pm"} {
		if _, err := ParseAt(input, wednesday); err == nil {
			t.Errorf("ParseAt(%q) should fail", input)
		}
	}
}

func TestHasWeekday(t *testing.T) {
	for input, want := range map[string]bool{
		"Thu 7:20pm": true,
		"Wed 1:00pm": true,
		"7:15pm":     false,
		"9:00am":     false,
		"12m 30s":    false,
		"garbage":    false,
	} {
		if got := HasWeekday(input); got != want {
			t.Errorf("HasWeekday(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestFormatRoundTrips(t *testing.T) {
	kickoff := time.Date(2025, 9, 11, 19, 20, 0, 0, time.Local)
	s := Format(kickoff)
	if s != "Thu 7:20pm" {
		t.Fatalf("Format = %q, expected %q", s, "Thu 7:20pm")
	}
	got, err := ParseAt(s, wednesday)
	if err != nil {
		t.Fatalf("round trip parse failed: %v", err)
	}
	if !got.Equal(kickoff) {
		t.Errorf("round trip = %v, expected %v", got, kickoff)
	}
}
