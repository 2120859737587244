// Package gametime converts between the free-text game time strings stored
// in the spreadsheet (e.g. "Thu 7:20pm") and real timestamps. The strings
// are re-parsed on every monitor pass; parsing is always relative to a
// reference time because the strings carry no date.
package gametime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dayTimePattern  = regexp.MustCompile(`^(\w{3})\s+(\d{1,2}):(\d{2})\s*([apAP][mM])$`)
	timeOnlyPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([apAP][mM])(\s+\w+)?$`)
	// countdown clocks like "12m 30s" appear while a game is about to start
	countdownPattern = regexp.MustCompile(`^\d+m\s+\d+s$`)
)

// weekday indexes with Monday=0, matching the day abbreviations on the sites.
var dayIndex = map[string]int{
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6,
}

// Format renders a timestamp in the column format both scrapers write.
func Format(t time.Time) string {
	return t.Format("Mon 3:04pm")
}

// HasWeekday reports whether the string names a weekly slot like
// "Thu 7:20pm" rather than a daily time or countdown clock.
func HasWeekday(s string) bool {
	return dayTimePattern.MatchString(strings.TrimSpace(s))
}

// Parse resolves a game time string against time.Now().
func Parse(s string) (time.Time, error) {
	return ParseAt(s, time.Now())
}

// ParseAt resolves a game time string relative to a reference time.
//
// Supported forms:
//   - "Thu 7:20pm"  next occurrence of that weekday/time (same-day times
//     already past roll to next week)
//   - "7:15pm" / "7:15pm CDT"  today, or tomorrow if already past
//   - "12m 30s"  countdown clock, treated as starting now
func ParseAt(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty game time")
	}

	if countdownPattern.MatchString(s) {
		return now, nil
	}

	if m := dayTimePattern.FindStringSubmatch(s); m != nil {
		dayNum, ok := dayIndex[strings.ToLower(m[1])]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown day abbreviation %q", m[1])
		}
		hour, minute, err := clockParts(m[2], m[3], m[4])
		if err != nil {
			return time.Time{}, err
		}

		todayNum := (int(now.Weekday()) + 6) % 7 // Monday=0
		daysAhead := ((dayNum - todayNum) % 7 + 7) % 7
		if daysAhead == 0 && (hour < now.Hour() || (hour == now.Hour() && minute <= now.Minute())) {
			daysAhead = 7
		}

		day := now.AddDate(0, 0, daysAhead)
		return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()), nil
	}

	if m := timeOnlyPattern.FindStringSubmatch(s); m != nil {
		hour, minute, err := clockParts(m[1], m[2], m[3])
		if err != nil {
			return time.Time{}, err
		}
		t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if t.Before(now) {
			t = t.AddDate(0, 0, 1)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized game time %q", s)
}

func clockParts(hourStr, minuteStr, ampm string) (int, int, error) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 1 || hour > 12 {
		return 0, 0, fmt.Errorf("bad hour %q", hourStr)
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil || minute > 59 {
		return 0, 0, fmt.Errorf("bad minute %q", minuteStr)
	}

	switch strings.ToLower(ampm) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute, nil
}
