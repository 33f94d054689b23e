package nlu

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RuleExtractor recognizes common date/time phrasings locally, without a
// model server. Missing fields default the way a fuzzy parser would: a bare
// time lands on today's date, a bare date at midnight.
type RuleExtractor struct {
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewRuleExtractor builds an extractor using the wall clock.
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{Now: time.Now}
}

var _ Extractor = (*RuleExtractor)(nil)

var (
	isoDateRe    = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashDateRe  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}))?\b`)
	clockRe      = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)?\b`)
	hourMeridiem = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)\b`)

	weekdays = map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
)

// Extract scans text for a date and a clock time and returns the normalized
// "2006-01-02 15:04" value. found is false when neither is present.
func (e *RuleExtractor) Extract(_ context.Context, text string) (string, bool, error) {
	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}
	lower := strings.ToLower(text)

	date, dateFound := e.findDate(lower, now)
	hour, minute, timeFound := findClockTime(lower)

	if !dateFound && !timeFound {
		return "", false, nil
	}
	if !dateFound {
		date = now
	}
	if !timeFound {
		hour, minute = 0, 0
	}

	result := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, now.Location())
	return result.Format("2006-01-02 15:04"), true, nil
}

func (e *RuleExtractor) findDate(lower string, now time.Time) (time.Time, bool) {
	if m := isoDateRe.FindStringSubmatch(lower); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if validDate(month, day) {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location()), true
		}
	}
	if m := slashDateRe.FindStringSubmatch(lower); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if validDate(month, day) {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location()), true
		}
	}
	if strings.Contains(lower, "day after tomorrow") {
		return now.AddDate(0, 0, 2), true
	}
	if strings.Contains(lower, "tomorrow") {
		return now.AddDate(0, 0, 1), true
	}
	if strings.Contains(lower, "today") || strings.Contains(lower, "tonight") {
		return now, true
	}
	for name, wd := range weekdays {
		if strings.Contains(lower, name) {
			days := (int(wd) - int(now.Weekday()) + 7) % 7
			if days == 0 {
				days = 7
			}
			return now.AddDate(0, 0, days), true
		}
	}
	return time.Time{}, false
}

func findClockTime(lower string) (hour, minute int, found bool) {
	if strings.Contains(lower, "noon") {
		return 12, 0, true
	}
	if strings.Contains(lower, "midnight") {
		return 0, 0, true
	}
	if m := clockRe.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h <= 23 && min <= 59 {
			return applyMeridiem(h, m[3]), min, true
		}
	}
	if m := hourMeridiem.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h >= 1 && h <= 12 {
			return applyMeridiem(h, m[2]), 0, true
		}
	}
	return 0, 0, false
}

func applyMeridiem(hour int, meridiem string) int {
	switch strings.ToLower(meridiem) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

func validDate(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// Sentinel is the downstream stand-in for "no date/time extracted".
const Sentinel = "Not extracted"

// ExtractOrSentinel runs the extractor and maps absence to the sentinel
// value. Genuine extractor failures still surface as errors; only "nothing
// found" degrades to the sentinel.
func ExtractOrSentinel(ctx context.Context, e Extractor, text string) (string, error) {
	if e == nil {
		return Sentinel, nil
	}
	value, found, err := e.Extract(ctx, text)
	if err != nil {
		return "", err
	}
	if !found {
		return Sentinel, nil
	}
	return value, nil
}
