package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// relativeDays lists relative-day markers in priority order. The first
// marker contained in the phrase wins.
var relativeDays = []struct {
	marker string
	days   int
}{
	{"明天", 1},
	{"后天", 2},
	{"下周", 7},
}

// Absolute date patterns, tried in order after relative markers.
var (
	monthDayRe = regexp.MustCompile(`(\d{1,2})月(\d{1,2})[日号]`)
	fullDateRe = regexp.MustCompile(`(\d{4})[-年](\d{1,2})[-月](\d{1,2})`)
	clockRe    = regexp.MustCompile(`(\d{1,2})[点:：](\d{0,2})`)
)

// ParseDateTime converts a Chinese date/time phrase ("明天下午2点",
// "6月15日14:00", "2025-06-15 10:30") into a concrete time relative to now.
// ok is false when the phrase contains no recognizable date.
func ParseDateTime(phrase string, now time.Time) (time.Time, bool) {
	for _, rel := range relativeDays {
		if strings.Contains(phrase, rel.marker) {
			return parseClock(phrase, now.AddDate(0, 0, rel.days)), true
		}
	}

	if m := monthDayRe.FindStringSubmatch(phrase); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		// The year is always now's year: a month/day already behind us is
		// not rolled over into next year.
		base := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
		return parseClock(phrase, base), true
	}

	if m := fullDateRe.FindStringSubmatch(phrase); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		base := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
		return parseClock(phrase, base), true
	}

	return time.Time{}, false
}

// parseClock resolves the time-of-day fragment of the phrase against the
// base date. Without a clock token the time defaults to 10:00. 下午/晚上
// shift hours below 12 into the afternoon; 上午/早上 map 12 to midnight.
func parseClock(phrase string, base time.Time) time.Time {
	hour, minute := 10, 0

	if m := clockRe.FindStringSubmatch(phrase); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
	}

	if strings.Contains(phrase, "下午") || strings.Contains(phrase, "晚上") {
		if hour < 12 {
			hour += 12
		}
	} else if strings.Contains(phrase, "上午") || strings.Contains(phrase, "早上") {
		if hour == 12 {
			hour = 0
		}
	}

	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
}
