package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Layouts tried in order. A layout without a year resolves to the reference clock's year.
var (
	layoutsWithYear = []string{
		"Monday Jan 2 2006 3:04 PM",
		"Mon Jan 2 2006 3:04 PM",
		"Monday Jan 2 3:04 PM 2006",
		"Mon Jan 2 3:04 PM 2006",
	}
	layoutsWithoutYear = []string{
		"Monday Jan 2 3:04 PM",
		"Mon Jan 2 3:04 PM",
	}
)

// ParseOccursAt resolves a record's date and time strings into a point in time in now's location.
// A missing year is taken from now.
func ParseOccursAt(date, clock string, now time.Time) (time.Time, error) {
	raw := normalize(date + " " + clock)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date/time")
	}

	loc := now.Location()

	for _, layout := range layoutsWithYear {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}

	var lastErr error
	for _, layout := range layoutsWithoutYear {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err != nil {
			lastErr = err
			continue
		}
		occurs := time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
		// Feb 29 parses against the leap reference year and would roll into March
		if occurs.Month() != t.Month() || occurs.Day() != t.Day() {
			return time.Time{}, fmt.Errorf("date %q does not exist in %d", raw, now.Year())
		}
		return occurs, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date/time %q: %w", raw, lastErr)
}

// normalize collapses whitespace and upper-cases the text so am/pm markers match the layouts.
// Month and weekday names are matched case-insensitively by the time package.
func normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
