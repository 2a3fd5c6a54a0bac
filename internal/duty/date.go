package duty

import (
	"fmt"
	"strings"
	"time"
)

// Shift dates travel as "dd.mm.yyyyг." — day, month, 4-digit year and the
// Russian year suffix. The suffix is stripped before parsing; rendering
// always re-attaches it. Internally a date is a plain calendar value
// (midnight UTC), so lookups and removals never depend on the literal text.
const (
	dateLayout = "02.01.2006"
	dateSuffix = "г."
)

// ParseDate parses shift date text. The "г." suffix is optional on input.
func ParseDate(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, dateSuffix)
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, text)
	}
	return d, nil
}

// FormatDate renders a calendar date in the canonical wire form.
func FormatDate(d time.Time) string {
	return d.Format(dateLayout) + dateSuffix
}

// DayOf strips the time of day, returning the calendar date of t as
// midnight UTC. All schedule comparisons go through this so that a civil
// date parsed from text and a wall-clock "now" compare cleanly.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
