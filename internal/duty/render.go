package duty

import (
	"fmt"
	"strings"
	"time"

	"dutybot/pkg/tgui"
)

// DaysLeft returns the number of whole calendar days between now and d.
// Zero means d is today; negative means d has passed.
func DaysLeft(d, now time.Time) int {
	return int(DayOf(d).Sub(DayOf(now)).Hours() / 24)
}

// ScheduleText renders the full schedule as a Telegram HTML message:
// future shifts ascending, dates within a week in bold, with a freshness
// footer stamped from now. Shifts dated today are still included.
func (s *Schedule) ScheduleText(now time.Time) string {
	var b strings.Builder
	b.WriteString("📅 <b>АКТУАЛЬНЫЙ ГРАФИК ДЕЖУРСТВ</b>\n\n")

	today := DayOf(now)
	empty := true
	for _, sh := range s.shifts {
		if sh.Date.Before(today) {
			continue
		}
		empty = false

		if DaysLeft(sh.Date, now) <= 7 {
			fmt.Fprintf(&b, "<b>%s</b>\n", sh.DateText())
		} else {
			b.WriteString(sh.DateText() + "\n")
		}
		b.WriteString(joinEsc(sh.Assignees) + "\n")
		b.WriteString(joinEsc(sh.Phones) + "\n\n")
	}
	if empty {
		b.WriteString("Нет запланированных дежурств\n")
	}

	fmt.Fprintf(&b, "<i>Актуально на: %s</i>", now.Format("02.01.2006 15:04"))
	return b.String()
}

// UpcomingFor returns the shifts of one employee from today onward,
// ascending by date.
func (s *Schedule) UpcomingFor(name string, now time.Time) []Shift {
	today := DayOf(now)
	var out []Shift
	for _, sh := range s.shifts {
		if sh.Date.Before(today) || !sh.Has(name) {
			continue
		}
		out = append(out, sh.clone())
	}
	return out
}

// NextFor returns the employee's earliest shift strictly after today.
func (s *Schedule) NextFor(name string, now time.Time) (Shift, bool) {
	today := DayOf(now)
	for _, sh := range s.shifts {
		if sh.Date.After(today) && sh.Has(name) {
			return sh.clone(), true
		}
	}
	return Shift{}, false
}

func joinEsc(parts []string) string {
	esc := make([]string, len(parts))
	for i, p := range parts {
		esc[i] = string(tgui.Esc(p))
	}
	return strings.Join(esc, " + ")
}
