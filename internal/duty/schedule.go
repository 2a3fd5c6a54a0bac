package duty

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"dutybot/pkg/logx"
)

// Shift is one weekend duty entry: a calendar date with one or two
// assignees and their contact phones (parallel slices).
type Shift struct {
	Date      time.Time
	Assignees []string
	Phones    []string
	Paired    bool
}

// DateText renders the shift date in canonical wire form.
func (s Shift) DateText() string { return FormatDate(s.Date) }

// Has reports whether name is among the shift's assignees.
func (s Shift) Has(name string) bool { return slices.Contains(s.Assignees, name) }

func (s Shift) clone() Shift {
	s.Assignees = slices.Clone(s.Assignees)
	s.Phones = slices.Clone(s.Phones)
	return s
}

// Schedule is the in-memory duty schedule, keyed by calendar date and kept
// sorted ascending. It is not safe for concurrent use; all access is
// serialized through the application event loop.
type Schedule struct {
	log    logx.Logger
	shifts []Shift
}

func NewSchedule(log logx.Logger) *Schedule {
	return &Schedule{log: log}
}

// Load replaces the schedule contents with seed, dropping entries whose
// calendar date is strictly before the calendar date of now. A shift dated
// today survives the load. Seed entries that fail shift validation are
// rejected with a warning, so every stored shift is well-formed no matter
// which caller inserted it. Returns the number of evicted past entries.
func (s *Schedule) Load(seed []Shift, now time.Time) int {
	today := DayOf(now)
	s.shifts = s.shifts[:0]
	evicted := 0
	for _, sh := range seed {
		sh.Date = DayOf(sh.Date)
		if sh.Date.Before(today) {
			evicted++
			continue
		}
		if err := validateShift(sh.Assignees, sh.Phones, sh.Paired); err != nil {
			s.log.Warn("seed shift rejected", logx.String("date", FormatDate(sh.Date)), logx.Err(err))
			continue
		}
		s.shifts = append(s.shifts, sh.clone())
	}
	sort.Slice(s.shifts, func(i, j int) bool { return s.shifts[i].Date.Before(s.shifts[j].Date) })
	if evicted > 0 {
		s.log.Info("evicted past shifts", logx.Int("count", evicted))
	}
	return evicted
}

func validateShift(assignees, phones []string, paired bool) error {
	switch len(assignees) {
	case 1, 2:
	default:
		return fmt.Errorf("%w: got %d", ErrAssigneeCount, len(assignees))
	}
	if len(phones) != len(assignees) {
		return fmt.Errorf("%w: %d assignees, %d phones", ErrFieldMismatch, len(assignees), len(phones))
	}
	if paired != (len(assignees) == 2) {
		return ErrPairFlag
	}
	return nil
}

// Add inserts a shift, overwriting any existing entry for the same date.
// The date must be strictly after the calendar date of now: today and the
// past are rejected.
func (s *Schedule) Add(dateText string, assignees, phones []string, paired bool, now time.Time) error {
	d, err := ParseDate(dateText)
	if err != nil {
		return err
	}
	if !d.After(DayOf(now)) {
		return fmt.Errorf("%w: %s", ErrPastDate, FormatDate(d))
	}
	if err := validateShift(assignees, phones, paired); err != nil {
		return err
	}

	sh := Shift{Date: d, Assignees: slices.Clone(assignees), Phones: slices.Clone(phones), Paired: paired}
	i := sort.Search(len(s.shifts), func(i int) bool { return !s.shifts[i].Date.Before(d) })
	if i < len(s.shifts) && s.shifts[i].Date.Equal(d) {
		s.shifts[i] = sh
	} else {
		s.shifts = slices.Insert(s.shifts, i, sh)
	}
	s.log.Info("shift added", logx.String("date", FormatDate(d)), logx.Any("assignees", assignees))
	return nil
}

// Remove deletes the shift on the given date. The text is parsed as a date
// first, so "07.02.2026" and "07.02.2026г." remove the same entry.
// Returns false when the text is malformed or no shift exists on that date.
func (s *Schedule) Remove(dateText string) bool {
	d, err := ParseDate(dateText)
	if err != nil {
		return false
	}
	for i, sh := range s.shifts {
		if sh.Date.Equal(d) {
			s.shifts = slices.Delete(s.shifts, i, i+1)
			s.log.Info("shift removed", logx.String("date", FormatDate(d)))
			return true
		}
	}
	return false
}

// OnDate returns the shift on the calendar date of d, if any.
func (s *Schedule) OnDate(d time.Time) (Shift, bool) {
	day := DayOf(d)
	for _, sh := range s.shifts {
		if sh.Date.Equal(day) {
			return sh.clone(), true
		}
	}
	return Shift{}, false
}

// Today returns the shift scheduled for the calendar date of now, if any.
func (s *Schedule) Today(now time.Time) (Shift, bool) {
	return s.OnDate(now)
}

// All returns a copy of every shift, ascending by date.
func (s *Schedule) All() []Shift {
	out := make([]Shift, 0, len(s.shifts))
	for _, sh := range s.shifts {
		out = append(out, sh.clone())
	}
	return out
}

func (s *Schedule) Len() int { return len(s.shifts) }
