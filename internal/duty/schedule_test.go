package duty

import (
	"errors"
	"strings"
	"testing"
	"time"

	"dutybot/pkg/logx"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Wednesday afternoon, used as "now" throughout.
var testNow = time.Date(2026, time.February, 4, 15, 30, 0, 0, time.UTC)

func seedShifts() []Shift {
	return []Shift{
		{Date: date(2026, time.January, 31), Assignees: []string{"Иванов И.И."}, Phones: []string{"+7-900-000-00-01"}},
		{Date: date(2026, time.February, 7), Assignees: []string{"Петров П.П.", "Сидоров С.С."}, Phones: []string{"+7-900-000-00-02", "+7-900-000-00-03"}, Paired: true},
		{Date: date(2026, time.February, 14), Assignees: []string{"Иванов И.И."}, Phones: []string{"+7-900-000-00-01"}},
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{name: "with suffix", raw: "07.02.2026г.", want: date(2026, time.February, 7)},
		{name: "without suffix", raw: "07.02.2026", want: date(2026, time.February, 7)},
		{name: "surrounding spaces", raw: "  07.02.2026г. ", want: date(2026, time.February, 7)},
		{name: "iso format", raw: "2026-02-07", wantErr: true},
		{name: "short year", raw: "07.02.26г.", wantErr: true},
		{name: "garbage", raw: "суббота", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrBadDate) {
					t.Fatalf("ParseDate(%q) error = %v, want ErrBadDate", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.raw, err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseDate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	t.Parallel()
	d := date(2030, time.February, 7)
	text := FormatDate(d)
	if text != "07.02.2030г." {
		t.Fatalf("FormatDate = %q", text)
	}
	back, err := ParseDate(text)
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip: %v != %v", back, d)
	}
}

func TestLoadEvictsPast(t *testing.T) {
	t.Parallel()
	s := NewSchedule(logx.Nop())
	evicted := s.Load(seedShifts(), testNow)
	if evicted != 1 {
		t.Fatalf("evicted = %d, want 1", evicted)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if _, ok := s.OnDate(date(2026, time.January, 31)); ok {
		t.Fatal("past shift survived load")
	}
}

func TestLoadKeepsToday(t *testing.T) {
	t.Parallel()
	s := NewSchedule(logx.Nop())
	seed := []Shift{{
		Date:      date(2026, time.February, 4),
		Assignees: []string{"Иванов И.И."},
		Phones:    []string{"+7-900-000-00-01"},
	}}
	// Eviction compares calendar dates, so a shift dated today survives
	// even when loading late in the day.
	if evicted := s.Load(seed, testNow); evicted != 0 {
		t.Fatalf("evicted = %d, want 0", evicted)
	}
	if _, ok := s.Today(testNow); !ok {
		t.Fatal("today's shift missing after load")
	}
}

func TestLoadRejectsMalformedSeed(t *testing.T) {
	t.Parallel()
	s := NewSchedule(logx.Nop())
	seed := []Shift{
		{Date: date(2026, time.February, 7), Assignees: []string{"Петров П.П.", "Сидоров С.С."}, Phones: []string{"+7-900-000-00-02", "+7-900-000-00-03"}},
		{Date: date(2026, time.February, 14), Assignees: []string{"Иванов И.И."}, Phones: []string{"+7-900-000-00-01"}, Paired: true},
		{Date: date(2026, time.February, 21), Assignees: []string{"Иванов И.И."}, Phones: nil},
		{Date: date(2026, time.February, 28), Assignees: []string{"Иванов И.И."}, Phones: []string{"+7-900-000-00-01"}},
	}
	if evicted := s.Load(seed, testNow); evicted != 0 {
		t.Fatalf("evicted = %d, want 0", evicted)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if _, ok := s.OnDate(date(2026, time.February, 7)); ok {
		t.Fatal("two assignees without pair flag entered the store")
	}
	if _, ok := s.OnDate(date(2026, time.February, 14)); ok {
		t.Fatal("pair flag on a single assignee entered the store")
	}
	if _, ok := s.OnDate(date(2026, time.February, 28)); !ok {
		t.Fatal("well-formed seed entry dropped")
	}
}

func TestAddRejectsPastAndToday(t *testing.T) {
	t.Parallel()
	s := NewSchedule(logx.Nop())

	err := s.Add("31.01.2026г.", []string{"Иванов И.И."}, []string{"+7"}, false, testNow)
	if !errors.Is(err, ErrPastDate) {
		t.Fatalf("past date: error = %v, want ErrPastDate", err)
	}
	err = s.Add("04.02.2026г.", []string{"Иванов И.И."}, []string{"+7"}, false, testNow)
	if !errors.Is(err, ErrPastDate) {
		t.Fatalf("today: error = %v, want ErrPastDate", err)
	}
	if s.Len() != 0 {
		t.Fatalf("rejected adds mutated schedule: Len = %d", s.Len())
	}
}

func TestAddValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		dateText  string
		assignees []string
		phones    []string
		paired    bool
		wantErr   error
	}{
		{name: "bad date", dateText: "завтра", assignees: []string{"А"}, phones: []string{"1"}, wantErr: ErrBadDate},
		{name: "no assignees", dateText: "07.03.2026г.", wantErr: ErrAssigneeCount},
		{name: "three assignees", dateText: "07.03.2026г.", assignees: []string{"А", "Б", "В"}, phones: []string{"1", "2", "3"}, wantErr: ErrAssigneeCount},
		{name: "phone count mismatch", dateText: "07.03.2026г.", assignees: []string{"А", "Б"}, phones: []string{"1"}, paired: true, wantErr: ErrFieldMismatch},
		{name: "pair flag on single", dateText: "07.03.2026г.", assignees: []string{"А"}, phones: []string{"1"}, paired: true, wantErr: ErrPairFlag},
		{name: "no pair flag on two", dateText: "07.03.2026г.", assignees: []string{"А", "Б"}, phones: []string{"1", "2"}, wantErr: ErrPairFlag},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			s := NewSchedule(logx.Nop())
			err := s.Add(tt.dateText, tt.assignees, tt.phones, tt.paired, testNow)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Add error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddOverwritesSameDate(t *testing.T) {
	t.Parallel()
	s := NewSchedule(logx.Nop())
	if err := s.Add("07.02.2026г.", []string{"Иванов И.И."}, []string{"+7-1"}, false, testNow); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if err := s.Add("07.02.2026г.", []string{"Петров П.П."}, []string{"+7-2"}, false, testNow); err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	sh, ok := s.OnDate(date(2026, time.February, 7))
	if !ok || sh.Assignees[0] != "Петров П.П." {
		t.Fatalf("overwrite missed: %+v", sh)
	}
}

func TestAddKeepsSorted(t *testing.T) {
	t.Parallel()
	s := NewSchedule(logx.Nop())
	for _, dt := range []string{"21.02.2026г.", "07.02.2026г.", "14.02.2026г."} {
		if err := s.Add(dt, []string{"Иванов И.И."}, []string{"+7"}, false, testNow); err != nil {
			t.Fatalf("Add(%s): %v", dt, err)
		}
	}
	all := s.All()
	for i := 1; i < len(all); i++ {
		if !all[i-1].Date.Before(all[i].Date) {
			t.Fatalf("not sorted: %v before %v", all[i-1].Date, all[i].Date)
		}
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()
	s := NewSchedule(logx.Nop())
	s.Load(seedShifts(), testNow)

	if !s.Remove("07.02.2026г.") {
		t.Fatal("Remove of existing shift returned false")
	}
	if s.Remove("07.02.2026г.") {
		t.Fatal("second Remove of same date returned true")
	}
	// The suffix is optional, the entry is keyed by calendar date.
	if !s.Remove("14.02.2026") {
		t.Fatal("Remove without suffix failed")
	}
	if s.Remove("не дата") {
		t.Fatal("Remove of malformed text returned true")
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}

func TestTodaySaturdayLookup(t *testing.T) {
	t.Parallel()
	s := NewSchedule(logx.Nop())
	s.Load(seedShifts(), testNow)

	saturday := time.Date(2026, time.February, 7, 9, 0, 0, 0, time.UTC)
	sh, ok := s.Today(saturday)
	if !ok {
		t.Fatal("no shift found on its own date")
	}
	if !sh.Paired || len(sh.Assignees) != 2 {
		t.Fatalf("wrong shift: %+v", sh)
	}
	if _, ok := s.Today(testNow); ok {
		t.Fatal("found shift on a date with none scheduled")
	}
}

func TestShiftCopyIsolation(t *testing.T) {
	t.Parallel()
	s := NewSchedule(logx.Nop())
	s.Load(seedShifts(), testNow)

	sh, _ := s.OnDate(date(2026, time.February, 7))
	sh.Assignees[0] = "изменено"
	again, _ := s.OnDate(date(2026, time.February, 7))
	if again.Assignees[0] != "Петров П.П." {
		t.Fatal("returned shift shares backing array with the store")
	}
}

func TestEndToEndAddScenario(t *testing.T) {
	t.Parallel()
	s := NewSchedule(logx.Nop())
	err := s.Add("07.02.2030г.",
		[]string{"Раков М.А.", "Согрин А.С."},
		[]string{"+7-982-111-22-33", "+7-904-444-55-66"},
		true, testNow)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	sh, ok := s.OnDate(date(2030, time.February, 7))
	if !ok {
		t.Fatal("shift not found after add")
	}
	if sh.DateText() != "07.02.2030г." {
		t.Fatalf("DateText = %q", sh.DateText())
	}
	text := s.ScheduleText(testNow)
	if !strings.Contains(text, "07.02.2030г.") || !strings.Contains(text, "Раков М.А. + Согрин А.С.") {
		t.Fatalf("schedule text missing new shift:\n%s", text)
	}
}
