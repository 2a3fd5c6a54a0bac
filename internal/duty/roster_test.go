package duty

import (
	"testing"

	"dutybot/pkg/logx"
)

func testRoster() *Roster {
	return NewRoster(map[string]string{
		"Иванов И.И.": "+7-900-000-00-01",
		"Петров П.П.": "+7-900-000-00-02",
	}, logx.Nop())
}

func TestRosterAddNoOverwrite(t *testing.T) {
	t.Parallel()
	r := testRoster()

	if !r.Add("Сидоров С.С.", "+7-900-000-00-03") {
		t.Fatal("Add of new employee returned false")
	}
	if r.Add("Иванов И.И.", "+7-999-999-99-99") {
		t.Fatal("Add of existing employee returned true")
	}
	phone, _ := r.Phone("Иванов И.И.")
	if phone != "+7-900-000-00-01" {
		t.Fatalf("existing phone overwritten: %s", phone)
	}
}

func TestRosterSetPhone(t *testing.T) {
	t.Parallel()
	r := testRoster()

	if !r.SetPhone("Иванов И.И.", "+7-911-000-00-00") {
		t.Fatal("SetPhone of known employee returned false")
	}
	if phone, _ := r.Phone("Иванов И.И."); phone != "+7-911-000-00-00" {
		t.Fatalf("phone not updated: %s", phone)
	}
	if r.SetPhone("Неизвестный", "+7") {
		t.Fatal("SetPhone of unknown employee returned true")
	}
}

func TestRosterRemove(t *testing.T) {
	t.Parallel()
	r := testRoster()

	if !r.Remove("Петров П.П.") {
		t.Fatal("Remove of known employee returned false")
	}
	if r.Remove("Петров П.П.") {
		t.Fatal("second Remove returned true")
	}
	if r.Has("Петров П.П.") {
		t.Fatal("removed employee still present")
	}
}

func TestRosterNamesSorted(t *testing.T) {
	t.Parallel()
	r := testRoster()
	r.Add("Абрамов А.А.", "+7")

	names := r.Names()
	if len(names) != 3 {
		t.Fatalf("Names len = %d, want 3", len(names))
	}
	if names[0] != "Абрамов А.А." {
		t.Fatalf("Names[0] = %s, want sorted order", names[0])
	}
}
