package bot

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseShiftCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    ShiftCommand
		wantErr bool
	}{
		{
			name: "paired",
			in:   "18.04.2026г.;Иванов И.И.,Петров П.П.;8-999-111-11-11,8-999-222-22-22;да",
			want: ShiftCommand{
				DateText:  "18.04.2026г.",
				Assignees: []string{"Иванов И.И.", "Петров П.П."},
				Phones:    []string{"8-999-111-11-11", "8-999-222-22-22"},
				Paired:    true,
			},
		},
		{
			name: "single",
			in:   "25.04.2026г.;Сидоров С.С.;8-999-333-33-33;нет",
			want: ShiftCommand{
				DateText:  "25.04.2026г.",
				Assignees: []string{"Сидоров С.С."},
				Phones:    []string{"8-999-333-33-33"},
			},
		},
		{
			name: "whitespace around fields",
			in:   " 25.04.2026г. ; Сидоров С.С. ; 8-999-333-33-33 ; YES ",
			want: ShiftCommand{
				DateText:  "25.04.2026г.",
				Assignees: []string{"Сидоров С.С."},
				Phones:    []string{"8-999-333-33-33"},
				Paired:    true,
			},
		},
		{name: "too few fields", in: "25.04.2026г.;Сидоров С.С.;8-999-333-33-33", wantErr: true},
		{name: "too many fields", in: "a;b;c;d;e", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseShiftCommand(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadFormat) {
					t.Fatalf("err = %v, want ErrBadFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseEmployeeCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    EmployeeCommand
		wantErr bool
	}{
		{
			name: "with handle",
			in:   "Иванов Иван Иванович;8-999-111-11-11;@Ivanov",
			want: EmployeeCommand{Name: "Иванов Иван Иванович", Phone: "8-999-111-11-11", Handle: "@ivanov"},
		},
		{
			name: "handle without at",
			in:   "Петров П.П.;8-999-222-22-22;petrov",
			want: EmployeeCommand{Name: "Петров П.П.", Phone: "8-999-222-22-22", Handle: "@petrov"},
		},
		{
			name: "empty handle",
			in:   "Сидоров С.С.;8-999-333-33-33;",
			want: EmployeeCommand{Name: "Сидоров С.С.", Phone: "8-999-333-33-33"},
		},
		{name: "missing field", in: "Сидоров С.С.;8-999-333-33-33", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseEmployeeCommand(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadFormat) {
					t.Fatalf("err = %v, want ErrBadFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParsePhoneCommand(t *testing.T) {
	t.Parallel()

	name, phone, err := ParsePhoneCommand("Денисова Е.С.; 8-987-294-93-24")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Денисова Е.С." || phone != "8-987-294-93-24" {
		t.Fatalf("got (%q, %q)", name, phone)
	}

	if _, _, err := ParsePhoneCommand("только имя"); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestNormalizeHandle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"@Ivanov", "@ivanov"},
		{"Ivanov", "@ivanov"},
		{"  @petrov  ", "@petrov"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeHandle(tt.in); got != tt.want {
			t.Errorf("NormalizeHandle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsAffirmative(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"да", "ДА", "yes", "true", "1", " да "} {
		if !isAffirmative(s) {
			t.Errorf("isAffirmative(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"нет", "no", "0", "", "пара"} {
		if isAffirmative(s) {
			t.Errorf("isAffirmative(%q) = true, want false", s)
		}
	}
}
