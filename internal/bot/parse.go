package bot

import (
	"errors"
	"strings"
)

// Admin mutations arrive as semicolon-separated text lines. The formats
// mirror what the panels prompt for:
//
//	дата;сотрудник1,сотрудник2;телефон1,телефон2;пара
//	ФИО;телефон;telegram_username
//	ФИО;новый телефон
var ErrBadFormat = errors.New("bad command format")

// affirmative tokens accepted for the pair flag.
var affirmatives = map[string]bool{
	"да":   true,
	"yes":  true,
	"true": true,
	"1":    true,
}

func isAffirmative(s string) bool {
	return affirmatives[strings.ToLower(strings.TrimSpace(s))]
}

// ShiftCommand is a parsed add-shift request.
type ShiftCommand struct {
	DateText  string
	Assignees []string
	Phones    []string
	Paired    bool
}

// ParseShiftCommand parses "дата;сотрудники;телефоны;пара". Assignees and
// phones are comma-separated within their fields. Count validation is left
// to the schedule store.
func ParseShiftCommand(text string) (ShiftCommand, error) {
	parts := strings.Split(text, ";")
	if len(parts) != 4 {
		return ShiftCommand{}, ErrBadFormat
	}
	return ShiftCommand{
		DateText:  strings.TrimSpace(parts[0]),
		Assignees: splitList(parts[1]),
		Phones:    splitList(parts[2]),
		Paired:    isAffirmative(parts[3]),
	}, nil
}

// EmployeeCommand is a parsed add-employee request. Handle may be empty.
type EmployeeCommand struct {
	Name   string
	Phone  string
	Handle string
}

// ParseEmployeeCommand parses "ФИО;телефон;telegram_username". The handle
// is normalized to "@name" in lower case.
func ParseEmployeeCommand(text string) (EmployeeCommand, error) {
	parts := strings.Split(text, ";")
	if len(parts) != 3 {
		return EmployeeCommand{}, ErrBadFormat
	}
	return EmployeeCommand{
		Name:   strings.TrimSpace(parts[0]),
		Phone:  strings.TrimSpace(parts[1]),
		Handle: NormalizeHandle(parts[2]),
	}, nil
}

// ParsePhoneCommand parses "ФИО;новый телефон".
func ParsePhoneCommand(text string) (name, phone string, err error) {
	parts := strings.Split(text, ";")
	if len(parts) != 2 {
		return "", "", ErrBadFormat
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// NormalizeHandle lower-cases a Telegram username and guarantees the "@"
// prefix. Empty input stays empty.
func NormalizeHandle(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if h == "" {
		return ""
	}
	if !strings.HasPrefix(h, "@") {
		h = "@" + h
	}
	return h
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
