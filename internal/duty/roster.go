package duty

import (
	"sort"

	"dutybot/pkg/logx"
)

// Roster maps employee names to contact phones. Shift assignees are free
// text; the roster is the contact directory consulted when rendering
// reminders, so a shift may reference a name the roster does not know.
type Roster struct {
	log    logx.Logger
	phones map[string]string
}

func NewRoster(seed map[string]string, log logx.Logger) *Roster {
	r := &Roster{log: log, phones: make(map[string]string, len(seed))}
	for name, phone := range seed {
		r.phones[name] = phone
	}
	return r
}

// Add registers a new employee. Existing entries are left untouched and
// the call reports false; use SetPhone to change a known employee's phone.
func (r *Roster) Add(name, phone string) bool {
	if _, ok := r.phones[name]; ok {
		return false
	}
	r.phones[name] = phone
	r.log.Info("employee added", logx.String("name", name))
	return true
}

// Remove deletes an employee from the directory. Shifts already assigned
// to the name are kept as-is.
func (r *Roster) Remove(name string) bool {
	if _, ok := r.phones[name]; !ok {
		return false
	}
	delete(r.phones, name)
	r.log.Info("employee removed", logx.String("name", name))
	return true
}

// SetPhone updates the phone of a known employee.
func (r *Roster) SetPhone(name, phone string) bool {
	if _, ok := r.phones[name]; !ok {
		return false
	}
	r.phones[name] = phone
	r.log.Info("employee phone updated", logx.String("name", name))
	return true
}

func (r *Roster) Phone(name string) (string, bool) {
	phone, ok := r.phones[name]
	return phone, ok
}

func (r *Roster) Has(name string) bool {
	_, ok := r.phones[name]
	return ok
}

// Names returns all employee names sorted alphabetically.
func (r *Roster) Names() []string {
	names := make([]string, 0, len(r.phones))
	for name := range r.phones {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Roster) Len() int { return len(r.phones) }
