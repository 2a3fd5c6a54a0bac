package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`

	// Timezone is the single zone all schedule dates and cron triggers live
	// in. Defaults to Europe/Moscow.
	Timezone string `json:"timezone,omitempty"`

	Admin    AdminConfig    `json:"admin"`
	Storage  StorageConfig  `json:"storage"`
	Protocol ProtocolConfig `json:"protocol,omitempty"`
	Notify   NotifyConfig   `json:"notify,omitempty"`

	// Schedule seeds the in-memory duty schedule at startup. Past entries
	// are evicted on load.
	Schedule []SeedShift `json:"schedule,omitempty"`

	// Roster maps employee display name to phone.
	Roster map[string]string `json:"roster,omitempty"`

	// Handles maps a Telegram username (with or without "@") to a roster
	// name for auto-binding on first /start.
	Handles map[string]string `json:"handles,omitempty"`
}

type TelegramConfig struct {
	Token string `json:"token"`
	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout,omitempty"`
}

type AdminConfig struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type StorageConfig struct {
	// Path of the sqlite profile database.
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string
}

type ProtocolConfig struct {
	// Path where the uploaded dispute-protocol .docx is kept.
	Path string `json:"path,omitempty"`
}

// NotifyConfig overrides the reminder cron specs. Defaults: Wednesday 16:00
// broadcast, Friday 18:00 targeted, 20 sends/sec.
type NotifyConfig struct {
	BroadcastSpec string  `json:"broadcast_spec,omitempty"`
	TargetedSpec  string  `json:"targeted_spec,omitempty"`
	RatePerSec    float64 `json:"rate_per_sec,omitempty"`
}

type SeedShift struct {
	// Date in "dd.mm.yyyyг." form, same as the admin add-shift command.
	Date      string   `json:"date"`
	Assignees []string `json:"assignees"`
	Phones    []string `json:"phones"`
	Paired    bool     `json:"paired,omitempty"`
}

type LoggingConfig struct {
	Level    string          `json:"level"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// LoggingTelegram mirrors warnings and errors into an operator chat.
type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	ChatID     int64  `json:"chat_id"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}

const DefaultTimezone = "Europe/Moscow"

// Validate checks everything that can be checked without side effects.
// Called both on startup and before committing a hot reload.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram.token is required")
	}
	if strings.TrimSpace(c.Admin.Login) == "" || strings.TrimSpace(c.Admin.Password) == "" {
		return errors.New("admin.login and admin.password are required")
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := ParseDurationField("telegram.poll_timeout", c.Telegram.PollTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
		return err
	}
	if c.Notify.RatePerSec < 0 {
		return errors.New("notify.rate_per_sec must be >= 0")
	}
	for i, s := range c.Schedule {
		if strings.TrimSpace(s.Date) == "" {
			return fmt.Errorf("schedule[%d]: date is required", i)
		}
		if len(s.Assignees) == 0 || len(s.Assignees) > 2 {
			return fmt.Errorf("schedule[%d]: 1 or 2 assignees required", i)
		}
		if len(s.Phones) != len(s.Assignees) {
			return fmt.Errorf("schedule[%d]: phone count must match assignee count", i)
		}
		if s.Paired != (len(s.Assignees) == 2) {
			return fmt.Errorf("schedule[%d]: paired must be true exactly when there are 2 assignees", i)
		}
	}
	return nil
}

// ParseDurationField parses a Go duration string from the named config
// field. Empty means unset and yields zero; negative values are rejected.
func ParseDurationField(path, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// ParseDurationOrDefault is ParseDurationField with a fallback for unset fields.
func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil || d > 0 {
		return d, err
	}
	return def, nil
}

// Location resolves the configured timezone, defaulting to Europe/Moscow.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}
