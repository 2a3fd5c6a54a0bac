package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
telegram:
  token: "123:abc"
  poll_timeout: "10s"
logging:
  level: info
  console: true
admin:
  login: admin
  password: secret
storage:
  path: ./data/users.db
roster:
  "Иванов И.И.": "8-999-111-11-11"
handles:
  "@ivanov": "Иванов И.И."
schedule:
  - date: "07.02.2026г."
    assignees: ["Иванов И.И."]
    phones: ["8-999-111-11-11"]
`

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.yaml", validYAML)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("token = %q", cfg.Telegram.Token)
	}
	if len(cfg.Schedule) != 1 || cfg.Schedule[0].Date != "07.02.2026г." {
		t.Errorf("schedule = %+v", cfg.Schedule)
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if loc.String() != DefaultTimezone {
		t.Errorf("default timezone = %q", loc)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.yaml", validYAML+"\nmystery: true\n")

	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("unknown top-level key must be rejected")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() *Config {
		return &Config{
			Telegram: TelegramConfig{Token: "t"},
			Admin:    AdminConfig{Login: "a", Password: "p"},
			Storage:  StorageConfig{Path: "x.db"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Telegram.Token = " " }, wantErr: "telegram.token"},
		{name: "missing admin", mutate: func(c *Config) { c.Admin.Password = "" }, wantErr: "admin.login"},
		{name: "missing storage", mutate: func(c *Config) { c.Storage.Path = "" }, wantErr: "storage.path"},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: "timezone"},
		{name: "bad poll timeout", mutate: func(c *Config) { c.Telegram.PollTimeout = "fast" }, wantErr: "poll_timeout"},
		{
			name: "phone count mismatch",
			mutate: func(c *Config) {
				c.Schedule = []SeedShift{{Date: "07.02.2026г.", Assignees: []string{"a", "b"}, Phones: []string{"1"}}}
			},
			wantErr: "phone count",
		},
		{
			name: "pair flag mismatch",
			mutate: func(c *Config) {
				c.Schedule = []SeedShift{{Date: "07.02.2026г.", Assignees: []string{"a", "b"}, Phones: []string{"1", "2"}}}
			},
			wantErr: "paired",
		},
		{
			name: "too many assignees",
			mutate: func(c *Config) {
				c.Schedule = []SeedShift{{Date: "07.02.2026г.", Assignees: []string{"a", "b", "c"}, Phones: []string{"1", "2", "3"}}}
			},
			wantErr: "assignees",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestChangedSections(t *testing.T) {
	t.Parallel()

	a := &Config{Telegram: TelegramConfig{Token: "t1"}, Timezone: "UTC"}
	b := &Config{Telegram: TelegramConfig{Token: "t2"}, Timezone: "UTC",
		Roster: map[string]string{"x": "1"}}

	got := ChangedSections(a, b)
	want := []string{"roster", "telegram"}
	if len(got) != len(want) {
		t.Fatalf("changed = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("changed = %v, want %v", got, want)
		}
	}

	if got := ChangedSections(a, a); len(got) != 0 {
		t.Fatalf("identical configs reported changed: %v", got)
	}
}
