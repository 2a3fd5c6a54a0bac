package config

import (
	"reflect"
	"sort"
	"strings"
)

// ChangedSections names the top-level sections that differ between two
// configs. Used only for the reload log line; secrets never appear in it.
func ChangedSections(oldCfg, newCfg *Config) []string {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}

	add("telegram", oldCfg.Telegram != newCfg.Telegram)
	add("logging", oldCfg.Logging != newCfg.Logging)
	add("timezone", strings.TrimSpace(oldCfg.Timezone) != strings.TrimSpace(newCfg.Timezone))
	add("admin", oldCfg.Admin != newCfg.Admin)
	add("storage", oldCfg.Storage != newCfg.Storage)
	add("protocol", oldCfg.Protocol != newCfg.Protocol)
	add("notify", oldCfg.Notify != newCfg.Notify)
	add("schedule", !reflect.DeepEqual(oldCfg.Schedule, newCfg.Schedule))
	add("roster", !reflect.DeepEqual(oldCfg.Roster, newCfg.Roster))
	add("handles", !reflect.DeepEqual(oldCfg.Handles, newCfg.Handles))

	sort.Strings(changed)
	return changed
}
