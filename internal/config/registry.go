package config

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// KeyType represents the data type of a config key.
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeInt    KeyType = "int"
	KeyTypeBool   KeyType = "bool"
)

// KeyEntry describes a known, settable config key.
type KeyEntry struct {
	// Type is the value's data type (string, int, bool).
	Type KeyType
	// Desc is a human-readable description shown in `habit config list`.
	Desc string
	// DefaultStr is the string representation of the default value.
	DefaultStr string

	get   func(*Config) string
	set   func(cfg *Config, value string) error
	unset func(cfg *Config)
}

// Get returns the current value of the key as a string.
func (e *KeyEntry) Get(cfg *Config) string { return e.get(cfg) }

// Set validates and sets the value, returning a descriptive error on type mismatch.
func (e *KeyEntry) Set(cfg *Config, value string) error { return e.set(cfg, value) }

// Unset resets the key to its schema default.
func (e *KeyEntry) Unset(cfg *Config) { e.unset(cfg) }

var (
	colorValue = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)
	logLevels  = []string{"debug", "info", "warn", "error"}
)

// SchemaKeys is the authoritative registry of all settable config keys.
// Keys use dot-notation matching the TOML section structure.
var SchemaKeys = map[string]*KeyEntry{
	"user.name": {
		Type:       KeyTypeString,
		Desc:       "Display name used in greetings and reports",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.User.Name },
		set:        func(cfg *Config, v string) error { cfg.User.Name = v; return nil },
		unset:      func(cfg *Config) { cfg.User.Name = "" },
	},
	"habits.default_target_days": {
		Type:       KeyTypeInt,
		Desc:       "Target length in days for new habits",
		DefaultStr: "30",
		get:        func(cfg *Config) string { return strconv.Itoa(cfg.Habits.DefaultTargetDays) },
		set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid value %q for habits.default_target_days: not an integer", v)
			}
			if n < 1 {
				return fmt.Errorf("invalid value %d for habits.default_target_days: must be at least 1", n)
			}
			cfg.Habits.DefaultTargetDays = n
			return nil
		},
		unset: func(cfg *Config) { cfg.Habits.DefaultTargetDays = 30 },
	},
	"habits.default_icon": {
		Type:       KeyTypeString,
		Desc:       "Icon for new habits (droplets, brain, book-open, dumbbell, ...)",
		DefaultStr: "brain",
		get:        func(cfg *Config) string { return cfg.Habits.DefaultIcon },
		set:        func(cfg *Config, v string) error { cfg.Habits.DefaultIcon = v; return nil },
		unset:      func(cfg *Config) { cfg.Habits.DefaultIcon = "brain" },
	},
	"habits.default_color": {
		Type:       KeyTypeString,
		Desc:       "Color for new habits (#RRGGBB)",
		DefaultStr: "#3B82F6",
		get:        func(cfg *Config) string { return cfg.Habits.DefaultColor },
		set: func(cfg *Config, v string) error {
			if !colorValue.MatchString(v) {
				return fmt.Errorf("invalid value %q for habits.default_color: expected #RRGGBB", v)
			}
			cfg.Habits.DefaultColor = v
			return nil
		},
		unset: func(cfg *Config) { cfg.Habits.DefaultColor = "#3B82F6" },
	},
	"habits.warn_future": {
		Type:       KeyTypeBool,
		Desc:       "Warn when completing a day after today",
		DefaultStr: "true",
		get:        func(cfg *Config) string { return fmt.Sprintf("%t", cfg.Habits.WarnsFuture()) },
		set: func(cfg *Config, v string) error {
			b, err := ParseBoolValue(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for habits.warn_future: %w", v, err)
			}
			cfg.Habits.WarnFuture = BoolPtr(b)
			return nil
		},
		unset: func(cfg *Config) { cfg.Habits.WarnFuture = BoolPtr(true) },
	},
	"log.level": {
		Type:       KeyTypeString,
		Desc:       "Log file verbosity (debug, info, warn, error)",
		DefaultStr: "warn",
		get:        func(cfg *Config) string { return cfg.Log.Level },
		set: func(cfg *Config, v string) error {
			v = strings.ToLower(strings.TrimSpace(v))
			for _, l := range logLevels {
				if v == l {
					cfg.Log.Level = v
					return nil
				}
			}
			return fmt.Errorf("invalid value %q for log.level (use one of: %s)", v, strings.Join(logLevels, ", "))
		},
		unset: func(cfg *Config) { cfg.Log.Level = "warn" },
	},
}

// ValidKeyNames returns the sorted list of all known config key names.
func ValidKeyNames() []string {
	names := make([]string, 0, len(SchemaKeys))
	for k := range SchemaKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupKey returns the KeyEntry for a known config key.
func LookupKey(key string) (*KeyEntry, bool) {
	entry, ok := SchemaKeys[key]
	return entry, ok
}

// ParseBoolValue accepts common boolean string representations.
// Valid truthy values: true, 1, yes, on.
// Valid falsy values: false, 0, no, off.
func ParseBoolValue(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q (use one of: true/false, 1/0, yes/no, on/off)", s)
	}
}
