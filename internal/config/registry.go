package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rnwolfe/triage/internal/rank"
)

// KeyType represents the data type of a config key.
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeInt    KeyType = "int"
	KeyTypeFloat  KeyType = "float"
	KeyTypeBool   KeyType = "bool"
)

// KeyEntry describes a known, settable config key.
type KeyEntry struct {
	// Type is the value's data type.
	Type KeyType
	// Desc is a human-readable description shown in `triage config list`.
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

// SchemaKeys is the authoritative registry of all settable config keys.
// Keys use dot-notation matching the TOML section structure.
var SchemaKeys = buildSchema()

func buildSchema() map[string]*KeyEntry {
	d := rank.DefaultParams()
	u := func(cfg *Config) *UrgentConfig { return &cfg.Rank.Urgent }
	s := func(cfg *Config) *StrategicConfig { return &cfg.Rank.Strategic }

	return map[string]*KeyEntry{
		"user.name": {
			Type:       KeyTypeString,
			Desc:       "Display name",
			DefaultStr: "",
			get:        func(cfg *Config) string { return cfg.User.Name },
			set:        func(cfg *Config, v string) error { cfg.User.Name = v; return nil },
			unset:      func(cfg *Config) { cfg.User.Name = "" },
		},
		"display.color": {
			Type:       KeyTypeBool,
			Desc:       "Styled terminal output (defaults to on unless NO_COLOR is set)",
			DefaultStr: "true",
			get:        func(cfg *Config) string { return fmt.Sprintf("%t", cfg.Display.ColorEnabled()) },
			set: func(cfg *Config, v string) error {
				b, err := ParseBoolValue(v)
				if err != nil {
					return fmt.Errorf("invalid value %q for display.color: %w", v, err)
				}
				cfg.Display.Color = BoolPtr(b)
				return nil
			},
			unset: func(cfg *Config) { cfg.Display.Color = nil },
		},
		"display.next_count": intKey("Tasks shown by `triage task next` with no argument", 1, 1,
			func(cfg *Config) **int { return &cfg.Display.NextCount }),

		"rank.urgent_window": intKey("Largest days-left still scored as urgent", d.UrgentWindow, 0,
			func(cfg *Config) **int { return &cfg.Rank.UrgentWindow }),

		"rank.urgent.criticality_weight": floatKey("Urgent: weight on criticality", d.Urgent.CriticalityWeight,
			func(cfg *Config) **float64 { return &u(cfg).CriticalityWeight }),
		"rank.urgent.overdue_base": floatKey("Urgent: urgency for any overdue task", d.Urgent.OverdueBase,
			func(cfg *Config) **float64 { return &u(cfg).OverdueBase }),
		"rank.urgent.overdue_per_day": floatKey("Urgent: extra urgency per day overdue", d.Urgent.OverduePerDay,
			func(cfg *Config) **float64 { return &u(cfg).OverduePerDay }),
		"rank.urgent.due_today": floatKey("Urgent: urgency when due today", d.Urgent.DueToday,
			func(cfg *Config) **float64 { return &u(cfg).DueToday }),
		"rank.urgent.due_tomorrow": floatKey("Urgent: urgency when due tomorrow", d.Urgent.DueTomorrow,
			func(cfg *Config) **float64 { return &u(cfg).DueTomorrow }),
		"rank.urgent.decay_numerator": floatKey("Urgent: numerator of the 2-3 day decay", d.Urgent.DecayNumerator,
			func(cfg *Config) **float64 { return &u(cfg).DecayNumerator }),
		"rank.urgent.effort_weight": floatKey("Urgent: penalty per effort point", d.Urgent.EffortWeight,
			func(cfg *Config) **float64 { return &u(cfg).EffortWeight }),
		"rank.urgent.mandays_weight": floatKey("Urgent: penalty per man-day", d.Urgent.MandaysWeight,
			func(cfg *Config) **float64 { return &u(cfg).MandaysWeight }),
		"rank.urgent.mandays_cap": floatKey("Urgent: ceiling on the man-day penalty", d.Urgent.MandaysCap,
			func(cfg *Config) **float64 { return &u(cfg).MandaysCap }),

		"rank.strategic.criticality_weight": floatKey("Strategic: weight on criticality", d.Strategic.CriticalityWeight,
			func(cfg *Config) **float64 { return &s(cfg).CriticalityWeight }),
		"rank.strategic.urgency_numerator": floatKey("Strategic: numerator of the urgency decay", d.Strategic.UrgencyNumerator,
			func(cfg *Config) **float64 { return &s(cfg).UrgencyNumerator }),
		"rank.strategic.decay_rate": floatKey("Strategic: urgency decay per day", d.Strategic.DecayRate,
			func(cfg *Config) **float64 { return &s(cfg).DecayRate }),
		"rank.strategic.forgiveness_threshold": intKey("Strategic: criticality that earns discounted penalties", d.Strategic.ForgivenessThreshold, 1,
			func(cfg *Config) **int { return &s(cfg).ForgivenessThreshold }),
		"rank.strategic.effort_weight": floatKey("Strategic: penalty per effort point", d.Strategic.EffortWeight,
			func(cfg *Config) **float64 { return &s(cfg).EffortWeight }),
		"rank.strategic.mandays_weight": floatKey("Strategic: penalty per man-day", d.Strategic.MandaysWeight,
			func(cfg *Config) **float64 { return &s(cfg).MandaysWeight }),
		"rank.strategic.forgiven_effort_weight": floatKey("Strategic: discounted penalty per effort point", d.Strategic.ForgivenEffortWeight,
			func(cfg *Config) **float64 { return &s(cfg).ForgivenEffortWeight }),
		"rank.strategic.forgiven_mandays_weight": floatKey("Strategic: discounted penalty per man-day", d.Strategic.ForgivenMandaysWeight,
			func(cfg *Config) **float64 { return &s(cfg).ForgivenMandaysWeight }),
	}
}

// intKey builds an optional integer key that must be at least floor.
func intKey(desc string, def, floor int, field func(*Config) **int) *KeyEntry {
	return &KeyEntry{
		Type:       KeyTypeInt,
		Desc:       desc,
		DefaultStr: strconv.Itoa(def),
		get: func(cfg *Config) string {
			if v := *field(cfg); v != nil {
				return strconv.Itoa(*v)
			}
			return strconv.Itoa(def)
		},
		set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("not an integer: %q", v)
			}
			if n < floor {
				return fmt.Errorf("value %d is below the minimum of %d", n, floor)
			}
			*field(cfg) = &n
			return nil
		},
		unset: func(cfg *Config) { *field(cfg) = nil },
	}
}

// floatKey builds an optional non-negative number key.
func floatKey(desc string, def float64, field func(*Config) **float64) *KeyEntry {
	format := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	return &KeyEntry{
		Type:       KeyTypeFloat,
		Desc:       desc,
		DefaultStr: format(def),
		get: func(cfg *Config) string {
			if v := *field(cfg); v != nil {
				return format(*v)
			}
			return format(def)
		},
		set: func(cfg *Config, v string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("not a number: %q", v)
			}
			if f < 0 {
				return fmt.Errorf("value %s must not be negative", v)
			}
			*field(cfg) = &f
			return nil
		},
		unset: func(cfg *Config) { *field(cfg) = nil },
	}
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
