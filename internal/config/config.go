package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/rnwolfe/triage/internal/rank"
)

// Config holds the top-level triage configuration.
type Config struct {
	User    UserConfig    `toml:"user"`
	Rank    RankConfig    `toml:"rank"`
	Display DisplayConfig `toml:"display"`
}

type UserConfig struct {
	Name string `toml:"name"`
}

// DisplayConfig controls terminal output.
type DisplayConfig struct {
	// Color enables styled output. nil means enabled unless NO_COLOR is set.
	Color *bool `toml:"color,omitempty"`
	// NextCount is how many tasks `triage task next` shows without an argument.
	NextCount *int `toml:"next_count,omitempty"`
}

// ColorEnabled reports whether styled output is on.
func (d DisplayConfig) ColorEnabled() bool {
	if d.Color != nil {
		return *d.Color
	}
	return os.Getenv("NO_COLOR") == ""
}

// NextCountOr returns NextCount, or fallback when unset or non-positive.
func (d DisplayConfig) NextCountOr(fallback int) int {
	if d.NextCount == nil || *d.NextCount <= 0 {
		return fallback
	}
	return *d.NextCount
}

// RankConfig overrides ranking constants. Every field is optional; nil keeps the default.
type RankConfig struct {
	UrgentWindow *int            `toml:"urgent_window,omitempty"`
	Urgent       UrgentConfig    `toml:"urgent"`
	Strategic    StrategicConfig `toml:"strategic"`
}

type UrgentConfig struct {
	CriticalityWeight *float64 `toml:"criticality_weight,omitempty"`
	OverdueBase       *float64 `toml:"overdue_base,omitempty"`
	OverduePerDay     *float64 `toml:"overdue_per_day,omitempty"`
	DueToday          *float64 `toml:"due_today,omitempty"`
	DueTomorrow       *float64 `toml:"due_tomorrow,omitempty"`
	DecayNumerator    *float64 `toml:"decay_numerator,omitempty"`
	EffortWeight      *float64 `toml:"effort_weight,omitempty"`
	MandaysWeight     *float64 `toml:"mandays_weight,omitempty"`
	MandaysCap        *float64 `toml:"mandays_cap,omitempty"`
}

type StrategicConfig struct {
	CriticalityWeight     *float64 `toml:"criticality_weight,omitempty"`
	UrgencyNumerator      *float64 `toml:"urgency_numerator,omitempty"`
	DecayRate             *float64 `toml:"decay_rate,omitempty"`
	ForgivenessThreshold  *int     `toml:"forgiveness_threshold,omitempty"`
	EffortWeight          *float64 `toml:"effort_weight,omitempty"`
	MandaysWeight         *float64 `toml:"mandays_weight,omitempty"`
	ForgivenEffortWeight  *float64 `toml:"forgiven_effort_weight,omitempty"`
	ForgivenMandaysWeight *float64 `toml:"forgiven_mandays_weight,omitempty"`
}

// Params builds engine constants from the defaults plus any overrides.
// Negative overrides are ignored: hand-edited files must not be able to push
// the strategic decay denominator to zero.
func (r RankConfig) Params() rank.Params {
	p := rank.DefaultParams()

	overrideInt(&p.UrgentWindow, r.UrgentWindow)

	u := r.Urgent
	overrideFloat(&p.Urgent.CriticalityWeight, u.CriticalityWeight)
	overrideFloat(&p.Urgent.OverdueBase, u.OverdueBase)
	overrideFloat(&p.Urgent.OverduePerDay, u.OverduePerDay)
	overrideFloat(&p.Urgent.DueToday, u.DueToday)
	overrideFloat(&p.Urgent.DueTomorrow, u.DueTomorrow)
	overrideFloat(&p.Urgent.DecayNumerator, u.DecayNumerator)
	overrideFloat(&p.Urgent.EffortWeight, u.EffortWeight)
	overrideFloat(&p.Urgent.MandaysWeight, u.MandaysWeight)
	overrideFloat(&p.Urgent.MandaysCap, u.MandaysCap)

	s := r.Strategic
	overrideFloat(&p.Strategic.CriticalityWeight, s.CriticalityWeight)
	overrideFloat(&p.Strategic.UrgencyNumerator, s.UrgencyNumerator)
	overrideFloat(&p.Strategic.DecayRate, s.DecayRate)
	overrideInt(&p.Strategic.ForgivenessThreshold, s.ForgivenessThreshold)
	overrideFloat(&p.Strategic.EffortWeight, s.EffortWeight)
	overrideFloat(&p.Strategic.MandaysWeight, s.MandaysWeight)
	overrideFloat(&p.Strategic.ForgivenEffortWeight, s.ForgivenEffortWeight)
	overrideFloat(&p.Strategic.ForgivenMandaysWeight, s.ForgivenMandaysWeight)

	return p
}

func overrideInt(dst *int, v *int) {
	if v != nil && *v >= 0 {
		*dst = *v
	}
}

func overrideFloat(dst *float64, v *float64) {
	if v != nil && *v >= 0 {
		*dst = *v
	}
}

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	ConfigFile string
	DBFile     string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	cacheDir := envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	appConfig := filepath.Join(configDir, "triage")
	appData := filepath.Join(dataDir, "triage")

	return Paths{
		ConfigDir:  appConfig,
		DataDir:    appData,
		CacheDir:   filepath.Join(cacheDir, "triage"),
		StateDir:   filepath.Join(stateDir, "triage"),
		ConfigFile: filepath.Join(appConfig, "config.toml"),
		DBFile:     filepath.Join(appData, "triage.db"),
	}
}

// EnsureDirs creates all required directories.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk, returning defaults if not found.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := &Config{}

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(paths.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized returns true if a config file has been written.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

// BoolPtr returns a pointer to a bool value.
func BoolPtr(v bool) *bool {
	return &v
}

func defaultConfig() *Config {
	return &Config{}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
