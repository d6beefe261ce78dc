package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// AppName names the XDG subdirectories and the config file owner.
const AppName = "habit"

// Config holds the top-level habit configuration.
type Config struct {
	User   UserConfig   `toml:"user"`
	Habits HabitsConfig `toml:"habits"`
	Log    LogConfig    `toml:"log"`
}

type UserConfig struct {
	Name string `toml:"name"`
}

// HabitsConfig holds defaults applied by `habit add` when a flag is omitted.
type HabitsConfig struct {
	DefaultTargetDays int    `toml:"default_target_days"`
	DefaultIcon       string `toml:"default_icon"`
	DefaultColor      string `toml:"default_color"`
	// WarnFuture prints a warning when completing a day after today.
	// Defaults to true when not set.
	WarnFuture *bool `toml:"warn_future,omitempty"`
}

// WarnsFuture returns whether future-day warnings are on.
// Treats nil (missing from config) as true.
func (h HabitsConfig) WarnsFuture() bool {
	if h.WarnFuture == nil {
		return true
	}
	return *h.WarnFuture
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	LogDir     string
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

	appConfig := filepath.Join(configDir, AppName)
	appData := filepath.Join(dataDir, AppName)
	appState := filepath.Join(stateDir, AppName)

	return Paths{
		ConfigDir:  appConfig,
		DataDir:    appData,
		CacheDir:   filepath.Join(cacheDir, AppName),
		StateDir:   appState,
		LogDir:     filepath.Join(appState, "logs"),
		ConfigFile: filepath.Join(appConfig, "config.toml"),
		DBFile:     filepath.Join(appData, AppName+".db"),
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

// Load reads config from disk, returning defaults if not found. Keys missing
// from the file keep their default values.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := defaultConfig()

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
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

// Initialized returns true if habit has been set up.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

// BoolPtr returns a pointer to a bool value.
func BoolPtr(v bool) *bool {
	return &v
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Habits: HabitsConfig{
			DefaultTargetDays: 30,
			DefaultIcon:       "brain",
			DefaultColor:      "#3B82F6",
			WarnFuture:        BoolPtr(true),
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
