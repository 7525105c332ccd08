package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete config.yaml file.
type Config struct {
	Version       int                 `yaml:"version" mapstructure:"version"`
	Store         StoreConfig         `yaml:"store" mapstructure:"store"`
	Poll          PollConfig          `yaml:"poll" mapstructure:"poll"`
	HTTP          HTTPConfig          `yaml:"http" mapstructure:"http"`
	Notifications NotificationsConfig `yaml:"notifications" mapstructure:"notifications"`
	Lifecycle     LifecycleConfig     `yaml:"lifecycle" mapstructure:"lifecycle"`
}

// StoreConfig controls where the staker list is persisted.
type StoreConfig struct {
	// Path is the bbolt database file. Supports ~ and ${HOME}.
	Path string `yaml:"path" mapstructure:"path"`
}

// PollConfig controls the refresh timer.
type PollConfig struct {
	// Base is the interval at multiplier 1.
	Base time.Duration `yaml:"base" mapstructure:"base"`

	// Multiplier scales Base. Must be at least 1.
	Multiplier int `yaml:"multiplier" mapstructure:"multiplier"`
}

// HTTPConfig controls report fetches.
type HTTPConfig struct {
	// Timeout bounds each fetch. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// NotificationsConfig controls notification mirroring.
type NotificationsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// LifecycleConfig controls how pause/resume signals are treated.
type LifecycleConfig struct {
	// HonorPause makes pause signals suppress refreshes. When false they
	// are logged and ignored.
	HonorPause bool `yaml:"honor_pause" mapstructure:"honor_pause"`
}

// Defaults
const (
	DefaultStorePath      = "~/.local/share/nstake/nstake.db"
	DefaultPollBase       = 60 * time.Second
	DefaultPollMultiplier = 1
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Store: StoreConfig{
			Path: DefaultStorePath,
		},
		Poll: PollConfig{
			Base:       DefaultPollBase,
			Multiplier: DefaultPollMultiplier,
		},
		Lifecycle: LifecycleConfig{
			HonorPause: true,
		},
	}
}
