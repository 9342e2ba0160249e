// Package config loads Attune configuration via viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved application configuration.
type Config struct {
	// DataDir is the root directory for Attune state.
	DataDir string `mapstructure:"data_dir"`

	// DBPath is the sqlite database path.
	DBPath string `mapstructure:"db_path"`

	// CacheDir is the local balance cache directory.
	CacheDir string `mapstructure:"cache_dir"`

	// DefaultDurationMinutes is the per-stage duration used when a run
	// does not specify one. Clamped to [1, 5].
	DefaultDurationMinutes int `mapstructure:"default_duration_minutes"`

	// DefaultMode is the default stage selection mode.
	DefaultMode string `mapstructure:"default_mode"`

	// TherapistID is the authenticated actor identity used for durable
	// session records. Empty means unauthenticated.
	TherapistID string `mapstructure:"therapist_id"`

	// TickInterval is the progress tick interval for transitions.
	TickInterval time.Duration `mapstructure:"tick_interval"`

	// LogLevel is the minimum log level.
	LogLevel string `mapstructure:"log_level"`

	// LogJSON emits JSON logs instead of console output.
	LogJSON bool `mapstructure:"log_json"`
}

// MinDurationMinutes and MaxDurationMinutes bound per-stage durations.
const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 5
)

// Load reads configuration from the given file (optional), the default
// config location, and ATTUNE_* environment variables.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("default_duration_minutes", 1)
	v.SetDefault("default_mode", "all")
	v.SetDefault("tick_interval", 250*time.Millisecond)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, "attune"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ATTUNE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit one is not.
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DataDir = filepath.Join(home, ".attune")
		} else {
			cfg.DataDir = ".attune"
		}
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "attune.db")
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(cfg.DataDir, "cache")
	}
	if cfg.DefaultDurationMinutes < MinDurationMinutes {
		cfg.DefaultDurationMinutes = MinDurationMinutes
	}
	if cfg.DefaultDurationMinutes > MaxDurationMinutes {
		cfg.DefaultDurationMinutes = MaxDurationMinutes
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = "all"
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 250 * time.Millisecond
	}
}

// EnsureDirs creates the data and cache directories if missing.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.DataDir, c.CacheDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
