// Package config loads the Argus service configuration via viper:
// config.yaml in the working directory or /etc/argus, overridable with
// ARGUS_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the Argus service
type Config struct {
	DataPaths struct {
		// DataDir is the base data directory
		DataDir string `mapstructure:"data_dir"`
		// SQLitePath is the alert database file; defaults under DataDir
		SQLitePath string `mapstructure:"sqlite_path"`
		// PolicyPath is the YAML detection policy; empty uses built-in defaults
		PolicyPath string `mapstructure:"policy_path"`
	} `mapstructure:"data_paths"`

	Engine struct {
		// Workers fans detectors out across goroutines; 1 runs them serially
		Workers int `mapstructure:"workers"`
		// RunInterval is how often the engine re-evaluates the event history
		RunInterval time.Duration `mapstructure:"run_interval"`
	} `mapstructure:"engine"`

	Listener struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"listener"`

	Server struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"server"`

	Suppression struct {
		Enabled   bool          `mapstructure:"enabled"`
		RedisAddr string        `mapstructure:"redis_addr"`
		RedisDB   int           `mapstructure:"redis_db"`
		TTL       time.Duration `mapstructure:"ttl"`
	} `mapstructure:"suppression"`
}

// LoadConfig reads config.yaml plus environment overrides
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/argus")

	v.SetEnvPrefix("ARGUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_paths.data_dir", "./data")
	v.SetDefault("data_paths.sqlite_path", "./data/argus.db")
	v.SetDefault("data_paths.policy_path", "")

	v.SetDefault("engine.workers", 4)
	v.SetDefault("engine.run_interval", 30*time.Second)

	v.SetDefault("listener.host", "0.0.0.0")
	v.SetDefault("listener.port", 9514)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 9090)

	v.SetDefault("suppression.enabled", false)
	v.SetDefault("suppression.redis_addr", "localhost:6379")
	v.SetDefault("suppression.redis_db", 0)
	v.SetDefault("suppression.ttl", time.Hour)
}
