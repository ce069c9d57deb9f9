package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all settings for the orselect CLI.
type Config struct {
	APIKey    string  `mapstructure:"api_key"`
	BaseURL   string  `mapstructure:"base_url"`
	CacheDir  string  `mapstructure:"cache_dir"`
	CacheTTL  string  `mapstructure:"cache_ttl"`
	NoCache   bool    `mapstructure:"no_cache"`
	RateLimit float64 `mapstructure:"rate_limit"`
	LogLevel  string  `mapstructure:"log_level"`
}

// Load reads configuration from file, environment, and defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("cache_ttl", "1h")
	v.SetDefault("no_cache", false)
	v.SetDefault("rate_limit", 10.0)
	v.SetDefault("log_level", "info")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/orselect")
	}

	// Environment variables
	v.SetEnvPrefix("ORSELECT")
	v.AutomaticEnv()

	_ = v.BindEnv("api_key", "OPENROUTER_API_KEY")
	_ = v.BindEnv("base_url", "ORSELECT_BASE_URL")
	_ = v.BindEnv("log_level", "ORSELECT_LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/orselect-cache"
	}
	return filepath.Join(home, ".cache", "orselect")
}
