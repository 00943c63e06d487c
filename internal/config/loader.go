package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override, e.g. KENO_ENGINE_GENERATOR_METHOD.
	EnvPrefix = "KENO_ENGINE"

	// DefaultConfigPath is used when no path is supplied.
	DefaultConfigPath = "config/config.yaml"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers a default for every scalar key so environment
// overrides resolve even when the YAML file omits the section.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "keno-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.history_file", "")

	v.SetDefault("generator.method", "frequency")
	v.SetDefault("generator.count", 10)
	v.SetDefault("generator.sample_size", 100)
	v.SetDefault("generator.detection_window", 5)
	v.SetDefault("generator.baseline_window", 50)
	v.SetDefault("generator.momentum_threshold", 1.5)
	v.SetDefault("generator.top_n_pool", 15)
	v.SetDefault("generator.shape", "random")
	v.SetDefault("generator.placement", "center")
	v.SetDefault("generator.rotation", "0")

	v.SetDefault("cache.auto_refresh", true)
	v.SetDefault("cache.interval", 10)
	v.SetDefault("cache.stay_if_profitable", false)

	v.SetDefault("rules.enabled", false)
	v.SetDefault("rules.logic", "OR")
	v.SetDefault("rules.default_action", "stay")

	v.SetDefault("patterns.size", 3)
	v.SetDefault("patterns.top_n", 10)
	v.SetDefault("patterns.sample_size", 0)
	v.SetDefault("patterns.cache_ttl_seconds", 300)
	v.SetDefault("patterns.recency_weighting", false)
	v.SetDefault("patterns.decay", 0.98)

	v.SetDefault("backtest.warmup_rounds", 50)
	v.SetDefault("backtest.wager", 1.0)
	v.SetDefault("backtest.initial_bankroll", 100.0)
	v.SetDefault("backtest.difficulty", "medium")
	v.SetDefault("backtest.payout_table_path", "")
	v.SetDefault("backtest.output_path", "")
	v.SetDefault("backtest.seed", 0)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "keno")
	v.SetDefault("database.user", "keno")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.table", "keno_rounds")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}

// readExpanded reads the YAML file and expands ${VAR} placeholders before parsing.
func readExpanded(v *viper.Viper, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Load reads and parses the configuration from file and environment variables.
// The file must exist. ${VAR_NAME} placeholders in the YAML are expanded.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	if err := readExpanded(v, configPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for every field.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if err := readExpanded(v, configPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// ReloadFromEnv reloads the configuration when KENO_ENGINE_CONFIG_PATH is set.
func ReloadFromEnv(cfg *Config) error {
	envPath := os.Getenv(EnvPrefix + "_CONFIG_PATH")
	if envPath == "" {
		return nil
	}
	newCfg, err := LoadWithDefaults(envPath)
	if err != nil {
		return err
	}
	*cfg = *newCfg
	return nil
}
