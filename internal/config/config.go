// Package config provides configuration management for the keno analytics engine.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/keno-analytics/internal/generator"
	"github.com/yourusername/keno-analytics/internal/patterns"
	"github.com/yourusername/keno-analytics/internal/rules"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Generator GeneratorConfig `mapstructure:"generator" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Rules     RulesConfig     `mapstructure:"rules"`
	Patterns  PatternsConfig  `mapstructure:"patterns" validate:"required"`
	Backtest  BacktestConfig  `mapstructure:"backtest" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	HistoryFile string `mapstructure:"history_file"`
}

// GeneratorConfig selects the prediction strategy and its tunables
type GeneratorConfig struct {
	Method            string  `mapstructure:"method" validate:"required,strategy"`
	Count             int     `mapstructure:"count" validate:"min=1,max=40"`
	SampleSize        int     `mapstructure:"sample_size" validate:"gte=0"`
	DetectionWindow   int     `mapstructure:"detection_window" validate:"gt=0"`
	BaselineWindow    int     `mapstructure:"baseline_window" validate:"gt=0"`
	MomentumThreshold float64 `mapstructure:"momentum_threshold" validate:"gt=0"`
	TopNPool          int     `mapstructure:"top_n_pool" validate:"gt=0"`
	Shape             string  `mapstructure:"shape"`
	Placement         string  `mapstructure:"placement" validate:"omitempty,oneof=center random hot"`
	Rotation          string  `mapstructure:"rotation"`
}

// CacheConfig represents the prediction refresh policy
type CacheConfig struct {
	AutoRefresh      bool `mapstructure:"auto_refresh"`
	Interval         int  `mapstructure:"interval" validate:"gte=1"`
	StayIfProfitable bool `mapstructure:"stay_if_profitable"`
}

// ConditionConfig is one refresh rule condition
type ConditionConfig struct {
	Metric   string  `mapstructure:"metric" validate:"required,metric"`
	Operator string  `mapstructure:"operator" validate:"required"`
	Value    float64 `mapstructure:"value"`
	Rounds   int     `mapstructure:"rounds" validate:"gte=0"`
	Action   string  `mapstructure:"action" validate:"required,oneof=stay switch"`
}

// RulesConfig represents the refresh rule engine configuration
type RulesConfig struct {
	Enabled       bool              `mapstructure:"enabled"`
	Logic         string            `mapstructure:"logic" validate:"omitempty,oneof=AND OR"`
	DefaultAction string            `mapstructure:"default_action" validate:"omitempty,oneof=stay switch"`
	Conditions    []ConditionConfig `mapstructure:"conditions" validate:"dive"`
}

// PatternsConfig represents pattern miner configuration
type PatternsConfig struct {
	Size             int     `mapstructure:"size" validate:"min=3,max=10"`
	TopN             int     `mapstructure:"top_n" validate:"gte=0"`
	SampleSize       int     `mapstructure:"sample_size" validate:"gte=0"`
	CacheTTLSeconds  int     `mapstructure:"cache_ttl_seconds" validate:"gt=0"`
	RecencyWeighting bool    `mapstructure:"recency_weighting"`
	Decay            float64 `mapstructure:"decay" validate:"gt=0,lte=1"`
}

// BacktestConfig represents backtest replay configuration
type BacktestConfig struct {
	WarmupRounds    int     `mapstructure:"warmup_rounds" validate:"gte=0"`
	Wager           float64 `mapstructure:"wager" validate:"gt=0"`
	InitialBankroll float64 `mapstructure:"initial_bankroll" validate:"gte=0"`
	Difficulty      string  `mapstructure:"difficulty" validate:"required,oneof=low medium high"`
	PayoutTablePath string  `mapstructure:"payout_table_path"`
	OutputPath      string  `mapstructure:"output_path"`
	Seed            uint64  `mapstructure:"seed"`
}

// DatabaseConfig represents the optional PostgreSQL history store
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
	Table          string `mapstructure:"table"`
}

// MetricsConfig represents Prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Options converts the generator section into strategy options.
func (g GeneratorConfig) Options() generator.Config {
	opts := generator.Config{
		generator.KeySampleSize:        g.SampleSize,
		generator.KeyDetectionWindow:   g.DetectionWindow,
		generator.KeyBaselineWindow:    g.BaselineWindow,
		generator.KeyMomentumThreshold: g.MomentumThreshold,
		generator.KeyTopNPool:          g.TopNPool,
	}
	if g.Shape != "" {
		opts[generator.KeyShape] = g.Shape
	}
	if g.Placement != "" {
		opts[generator.KeyPlacement] = g.Placement
	}
	if g.Rotation != "" {
		opts[generator.KeyRotation] = g.Rotation
	}
	return opts
}

// RuleSet converts the rules section into an evaluable rule set.
func (r RulesConfig) RuleSet() rules.RuleSet {
	rs := rules.RuleSet{
		Enabled:       r.Enabled,
		Logic:         rules.ParseLogic(r.Logic),
		DefaultAction: rules.Action(r.DefaultAction),
		Conditions:    make([]rules.Condition, 0, len(r.Conditions)),
	}
	for _, c := range r.Conditions {
		rs.Conditions = append(rs.Conditions, rules.Condition{
			Metric:       rules.Metric(c.Metric),
			Operator:     rules.Operator(c.Operator),
			Value:        c.Value,
			RoundsWindow: c.Rounds,
			Action:       rules.Action(c.Action),
		})
	}
	return rs
}

// CacheTTL returns the pattern cache lifetime.
func (p PatternsConfig) CacheTTL() time.Duration {
	return time.Duration(p.CacheTTLSeconds) * time.Second
}

// Options converts the section to miner options.
func (p PatternsConfig) Options() patterns.Options {
	return patterns.Options{
		PatternSize:      p.Size,
		TopN:             p.TopN,
		SampleSize:       p.SampleSize,
		RecencyWeighting: p.RecencyWeighting,
		Decay:            p.Decay,
	}
}
