package backtest

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yourusername/keno-analytics/internal/config"
	"github.com/yourusername/keno-analytics/internal/engine"
	"github.com/yourusername/keno-analytics/internal/generator"
	"github.com/yourusername/keno-analytics/internal/models"
)

// BacktestConfig holds everything a replay needs
type BacktestConfig struct {
	Method          string
	Count           int
	Options         generator.Config
	Engine          engine.Settings
	WarmupRounds    int
	Wager           decimal.Decimal
	InitialBankroll float64
	Difficulty      string
	Payouts         PayoutTable
	Seed            uint64
}

// DefaultBacktestConfig returns a momentum replay of 10 picks at medium difficulty.
func DefaultBacktestConfig() BacktestConfig {
	return BacktestConfig{
		Method:          generator.MethodMomentum,
		Count:           models.MaxPicks,
		Options:         generator.Config{},
		Engine:          engine.DefaultSettings(),
		WarmupRounds:    50,
		Wager:           decimal.NewFromInt(1),
		InitialBankroll: 100,
		Difficulty:      DifficultyMedium,
		Payouts:         DefaultPayoutTable(),
	}
}

// FromConfig converts app config to backtest config
func FromConfig(cfg *config.Config) (BacktestConfig, error) {
	if cfg == nil {
		return BacktestConfig{}, fmt.Errorf("config is required")
	}

	payouts := DefaultPayoutTable()
	if path := cfg.Backtest.PayoutTablePath; path != "" {
		loaded, err := LoadPayoutTable(path)
		if err != nil {
			return BacktestConfig{}, err
		}
		payouts = loaded
	}

	bt := BacktestConfig{
		Method:          cfg.Generator.Method,
		Count:           cfg.Generator.Count,
		Options:         cfg.Generator.Options(),
		Engine:          engine.SettingsFromConfig(cfg),
		WarmupRounds:    cfg.Backtest.WarmupRounds,
		Wager:           decimal.NewFromFloat(cfg.Backtest.Wager),
		InitialBankroll: cfg.Backtest.InitialBankroll,
		Difficulty:      cfg.Backtest.Difficulty,
		Payouts:         payouts,
		Seed:            cfg.Backtest.Seed,
	}
	return bt, bt.Validate()
}

// Validate validates backtest config parameters
func (b BacktestConfig) Validate() error {
	if b.Count < 1 || b.Count > models.MaxPicks {
		return fmt.Errorf("count must be between 1 and %d, got %d", models.MaxPicks, b.Count)
	}
	if b.WarmupRounds < 0 {
		return fmt.Errorf("warmup rounds cannot be negative")
	}
	if !b.Wager.IsPositive() {
		return fmt.Errorf("wager must be positive")
	}
	if b.InitialBankroll < 0 {
		return fmt.Errorf("initial bankroll cannot be negative")
	}
	if _, ok := b.Payouts[b.Difficulty]; !ok {
		return fmt.Errorf("payout table has no %q difficulty", b.Difficulty)
	}
	return nil
}
