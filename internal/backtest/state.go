package backtest

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Bet is one simulated wager on a replayed round
type Bet struct {
	Round      int             `json:"round"`
	Time       time.Time       `json:"time"`
	Numbers    []int           `json:"numbers"`
	Hits       int             `json:"hits"`
	Multiplier float64         `json:"multiplier"`
	Wager      decimal.Decimal `json:"wager"`
	Payout     decimal.Decimal `json:"payout"`
	Profit     decimal.Decimal `json:"profit"`
	Refreshed  bool            `json:"refreshed"`
}

// Won reports whether the payout covered the wager.
func (b *Bet) Won() bool {
	return b.Payout.GreaterThanOrEqual(b.Wager)
}

// BacktestState tracks current backtest state
type BacktestState struct {
	CurrentBankroll float64
	PeakBankroll    float64
	Bets            []Bet
	EquityCurve     EquityCurve
	PatternChanges  int

	lastNumbers []int
}

// NewBacktestState initializes backtest state
func NewBacktestState(initialBankroll float64, start time.Time) *BacktestState {
	state := &BacktestState{
		CurrentBankroll: initialBankroll,
		PeakBankroll:    initialBankroll,
		Bets:            []Bet{},
		EquityCurve:     EquityCurve{},
	}
	state.RecordEquityPoint(-1, start, initialBankroll)
	return state
}

// UpdateState settles a bet into the bankroll and equity curve. A bet on
// different numbers than the previous one counts as a pattern change.
func (s *BacktestState) UpdateState(bet Bet) {
	if s.lastNumbers == nil || !slices.Equal(s.lastNumbers, bet.Numbers) {
		s.PatternChanges++
		s.lastNumbers = bet.Numbers
	}

	s.CurrentBankroll += bet.Profit.InexactFloat64()
	if s.CurrentBankroll > s.PeakBankroll {
		s.PeakBankroll = s.CurrentBankroll
	}
	s.Bets = append(s.Bets, bet)
	s.RecordEquityPoint(bet.Round, bet.Time, s.CurrentBankroll)
}

// GetCurrentDrawdown calculates peak-to-trough drawdown
func (s *BacktestState) GetCurrentDrawdown() float64 {
	if s.PeakBankroll <= 0 {
		return 0
	}
	drawdown := (s.PeakBankroll - s.CurrentBankroll) / s.PeakBankroll
	if drawdown < 0 {
		return 0
	}
	return drawdown
}

// RecordEquityPoint adds an equity point to the curve
func (s *BacktestState) RecordEquityPoint(round int, t time.Time, value float64) {
	drawdown := 0.0
	if value < s.PeakBankroll && s.PeakBankroll > 0 {
		drawdown = (s.PeakBankroll - value) / s.PeakBankroll
	}
	s.EquityCurve = append(s.EquityCurve, EquityPoint{
		Round:    round,
		Time:     t,
		Value:    value,
		Drawdown: drawdown,
	})
}
