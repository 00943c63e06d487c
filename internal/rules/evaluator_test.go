package rules

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keno-analytics/internal/models"
)

func drawn() []int {
	numbers := make([]int, models.DrawSize)
	for i := range numbers {
		numbers[i] = i + 1
	}
	return numbers
}

// outcome builds a round wagering 1 for the given payout, selecting picks.
func outcome(payout float64, picks ...int) models.Round {
	return models.Round{
		DrawnNumbers:    drawn(),
		SelectedNumbers: picks,
		Wager:           decimal.NewFromInt(1),
		Payout:          decimal.NewFromFloat(payout),
		Timestamp:       time.Unix(1700000000, 0),
	}
}

func won() models.Round  { return outcome(3, 1, 2, 25) }
func lost() models.Round { return outcome(0, 30, 31, 32) }

func TestBetsLostThresholdSwitches(t *testing.T) {
	rs := RuleSet{
		Enabled: true,
		Logic:   LogicOr,
		Conditions: []Condition{
			{Metric: MetricBetsLost, Operator: OpGreaterEqual, Value: 3, RoundsWindow: 5, Action: ActionSwitch},
		},
	}

	threeLosses := []models.Round{lost(), won(), lost(), won(), lost()}
	assert.Equal(t, ActionSwitch, Evaluate(rs, threeLosses, 0))

	twoLosses := []models.Round{lost(), won(), won(), won(), lost()}
	assert.Equal(t, ActionStay, Evaluate(rs, twoLosses, 0))
}

func TestConditionNeedsEnoughRoundsSinceRefresh(t *testing.T) {
	c := Condition{Metric: MetricBetsLost, Operator: OpGreaterEqual, Value: 3, RoundsWindow: 5, Action: ActionSwitch}

	history := []models.Round{won(), won(), lost(), lost(), lost(), lost()}
	assert.True(t, ConditionMet(c, history, 0))
	assert.False(t, ConditionMet(c, history, 2), "only four rounds since refresh")
}

func TestWindowOnlySeesRoundsSinceRefresh(t *testing.T) {
	history := []models.Round{lost(), lost(), won(), won(), won()}

	sinceRefresh := Condition{Metric: MetricBetsLost, Operator: OpGreater, Value: 0, Action: ActionSwitch}
	assert.True(t, ConditionMet(sinceRefresh, history, 0))
	assert.False(t, ConditionMet(sinceRefresh, history, 2))

	lastThree := Condition{Metric: MetricBetsLost, Operator: OpGreater, Value: 0, RoundsWindow: 3, Action: ActionSwitch}
	assert.False(t, ConditionMet(lastThree, history, 0))
}

func TestStreaksNeedOneRound(t *testing.T) {
	c := Condition{Metric: MetricLossStreak, Operator: OpGreaterEqual, Value: 2, RoundsWindow: 10, Action: ActionSwitch}

	history := []models.Round{won(), won(), lost(), lost()}
	assert.True(t, ConditionMet(c, history, 2))
	assert.False(t, ConditionMet(c, history, 4), "no rounds since refresh")
	assert.False(t, ConditionMet(c, history, 3), "streak of one")
}

func TestOrTakesFirstMetCondition(t *testing.T) {
	rs := RuleSet{
		Enabled: true,
		Logic:   LogicOr,
		Conditions: []Condition{
			{Metric: MetricWinRate, Operator: OpLess, Value: 10, RoundsWindow: 3, Action: ActionSwitch},
			{Metric: MetricProfitStreak, Operator: OpGreaterEqual, Value: 2, Action: ActionStay},
			{Metric: MetricTotalHits, Operator: OpGreater, Value: 0, RoundsWindow: 1, Action: ActionSwitch},
		},
	}
	history := []models.Round{won(), won(), won()}

	decision := NewEvaluator(nil).Evaluate(rs, history, 0)
	assert.Equal(t, ActionStay, decision.Action)
	assert.Equal(t, []int{1, 2}, decision.Met)
}

func TestOrNoneMetInvertsFirstAction(t *testing.T) {
	rs := RuleSet{
		Enabled: true,
		Logic:   LogicOr,
		Conditions: []Condition{
			{Metric: MetricTotalProfit, Operator: OpGreater, Value: 1000, RoundsWindow: 1, Action: ActionStay},
			{Metric: MetricBetsLost, Operator: OpGreater, Value: 50, RoundsWindow: 1, Action: ActionSwitch},
		},
	}
	assert.Equal(t, ActionSwitch, Evaluate(rs, []models.Round{won()}, 0))
}

func TestAndLogic(t *testing.T) {
	history := []models.Round{lost(), lost(), lost()}
	lossStreak := Condition{Metric: MetricLossStreak, Operator: OpGreaterEqual, Value: 3, Action: ActionSwitch}
	noProfit := Condition{Metric: MetricTotalProfit, Operator: OpLess, Value: 0, RoundsWindow: 3, Action: ActionSwitch}
	winning := Condition{Metric: MetricWinRate, Operator: OpGreater, Value: 50, RoundsWindow: 3, Action: ActionSwitch}
	stayer := Condition{Metric: MetricTotalMisses, Operator: OpGreater, Value: 0, RoundsWindow: 3, Action: ActionStay}

	tests := []struct {
		name       string
		conditions []Condition
		expected   Action
	}{
		{"all met, shared action", []Condition{lossStreak, noProfit}, ActionSwitch},
		{"one unmet uses default", []Condition{lossStreak, winning}, ActionStay},
		{"all met, mixed actions uses default", []Condition{lossStreak, stayer}, ActionStay},
		{"single condition behaves as OR", []Condition{winning}, ActionStay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := RuleSet{Enabled: true, Logic: LogicAnd, Conditions: tt.conditions, DefaultAction: ActionStay}
			assert.Equal(t, tt.expected, Evaluate(rs, history, 0))
		})
	}

	rs := RuleSet{Enabled: true, Logic: LogicAnd, Conditions: []Condition{lossStreak, winning}, DefaultAction: ActionSwitch}
	assert.Equal(t, ActionSwitch, Evaluate(rs, history, 0))
}

func TestDisabledOrEmptySwitches(t *testing.T) {
	history := []models.Round{won()}
	c := Condition{Metric: MetricBetsWon, Operator: OpGreaterEqual, Value: 1, RoundsWindow: 1, Action: ActionStay}

	assert.Equal(t, ActionSwitch, Evaluate(RuleSet{Enabled: false, Conditions: []Condition{c}}, history, 0))
	assert.Equal(t, ActionSwitch, Evaluate(RuleSet{Enabled: true}, history, 0))
	assert.Equal(t, ActionStay, Evaluate(RuleSet{Enabled: true, Conditions: []Condition{c}}, history, 0))
}

func TestUnknownMetricOrOperatorIsUnmet(t *testing.T) {
	history := []models.Round{won(), won()}
	assert.False(t, ConditionMet(Condition{Metric: "luck", Operator: OpGreater, Value: -1, RoundsWindow: 1}, history, 0))
	assert.False(t, ConditionMet(Condition{Metric: MetricBetsWon, Operator: "!=", Value: 0, RoundsWindow: 1}, history, 0))
}

func TestComputeMetrics(t *testing.T) {
	history := []models.Round{
		outcome(0, 1, 2, 30),   // lost, 2 hits
		outcome(1, 3, 31),      // break-even, 1 hit
		outcome(4, 4, 5, 6, 7), // won, 4 hits
		outcome(2.5, 8, 33),    // won, 1 hit
	}

	m := ComputeMetrics(history, 0, 0)
	assert.Equal(t, 4, m.Rounds)
	assert.Equal(t, 3, m.BetsWon)
	assert.Equal(t, 1, m.BetsLost)
	assert.InDelta(t, 75.0, m.WinRate, 1e-9)
	assert.True(t, m.TotalProfit.Equal(decimal.NewFromFloat(3.5)))
	assert.True(t, m.AverageProfit.Equal(decimal.NewFromFloat(0.875)))
	assert.Equal(t, 2, m.ProfitStreak)
	assert.Equal(t, 0, m.LossStreak)
	assert.Equal(t, 8, m.TotalHits)
	assert.Equal(t, 3, m.TotalMisses)
	assert.InDelta(t, 8.0/11.0*100, m.HitRate, 1e-9)
	assert.InDelta(t, 2.0, m.AverageHits, 1e-9)

	windowed := ComputeMetrics(history, 0, 2)
	assert.Equal(t, 2, windowed.Rounds)
	assert.Equal(t, 2, windowed.BetsWon)

	empty := ComputeMetrics(history, 4, 5)
	assert.Equal(t, 0, empty.Rounds)
	assert.Equal(t, 0.0, empty.WinRate)
	assert.True(t, empty.TotalProfit.IsZero())
}

func TestRuleSetValidate(t *testing.T) {
	good := RuleSet{
		Enabled: true,
		Logic:   LogicAnd,
		Conditions: []Condition{
			{Metric: MetricHitRate, Operator: OpLessEqual, Value: 20, RoundsWindow: 10, Action: ActionSwitch},
		},
		DefaultAction: ActionStay,
	}
	require.NoError(t, good.Validate())

	bad := good
	bad.Conditions = []Condition{{Metric: "luck", Operator: OpEqual, Action: ActionStay}}
	assert.Error(t, bad.Validate())

	bad = good
	bad.Logic = "XOR"
	assert.Error(t, bad.Validate())

	assert.Equal(t, LogicAnd, ParseLogic(" and "))
	assert.Equal(t, LogicOr, ParseLogic("whatever"))
	assert.Equal(t, ActionStay, ActionSwitch.Opposite())
	assert.Equal(t, ActionSwitch, ActionStay.Opposite())
}
