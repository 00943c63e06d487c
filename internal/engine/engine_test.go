package engine

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keno-analytics/internal/config"
	"github.com/yourusername/keno-analytics/internal/generator"
	"github.com/yourusername/keno-analytics/internal/metrics"
	"github.com/yourusername/keno-analytics/internal/models"
	"github.com/yourusername/keno-analytics/internal/rules"
)

var clock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testRound(start int, won bool) models.Round {
	clock = clock.Add(time.Minute)
	drawn := make([]int, models.DrawSize)
	for i := range drawn {
		drawn[i] = (start+i-1)%models.BoardSize + 1
	}
	payout := decimal.Zero
	if won {
		payout = decimal.NewFromInt(2)
	}
	return models.Round{
		DrawnNumbers:    drawn,
		SelectedNumbers: []int{1, 2, 3},
		Wager:           decimal.NewFromInt(1),
		Payout:          payout,
		Timestamp:       clock,
	}
}

func newTestEngine(t *testing.T, settings Settings, seeded int) *Engine {
	t.Helper()
	e := New(settings, nil, rand.New(rand.NewPCG(1, 2)))
	for i := 0; i < seeded; i++ {
		require.NoError(t, e.RecordRound(testRound(i%5+1, false)))
	}
	return e
}

func record(t *testing.T, e *Engine, outcomes ...bool) {
	t.Helper()
	for _, won := range outcomes {
		require.NoError(t, e.RecordRound(testRound(1, won)))
	}
}

func TestPredictIntervalRefresh(t *testing.T) {
	e := newTestEngine(t, Settings{AutoRefresh: true, Interval: 5}, 10)

	first := e.Predict(generator.MethodFrequency, 5, nil)
	assert.True(t, first.Refreshed)
	assert.Equal(t, 10, first.Round)
	assert.Equal(t, "cache miss", first.Reason)
	assert.Len(t, first.Numbers, 5)

	record(t, e, false, false, false, false)
	held := e.Predict(generator.MethodFrequency, 5, nil)
	assert.False(t, held.Refreshed)
	assert.Equal(t, first.Numbers, held.Numbers)

	record(t, e, false)
	expired := e.Predict(generator.MethodFrequency, 5, nil)
	assert.True(t, expired.Refreshed, "interval elapsed after 5 rounds")
	assert.Equal(t, "cache expired", expired.Reason)
	assert.Equal(t, 15, expired.Round)
}

func TestPredictManualModeHolds(t *testing.T) {
	e := newTestEngine(t, Settings{AutoRefresh: false, Interval: 1}, 3)

	first := e.Predict(generator.MethodRandom, 6, nil)
	record(t, e, false, true, false, true, false)
	again := e.Predict(generator.MethodRandom, 6, nil)

	assert.False(t, again.Refreshed)
	assert.Equal(t, first.Numbers, again.Numbers)
}

func TestPredictStayIfProfitable(t *testing.T) {
	e := newTestEngine(t, Settings{AutoRefresh: true, Interval: 2, StayIfProfitable: true}, 5)

	first := e.Predict(generator.MethodCold, 4, nil)
	record(t, e, true, true)

	extended := e.Predict(generator.MethodCold, 4, nil)
	assert.False(t, extended.Refreshed)
	assert.Equal(t, "cache extended", extended.Reason)
	assert.Equal(t, first.Numbers, extended.Numbers)

	record(t, e, false, false)
	assert.True(t, e.Predict(generator.MethodCold, 4, nil).Refreshed)
}

func TestPredictWithRules(t *testing.T) {
	settings := Settings{
		Rules: rules.RuleSet{
			Enabled: true,
			Logic:   rules.LogicOr,
			Conditions: []rules.Condition{{
				Metric:       rules.MetricBetsLost,
				Operator:     rules.OpGreaterEqual,
				Value:        3,
				RoundsWindow: 5,
				Action:       rules.ActionSwitch,
			}},
		},
	}
	e := newTestEngine(t, settings, 10)

	first := e.Predict(generator.MethodFrequency, 10, nil)
	assert.True(t, first.Refreshed)

	same := e.Predict(generator.MethodFrequency, 10, nil)
	assert.False(t, same.Refreshed)
	assert.Equal(t, "already evaluated this round", same.Reason)

	record(t, e, false, false, true, true, true)
	stay := e.Predict(generator.MethodFrequency, 10, nil)
	assert.False(t, stay.Refreshed, "two losses in five rounds keep the prediction")
	assert.Equal(t, first.Numbers, stay.Numbers)

	record(t, e, false, false, false)
	switched := e.Predict(generator.MethodFrequency, 10, nil)
	assert.True(t, switched.Refreshed, "three losses in the last five rounds switch")
	assert.Equal(t, 18, switched.Round)

	decision := e.Decide(generator.MethodFrequency, 10, nil)
	assert.Equal(t, rules.ActionStay, decision.Action, "nothing played since the switch")
}

func TestPredictWithRulesEvaluatesOncePerRound(t *testing.T) {
	settings := Settings{
		Rules: rules.RuleSet{
			Enabled: true,
			Logic:   rules.LogicOr,
			Conditions: []rules.Condition{{
				Metric:       rules.MetricBetsLost,
				Operator:     rules.OpGreaterEqual,
				Value:        3,
				RoundsWindow: 5,
				Action:       rules.ActionSwitch,
			}},
		},
	}
	e := newTestEngine(t, settings, 10)
	first := e.Predict(generator.MethodMomentum, 7, nil)
	require.True(t, first.Refreshed)

	record(t, e, true, true)
	stays := metrics.RuleDecisionsTotal.WithLabelValues("OR", "stay")
	before := testutil.ToFloat64(stays)

	stay := e.Predict(generator.MethodMomentum, 7, nil)
	assert.False(t, stay.Refreshed)
	for i := 0; i < 2; i++ {
		again := e.Predict(generator.MethodMomentum, 7, nil)
		assert.Equal(t, "already evaluated this round", again.Reason)
		assert.Equal(t, first.Numbers, again.Numbers)
	}
	assert.Equal(t, before+1, testutil.ToFloat64(stays))

	record(t, e, true)
	e.Predict(generator.MethodMomentum, 7, nil)
	assert.Equal(t, before+2, testutil.ToFloat64(stays), "a new round is evaluated again")
}

func TestPredictUnknownMethodAndClamp(t *testing.T) {
	e := newTestEngine(t, DefaultSettings(), 2)

	p := e.Predict("astrology", 7, nil)
	assert.Equal(t, generator.MethodRandom, p.Method)
	assert.Len(t, p.Numbers, 7)

	assert.Len(t, e.Predict(generator.MethodFrequency, 99, nil).Numbers, models.BoardSize)
	assert.Len(t, e.Predict(generator.MethodFrequency, 0, nil).Numbers, 1)
}

func TestPredictEmptyHistoryFallsBack(t *testing.T) {
	e := New(DefaultSettings(), nil, nil)
	for _, method := range generator.BuiltinMethods() {
		p := e.Predict(method, 10, generator.Config{})
		assert.Len(t, p.Numbers, 10, method)
	}
}

func TestRecordRoundRejectsInvalid(t *testing.T) {
	e := newTestEngine(t, DefaultSettings(), 1)

	bad := testRound(1, false)
	bad.SelectedNumbers = []int{0}
	assert.ErrorIs(t, e.RecordRound(bad), models.ErrInvalidRound)
	assert.Equal(t, 1, e.Len())

	assert.ErrorIs(t, e.LoadHistory([]models.Round{testRound(1, true), bad}), models.ErrInvalidRound)
	assert.Equal(t, 1, e.Len())
}

func TestPatternsAndMetrics(t *testing.T) {
	e := New(DefaultSettings(), nil, nil)
	rounds := []models.Round{testRound(1, true), testRound(1, false), testRound(1, false)}
	require.NoError(t, e.LoadHistory(rounds))

	found := e.FindCommonPatterns(3, 5, 0)
	require.Len(t, found, 5)
	for _, p := range found {
		assert.Equal(t, 3, p.OccurrenceCount)
	}
	assert.Equal(t, []int{1, 2, 3}, found[0].Numbers)

	again := e.FindCommonPatterns(3, 5, 0)
	assert.Equal(t, found, again)
	stats := e.Stats()
	assert.Equal(t, uint64(1), stats.PatternHits)
	assert.Equal(t, 3, stats.Rounds)

	m := e.Metrics(0)
	assert.Equal(t, 3, m.Rounds)
	assert.Equal(t, 1, m.BetsWon)
	assert.Equal(t, 2, m.LossStreak)
	assert.Equal(t, 9, m.TotalHits)
	assert.True(t, m.TotalProfit.Equal(decimal.NewFromInt(-1)))

	c := e.Completion([]int{1, 2, 3})
	assert.Equal(t, 3, c.Completions)

	assert.Len(t, e.Momentum(nil), models.BoardSize)

	e.Reset()
	assert.Zero(t, e.Len())
	assert.Zero(t, e.Stats().PredictionCache.Entries)
}

func TestClearPredictions(t *testing.T) {
	e := newTestEngine(t, DefaultSettings(), 3)
	e.Predict(generator.MethodFrequency, 5, nil)
	e.Predict(generator.MethodCold, 5, nil)
	require.Equal(t, 2, e.Stats().PredictionCache.Entries)

	e.ClearPredictions(generator.MethodCold)
	assert.Equal(t, 1, e.Stats().PredictionCache.Entries)
	e.ClearPredictions("")
	assert.Zero(t, e.Stats().PredictionCache.Entries)
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Cache: config.CacheConfig{AutoRefresh: true, Interval: 7, StayIfProfitable: true},
		Rules: config.RulesConfig{
			Enabled: true,
			Logic:   "AND",
			Conditions: []config.ConditionConfig{
				{Metric: "winRate", Operator: "<", Value: 30, Rounds: 10, Action: "switch"},
			},
		},
		Patterns: config.PatternsConfig{CacheTTLSeconds: 60},
	}

	s := SettingsFromConfig(cfg)
	assert.True(t, s.AutoRefresh)
	assert.Equal(t, 7, s.Interval)
	assert.Equal(t, time.Minute, s.PatternCacheTTL)
	assert.Equal(t, rules.LogicAnd, s.Rules.Logic)
	require.Len(t, s.Rules.Conditions, 1)
	assert.Equal(t, 10, s.Rules.Conditions[0].RoundsWindow)
}
