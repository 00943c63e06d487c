package generator

import (
	"math/rand/v2"
	"sort"

	"github.com/yourusername/keno-analytics/internal/models"
)

// UnseenMomentum is the momentum assigned to a number that appears in the
// detection window but never in the baseline.
const UnseenMomentum = 999.0

// MomentumSettings are the tunables of the momentum strategy.
type MomentumSettings struct {
	DetectionWindow int     `json:"detection_window"`
	BaselineWindow  int     `json:"baseline_window"`
	Threshold       float64 `json:"momentum_threshold"`
	TopNPool        int     `json:"top_n_pool"`
}

// MomentumSettingsFrom reads momentum settings from cfg, applying defaults
// to missing or non-positive values.
func MomentumSettingsFrom(cfg Config) MomentumSettings {
	s := MomentumSettings{
		DetectionWindow: cfg.Int(KeyDetectionWindow, DefaultDetectionWindow),
		BaselineWindow:  cfg.Int(KeyBaselineWindow, DefaultBaselineWindow),
		Threshold:       cfg.Float(KeyMomentumThreshold, DefaultMomentumThreshold),
		TopNPool:        cfg.Int(KeyTopNPool, DefaultTopNPool),
	}
	if s.DetectionWindow < 1 {
		s.DetectionWindow = DefaultDetectionWindow
	}
	if s.BaselineWindow < 1 {
		s.BaselineWindow = DefaultBaselineWindow
	}
	if s.Threshold <= 0 {
		s.Threshold = DefaultMomentumThreshold
	}
	if s.TopNPool < 1 {
		s.TopNPool = DefaultTopNPool
	}
	return s
}

// MomentumValue is the momentum ratio of one number.
type MomentumValue struct {
	Number   int     `json:"number"`
	Momentum float64 `json:"momentum"`
	Surging  bool    `json:"surging"`
}

// MomentumStrategy picks numbers whose recent draw rate is surging against
// a longer baseline.
type MomentumStrategy struct {
	*BaseStrategy
}

// NewMomentumStrategy creates a momentum strategy.
func NewMomentumStrategy(rng *rand.Rand) *MomentumStrategy {
	return &MomentumStrategy{BaseStrategy: NewBaseStrategy(rng)}
}

// Name returns the strategy name.
func (s *MomentumStrategy) Name() string { return MethodMomentum }

// Description describes the strategy.
func (s *MomentumStrategy) Description() string {
	return "numbers whose recent draw rate surges above their baseline rate"
}

// Values computes the momentum of every number, highest first. Ties keep
// enumeration order.
func (s *MomentumStrategy) Values(history []models.Round, cfg Config) []MomentumValue {
	settings := MomentumSettingsFrom(cfg)
	recent := models.Sample(history, settings.DetectionWindow)
	baseline := models.Sample(history, settings.BaselineWindow)

	values := make([]MomentumValue, 0, models.BoardSize)
	if len(recent) == 0 || len(baseline) == 0 {
		for n := 1; n <= models.BoardSize; n++ {
			values = append(values, MomentumValue{Number: n})
		}
		return values
	}

	recentCounts := Tally(recent)
	baselineCounts := Tally(baseline)
	for n := 1; n <= models.BoardSize; n++ {
		v := MomentumValue{Number: n}
		switch {
		case baselineCounts[n] == 0 && recentCounts[n] > 0:
			v.Momentum = UnseenMomentum
		case baselineCounts[n] > 0:
			recentRate := float64(recentCounts[n]) / float64(len(recent))
			baselineRate := float64(baselineCounts[n]) / float64(len(baseline))
			v.Momentum = recentRate / baselineRate
		}
		v.Surging = v.Momentum >= settings.Threshold
		values = append(values, v)
	}

	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Momentum > values[j].Momentum
	})
	return values
}

// Generate implements Strategy.
func (s *MomentumStrategy) Generate(count int, history []models.Round, cfg Config) []int {
	count = ClampCount(count)
	if len(history) == 0 {
		return s.Fallback(count)
	}

	settings := MomentumSettingsFrom(cfg)
	baselineRanking := RankByFrequency(Tally(models.Sample(history, settings.BaselineWindow)))
	if len(history) < settings.BaselineWindow {
		return append([]int(nil), baselineRanking[:count]...)
	}

	pool := make([]int, 0, settings.TopNPool)
	for _, v := range s.Values(history, cfg) {
		if !v.Surging || len(pool) >= settings.TopNPool {
			break
		}
		pool = append(pool, v.Number)
	}
	if len(pool) > count {
		pool = pool[:count]
	}

	return takeDistinct(pool, baselineRanking, count)
}
