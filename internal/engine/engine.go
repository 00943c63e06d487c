// Package engine wires the history store, strategy registry, prediction
// cache, rule evaluator and pattern miner behind one API.
package engine

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keno-analytics/internal/cache"
	"github.com/yourusername/keno-analytics/internal/config"
	"github.com/yourusername/keno-analytics/internal/generator"
	"github.com/yourusername/keno-analytics/internal/history"
	"github.com/yourusername/keno-analytics/internal/logger"
	"github.com/yourusername/keno-analytics/internal/metrics"
	"github.com/yourusername/keno-analytics/internal/models"
	"github.com/yourusername/keno-analytics/internal/patterns"
	"github.com/yourusername/keno-analytics/internal/rules"
)

// Settings controls how predictions are refreshed.
type Settings struct {
	AutoRefresh      bool
	Interval         int
	StayIfProfitable bool

	// Rules replace the interval policy when enabled.
	Rules rules.RuleSet

	PatternCacheTTL time.Duration
}

// DefaultSettings returns automatic refresh every 10 rounds with rules off.
func DefaultSettings() Settings {
	return Settings{
		AutoRefresh:     true,
		Interval:        10,
		Rules:           rules.RuleSet{Logic: rules.LogicOr, DefaultAction: rules.ActionStay},
		PatternCacheTTL: patterns.DefaultCacheTTL,
	}
}

// SettingsFromConfig builds engine settings from the cache, rules and patterns sections.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		AutoRefresh:      cfg.Cache.AutoRefresh,
		Interval:         cfg.Cache.Interval,
		StayIfProfitable: cfg.Cache.StayIfProfitable,
		Rules:            cfg.Rules.RuleSet(),
		PatternCacheTTL:  cfg.Patterns.CacheTTL(),
	}
}

// Prediction is a recommended selection and how it was obtained.
type Prediction struct {
	Numbers   []int  `json:"numbers"`
	Method    string `json:"method"`
	Round     int    `json:"round"`
	Refreshed bool   `json:"refreshed"`
	Reason    string `json:"reason"`
}

// Stats summarizes engine state for dashboards.
type Stats struct {
	Rounds           int         `json:"rounds"`
	PredictionCache  cache.Stats `json:"prediction_cache"`
	PatternHits      uint64      `json:"pattern_cache_hits"`
	PatternMisses    uint64      `json:"pattern_cache_misses"`
	PatternHitRatio  float64     `json:"pattern_cache_hit_ratio"`
	PatternCacheSize int         `json:"pattern_cache_entries"`
}

// Engine is the prediction and analytics core. It is safe for concurrent use;
// predictions are serialized so cache decisions see a consistent round count.
type Engine struct {
	mu        sync.Mutex
	settings  Settings
	store     *history.Store
	registry  *generator.Registry
	cache     *cache.PredictionCache
	evaluator *rules.Evaluator
	miner     *patterns.Miner
	log       *logger.EngineLogger
	refresh   *logger.RefreshLogger
}

// New creates an engine with the built-in strategies. A nil rng uses the
// global random source; a nil logger discards output.
func New(settings Settings, log *logrus.Logger, rng *rand.Rand) *Engine {
	log = logger.OrNop(log)
	return NewWithRegistry(settings, generator.NewDefaultRegistry(log, rng), log)
}

// NewWithRegistry creates an engine around a caller supplied registry.
func NewWithRegistry(settings Settings, registry *generator.Registry, log *logrus.Logger) *Engine {
	log = logger.OrNop(log)
	ttl := settings.PatternCacheTTL
	if ttl <= 0 {
		ttl = patterns.DefaultCacheTTL
	}
	return &Engine{
		settings:  settings,
		store:     history.NewStore(),
		registry:  registry,
		cache:     cache.NewPredictionCache(log),
		evaluator: rules.NewEvaluator(log),
		miner:     patterns.NewMiner(log, ttl),
		log:       logger.NewEngineLogger(log),
		refresh:   logger.NewRefreshLogger(log),
	}
}

// Settings returns the refresh settings.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// UpdateSettings replaces the refresh settings. Cached predictions are kept.
func (e *Engine) UpdateSettings(settings Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings = settings
}

// Registry exposes the strategy registry.
func (e *Engine) Registry() *generator.Registry {
	return e.registry
}

// RecordRound validates and appends a completed round.
func (e *Engine) RecordRound(round models.Round) error {
	if err := e.store.Append(round); err != nil {
		return err
	}
	n := e.store.Len()
	metrics.RecordRound(n)
	e.log.LogRoundRecorded(n, round.Hits(), round.Profit().String())
	return nil
}

// LoadHistory appends rounds in order. Nothing is recorded if any round is invalid.
func (e *Engine) LoadHistory(rounds []models.Round) error {
	if err := e.store.AppendAll(rounds); err != nil {
		return err
	}
	metrics.RecordRound(e.store.Len())
	return nil
}

// History returns a copy of the recorded rounds.
func (e *Engine) History() []models.Round {
	return e.store.Rounds()
}

// Len returns the number of recorded rounds, which is also the current round index.
func (e *Engine) Len() int {
	return e.store.Len()
}

// Predict returns numbers for method and count under the refresh policy.
// With rules enabled the rule set decides whether the cached prediction
// stays; rules are evaluated at most once per round. Otherwise the cache
// interval policy applies. Unknown methods use the random strategy.
func (e *Engine) Predict(method string, count int, cfg generator.Config) Prediction {
	e.mu.Lock()
	defer e.mu.Unlock()

	method = e.effectiveMethod(method)
	count = generator.ClampCount(count)

	var p Prediction
	e.store.View(func(rounds []models.Round) {
		if e.settings.Rules.Enabled {
			p = e.predictWithRules(method, count, cfg, rounds)
		} else {
			p = e.predictWithCache(method, count, cfg, rounds)
		}
	})

	e.log.LogPrediction(p.Method, p.Round, p.Refreshed, p.Reason)
	return p
}

func (e *Engine) predictWithCache(method string, count int, cfg generator.Config, rounds []models.Round) Prediction {
	current := len(rounds)
	state := cache.RefreshState{
		AutoRefresh:      e.settings.AutoRefresh,
		Interval:         e.settings.Interval,
		StayIfProfitable: e.settings.StayIfProfitable,
		CurrentRound:     current,
		History:          rounds,
	}

	numbers, st := e.cache.Lookup(method, count, state, cfg)
	if st.Valid() {
		return Prediction{Numbers: numbers, Method: method, Round: current, Reason: "cache " + string(st)}
	}
	return e.regenerate(method, count, cfg, rounds, "cache "+string(st))
}

func (e *Engine) predictWithRules(method string, count int, cfg generator.Config, rounds []models.Round) Prediction {
	current := len(rounds)
	entry, ok := e.cache.Entry(method, count, cfg)
	if !ok {
		return e.regenerate(method, count, cfg, rounds, "no cached prediction")
	}
	if entry.LastRefreshRound >= current || entry.EvaluatedAtRound >= current {
		return Prediction{Numbers: entry.Predictions, Method: method, Round: current, Reason: "already evaluated this round"}
	}

	decision := e.evaluator.Evaluate(e.settings.Rules, rounds, entry.LastRefreshRound)
	if decision.Action == rules.ActionStay {
		// The refresh round stays put so the rule windows keep growing.
		e.cache.MarkEvaluated(method, count, cfg, current)
		return Prediction{Numbers: entry.Predictions, Method: method, Round: current, Reason: decision.Reason}
	}
	return e.regenerate(method, count, cfg, rounds, decision.Reason)
}

func (e *Engine) regenerate(method string, count int, cfg generator.Config, rounds []models.Round, reason string) Prediction {
	current := len(rounds)
	numbers := e.registry.Generate(method, count, rounds, cfg)
	e.cache.Set(method, count, numbers, cfg, current)
	e.refresh.LogRegeneration(method, current, reason, numbers)
	return Prediction{Numbers: numbers, Method: method, Round: current, Refreshed: true, Reason: reason}
}

func (e *Engine) effectiveMethod(method string) string {
	if _, err := e.registry.Get(method); err != nil {
		return generator.MethodRandom
	}
	return method
}

// Decide evaluates the configured rule set for a cached prediction without
// regenerating it. Without a cached entry the rules see the whole history.
func (e *Engine) Decide(method string, count int, cfg generator.Config) rules.Decision {
	e.mu.Lock()
	defer e.mu.Unlock()

	lastRefresh := 0
	if entry, ok := e.cache.Entry(e.effectiveMethod(method), generator.ClampCount(count), cfg); ok {
		lastRefresh = entry.LastRefreshRound
	}

	var decision rules.Decision
	e.store.View(func(rounds []models.Round) {
		decision = e.evaluator.Evaluate(e.settings.Rules, rounds, lastRefresh)
	})
	return decision
}

// Patterns mines the history with opts.
func (e *Engine) Patterns(opts patterns.Options) []patterns.Pattern {
	return e.miner.Find(e.store.Rounds(), opts)
}

// FindCommonPatterns mines the patternSize combinations most often drawn in
// the last sampleSize rounds.
func (e *Engine) FindCommonPatterns(patternSize, topN, sampleSize int) []patterns.Pattern {
	return e.Patterns(patterns.Options{PatternSize: patternSize, TopN: topN, SampleSize: sampleSize})
}

// Completion analyzes how numbers built up to full hits across the history.
func (e *Engine) Completion(numbers []int) patterns.Completion {
	var c patterns.Completion
	e.store.View(func(rounds []models.Round) {
		c = patterns.AnalyzeCompletion(rounds, numbers)
	})
	return c
}

// Momentum returns the momentum value of every board number.
func (e *Engine) Momentum(cfg generator.Config) []generator.MomentumValue {
	s, err := e.registry.Get(generator.MethodMomentum)
	if err != nil {
		return nil
	}
	ms, ok := s.(*generator.MomentumStrategy)
	if !ok {
		return nil
	}
	var values []generator.MomentumValue
	e.store.View(func(rounds []models.Round) {
		values = ms.Values(rounds, cfg)
	})
	return values
}

// Metrics computes the rolling metrics over the last window rounds; window
// <= 0 covers the whole history.
func (e *Engine) Metrics(window int) rules.RoundMetrics {
	var m rules.RoundMetrics
	e.store.View(func(rounds []models.Round) {
		m = rules.ComputeMetrics(rounds, 0, window)
	})
	return m
}

// Stats reports history size and cache activity.
func (e *Engine) Stats() Stats {
	hits, misses, ratio := e.miner.Stats()
	return Stats{
		Rounds:           e.store.Len(),
		PredictionCache:  e.cache.Stats(),
		PatternHits:      hits,
		PatternMisses:    misses,
		PatternHitRatio:  ratio,
		PatternCacheSize: e.miner.ItemCount(),
	}
}

// ClearPredictions drops cached predictions for method, or all when method is empty.
func (e *Engine) ClearPredictions(method string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if method == "" {
		e.cache.ClearAll()
		return
	}
	e.cache.Clear(method)
}

// Reset clears the history and every cache.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Clear()
	e.cache.ClearAll()
	e.miner.ClearCache()
}
