// Package cache memoizes strategy predictions and decides when they must be
// regenerated.
package cache

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keno-analytics/internal/generator"
	"github.com/yourusername/keno-analytics/internal/logger"
	"github.com/yourusername/keno-analytics/internal/metrics"
	"github.com/yourusername/keno-analytics/internal/models"
)

// State is the outcome of a cache lookup.
type State string

// Lookup states
const (
	StateFresh    State = "fresh"
	StateExtended State = "extended"
	StateExpired  State = "expired"
	StateMiss     State = "miss"
)

// Valid reports whether the lookup produced usable predictions.
func (s State) Valid() bool {
	return s == StateFresh || s == StateExtended
}

// RefreshState carries the round and profit context a lookup is judged against.
type RefreshState struct {
	AutoRefresh      bool
	Interval         int
	StayIfProfitable bool
	CurrentRound     int
	History          []models.Round
}

// Key identifies a cached prediction.
type Key struct {
	Method      string
	Count       int
	Fingerprint string
}

// String returns string representation of cache key
func (k Key) String() string {
	return fmt.Sprintf("%s:%d:%s", k.Method, k.Count, k.Fingerprint)
}

// Entry is a cached prediction and the rounds it was produced and last renewed at.
// EvaluatedAtRound is the last round a refresh decision was made for it.
type Entry struct {
	Key              Key
	Predictions      []int
	CreatedAtRound   int
	LastRefreshRound int
	EvaluatedAtRound int
}

// Stats summarizes cache activity.
type Stats struct {
	Entries    int     `json:"entries"`
	Hits       uint64  `json:"hits"`
	Misses     uint64  `json:"misses"`
	Extensions uint64  `json:"extensions"`
	HitRatio   float64 `json:"hit_ratio"`
}

// Fingerprint derives a stable identifier for a generator config. Equal
// configs produce equal fingerprints regardless of key order.
func Fingerprint(cfg generator.Config) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, cfg.Canonical()).String()
}

// NewKey builds the cache key for a method, count and config.
func NewKey(method string, count int, cfg generator.Config) Key {
	return Key{Method: method, Count: count, Fingerprint: Fingerprint(cfg)}
}

// PredictionCache holds predictions until the refresh policy expires them.
// Entries never expire on wall-clock time.
type PredictionCache struct {
	store      *gocache.Cache
	mu         sync.Mutex
	hits       uint64
	misses     uint64
	extensions uint64
	log        *logger.RefreshLogger
}

// NewPredictionCache creates an empty prediction cache.
func NewPredictionCache(log *logrus.Logger) *PredictionCache {
	return &PredictionCache{
		store: gocache.New(gocache.NoExpiration, 0),
		log:   logger.NewRefreshLogger(logger.OrNop(log)),
	}
}

// Get returns the cached prediction when it is still valid under state.
func (c *PredictionCache) Get(method string, count int, state RefreshState, cfg generator.Config) ([]int, bool) {
	numbers, s := c.Lookup(method, count, state, cfg)
	return numbers, s.Valid()
}

// Lookup is Get reporting the entry state.
//
// Manual mode keeps entries forever. In auto mode an entry is fresh until
// Interval rounds have elapsed since its last refresh. After that it is
// extended, and its refresh round moved to CurrentRound, when
// StayIfProfitable is set and the last Interval rounds made a profit.
// Otherwise it expires and is removed.
func (c *PredictionCache) Lookup(method string, count int, state RefreshState, cfg generator.Config) ([]int, State) {
	key := NewKey(method, count, cfg)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entry(key)
	if !ok {
		c.misses++
		c.record(method, count, state.CurrentRound, -1, StateMiss)
		return nil, StateMiss
	}

	result := c.judge(entry, state)
	switch result {
	case StateExtended:
		entry.LastRefreshRound = state.CurrentRound
		c.store.Set(key.String(), entry, gocache.NoExpiration)
		c.extensions++
		c.hits++
	case StateFresh:
		c.hits++
	case StateExpired:
		c.store.Delete(key.String())
		c.misses++
		metrics.UpdatePredictionCacheEntries(c.store.ItemCount())
	}
	c.record(method, count, state.CurrentRound, entry.LastRefreshRound, result)

	if !result.Valid() {
		return nil, result
	}
	return append([]int(nil), entry.Predictions...), result
}

func (c *PredictionCache) judge(entry *Entry, state RefreshState) State {
	if !state.AutoRefresh {
		return StateFresh
	}
	interval := state.Interval
	if interval < 1 {
		interval = 1
	}
	if state.CurrentRound-entry.LastRefreshRound < interval {
		return StateFresh
	}
	if state.StayIfProfitable && models.TotalProfit(models.Sample(state.History, interval)).IsPositive() {
		return StateExtended
	}
	return StateExpired
}

func (c *PredictionCache) record(method string, count, round, lastRefresh int, state State) {
	metrics.RecordPredictionCacheLookup(method, string(state))
	c.log.LogCacheDecision(method, count, round, lastRefresh, string(state))
}

// Set stores predictions produced at currentRound, replacing any previous entry.
func (c *PredictionCache) Set(method string, count int, predictions []int, cfg generator.Config, currentRound int) {
	key := NewKey(method, count, cfg)
	entry := &Entry{
		Key:              key,
		Predictions:      append([]int(nil), predictions...),
		CreatedAtRound:   currentRound,
		LastRefreshRound: currentRound,
		EvaluatedAtRound: currentRound,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Set(key.String(), entry, gocache.NoExpiration)
	metrics.UpdatePredictionCacheEntries(c.store.ItemCount())
}

// Entry returns a copy of the stored entry without applying the refresh policy.
func (c *PredictionCache) Entry(method string, count int, cfg generator.Config) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entry(NewKey(method, count, cfg))
	if !ok {
		return Entry{}, false
	}
	out := *entry
	out.Predictions = append([]int(nil), entry.Predictions...)
	return out, true
}

// MarkEvaluated records that the entry was judged at round without renewing it.
// It reports false when no entry exists.
func (c *PredictionCache) MarkEvaluated(method string, count int, cfg generator.Config, round int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entry(NewKey(method, count, cfg))
	if !ok {
		return false
	}
	if round > entry.EvaluatedAtRound {
		entry.EvaluatedAtRound = round
	}
	return true
}

func (c *PredictionCache) entry(key Key) (*Entry, bool) {
	value, found := c.store.Get(key.String())
	if !found {
		return nil, false
	}
	entry, ok := value.(*Entry)
	return entry, ok
}

// Clear removes every entry for method.
func (c *PredictionCache) Clear(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, item := range c.store.Items() {
		if entry, ok := item.Object.(*Entry); ok && entry.Key.Method == method {
			c.store.Delete(k)
		}
	}
	metrics.UpdatePredictionCacheEntries(c.store.ItemCount())
}

// ClearAll removes every entry and resets the counters.
func (c *PredictionCache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Flush()
	c.hits, c.misses, c.extensions = 0, 0, 0
	metrics.UpdatePredictionCacheEntries(0)
}

// Stats returns cache statistics.
func (c *PredictionCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Entries:    c.store.ItemCount(),
		Hits:       c.hits,
		Misses:     c.misses,
		Extensions: c.extensions,
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRatio = float64(s.Hits) / float64(total)
	}
	return s
}
