package patterns

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keno-analytics/internal/logger"
	"github.com/yourusername/keno-analytics/internal/metrics"
	"github.com/yourusername/keno-analytics/internal/models"
)

// cacheKey identifies a mining pass. Results are keyed on the newest round in
// the sample, so new rounds produce new keys while the TTL bounds staleness.
type cacheKey struct {
	PatternSize      int
	NewestTimestamp  int64
	SampleSize       int
	TopN             int
	RecencyWeighting bool
	Decay            float64
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%d:%d:%d:%d:%t:%g",
		k.PatternSize, k.NewestTimestamp, k.SampleSize, k.TopN, k.RecencyWeighting, k.Decay)
}

// Miner finds common patterns and memoizes results for a wall-clock TTL.
type Miner struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
	log       *logger.PatternLogger
}

// NewMiner creates a miner. A non-positive ttl uses DefaultCacheTTL.
// Expired entries are purged on lookup, so no janitor goroutine runs.
func NewMiner(log *logrus.Logger, ttl time.Duration) *Miner {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Miner{
		cache: cache.New(ttl, 0),
		ttl:   ttl,
		log:   logger.NewPatternLogger(logger.OrNop(log)),
	}
}

// FindCommonPatterns mines the most common patterns of patternSize numbers in
// the last sampleSize rounds. Invalid sizes yield an empty result.
func (m *Miner) FindCommonPatterns(history []models.Round, patternSize, topN, sampleSize int) []Pattern {
	return m.Find(history, Options{PatternSize: patternSize, TopN: topN, SampleSize: sampleSize})
}

// Find mines patterns with full control over the options.
func (m *Miner) Find(history []models.Round, opts Options) []Pattern {
	if !ValidSize(opts.PatternSize) {
		m.log.LogInvalidSize(opts.PatternSize)
		return []Pattern{}
	}

	sample := models.Sample(history, opts.SampleSize)
	key := cacheKey{
		PatternSize:      opts.PatternSize,
		NewestTimestamp:  models.NewestTimestampUnix(sample),
		SampleSize:       opts.SampleSize,
		TopN:             opts.TopN,
		RecencyWeighting: opts.RecencyWeighting,
	}
	if opts.RecencyWeighting {
		key.Decay = opts.decay()
	}

	if cached, ok := m.lookup(key); ok {
		m.log.LogCacheHit(opts.PatternSize, len(sample))
		return clonePatterns(cached)
	}

	start := time.Now()
	result, unique := mine(sample, opts)
	elapsed := time.Since(start)

	metrics.RecordPatternMining(strconv.Itoa(opts.PatternSize), elapsed.Seconds())
	m.log.LogMining(opts.PatternSize, len(sample), unique, len(result), float64(elapsed.Microseconds())/1000)

	m.mu.Lock()
	m.cache.Set(key.String(), result, m.ttl)
	m.mu.Unlock()

	return clonePatterns(result)
}

func (m *Miner) lookup(key cacheKey) ([]Pattern, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if value, found := m.cache.Get(key.String()); found {
		if patterns, ok := value.([]Pattern); ok {
			m.hitCount++
			metrics.RecordPatternCacheLookup(true)
			return patterns, true
		}
	}

	m.missCount++
	metrics.RecordPatternCacheLookup(false)
	m.cache.DeleteExpired()
	return nil, false
}

// ClearCache drops every memoized result.
func (m *Miner) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Flush()
}

// Stats returns cache statistics.
func (m *Miner) Stats() (hits, misses uint64, ratio float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hits = m.hitCount
	misses = m.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of memoized results, expired ones included
// until the next miss purges them.
func (m *Miner) ItemCount() int {
	return m.cache.ItemCount()
}

type tally struct {
	mask    uint64
	count   int
	score   float64
	indices []int
}

// mine enumerates every pattern in sample and returns the ranked top patterns
// along with the number of distinct patterns seen.
func mine(sample []models.Round, opts Options) ([]Pattern, int) {
	decay := opts.decay()
	seen := make(map[uint64]*tally)

	for idx := range sample {
		weight := 1.0
		if opts.RecencyWeighting {
			weight = math.Pow(decay, float64(len(sample)-1-idx))
		}
		drawn := models.NumbersOf(sample[idx].DrawnMask())
		forEachCombination(drawn, opts.PatternSize, func(mask uint64) {
			t, ok := seen[mask]
			if !ok {
				t = &tally{mask: mask}
				seen[mask] = t
			}
			t.count++
			t.score += weight
			t.indices = append(t.indices, idx)
		})
	}

	ranked := make([]*tally, 0, len(seen))
	for _, t := range seen {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if opts.RecencyWeighting && a.score != b.score {
			return a.score > b.score
		}
		if a.count != b.count {
			return a.count > b.count
		}
		return lexLess(a.mask, b.mask)
	})

	if opts.TopN > 0 && len(ranked) > opts.TopN {
		ranked = ranked[:opts.TopN]
	}

	patterns := make([]Pattern, len(ranked))
	for i, t := range ranked {
		patterns[i] = buildPattern(t, sample, opts.RecencyWeighting)
	}
	return patterns, len(seen)
}

func buildPattern(t *tally, sample []models.Round, weighted bool) Pattern {
	p := Pattern{
		Numbers:         models.NumbersOf(t.mask),
		OccurrenceCount: t.count,
		Occurrences:     make([]Occurrence, len(t.indices)),
		AverageGap:      float64(len(sample)),
		Score:           float64(t.count),
	}
	if weighted {
		p.Score = t.score
	}
	for i, idx := range t.indices {
		p.Occurrences[i] = Occurrence{
			RoundIndex:   idx,
			Timestamp:    sample[idx].Timestamp,
			DrawnNumbers: sample[idx].DrawnNumbers,
		}
	}
	if t.count > 1 {
		first, last := t.indices[0], t.indices[len(t.indices)-1]
		p.AverageGap = float64(last-first) / float64(t.count-1)
	}
	return p
}
