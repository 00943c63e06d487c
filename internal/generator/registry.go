package generator

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keno-analytics/internal/logger"
	"github.com/yourusername/keno-analytics/internal/metrics"
	"github.com/yourusername/keno-analytics/internal/models"
)

// Registry maps strategy names to implementations.
type Registry struct {
	strategies map[string]Strategy
	mu         sync.RWMutex
	log        *logger.StrategyLogger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logrus.Logger) *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
		log:        logger.NewStrategyLogger(logger.OrNop(log)),
	}
}

// NewDefaultRegistry creates a registry holding every built-in strategy.
// The strategies share rng behind one lock. A nil rng uses the global random source.
func NewDefaultRegistry(log *logrus.Logger, rng *rand.Rand) *Registry {
	rng = NewLockedRand(rng)
	registry := NewRegistry(log)
	registry.Register(NewFrequencyStrategy(rng))
	registry.Register(NewColdStrategy(rng))
	registry.Register(NewMixedStrategy(rng))
	registry.Register(NewAverageStrategy(rng))
	registry.Register(NewMomentumStrategy(rng))
	registry.Register(NewShapesStrategy(rng))
	registry.Register(NewRandomStrategy(rng))

	registry.log.WithField("strategies", registry.Len()).Debug("Strategy registry initialized")
	return registry
}

// Register adds or replaces a strategy under its name.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.Name()] = s
}

// Get looks up a strategy by name.
func (r *Registry) Get(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrStrategyNotFound, name)
	}
	return s, nil
}

// Names lists registered strategy names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered strategies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.strategies)
}

// Describe lists registered strategies with their descriptions.
func (r *Registry) Describe() []Metadata {
	names := r.Names()
	out := make([]Metadata, 0, len(names))
	for _, name := range names {
		s, err := r.Get(name)
		if err != nil {
			continue
		}
		meta := Metadata{Name: name}
		if d, ok := s.(Describer); ok {
			meta.Description = d.Description()
		}
		out = append(out, meta)
	}
	return out
}

// Generate runs the named strategy. The count is clamped to the board and
// unknown names use the random strategy. The result always holds distinct
// board numbers.
func (r *Registry) Generate(name string, count int, history []models.Round, cfg Config) []int {
	clamped := ClampCount(count)
	if clamped != count {
		r.log.LogCountClamped(name, float64(count), clamped)
	}

	s, err := r.Get(name)
	if err != nil {
		r.log.LogUnknownStrategy(name, MethodRandom)
		s, err = r.Get(MethodRandom)
		if err != nil {
			s = NewRandomStrategy(nil)
		}
	}

	if len(history) == 0 && s.Name() != MethodRandom {
		r.log.LogFallback(s.Name(), "empty history", clamped)
		metrics.RecordFallback(s.Name())
	}

	start := time.Now()
	numbers := Sanitize(s.Generate(clamped, history, cfg), clamped)
	elapsed := time.Since(start)

	metrics.RecordGeneration(s.Name(), elapsed.Seconds())
	r.log.LogGeneration(s.Name(), clamped, len(numbers), len(history), float64(elapsed.Microseconds())/1000)
	return numbers
}

// GenerateFloat is Generate for callers holding an untyped numeric count.
func (r *Registry) GenerateFloat(name string, count float64, history []models.Round, cfg Config) []int {
	clamped := ClampCountFloat(count)
	if float64(clamped) != count {
		r.log.LogCountClamped(name, count, clamped)
	}
	return r.Generate(name, clamped, history, cfg)
}
