package generator

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keno-analytics/internal/models"
)

func TestRegistryNames(t *testing.T) {
	registry := NewDefaultRegistry(nil, testRNG())
	assert.Equal(t, []string{
		MethodAverage, MethodCold, MethodFrequency, MethodMixed,
		MethodMomentum, MethodRandom, MethodShapes,
	}, registry.Names())

	meta := registry.Describe()
	require.Len(t, meta, 7)
	for _, m := range meta {
		assert.NotEmpty(t, m.Description, m.Name)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := NewDefaultRegistry(nil, testRNG())
	_, err := registry.Get("martingale")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrStrategyNotFound))
}

func TestRegistryGenerateUnknownUsesRandom(t *testing.T) {
	registry := NewDefaultRegistry(nil, testRNG())
	numbers := registry.Generate("martingale", 6, repeatDraw(rangeDraw(1), 3), Config{})
	assertValidPrediction(t, numbers, 6)
}

func TestRegistryGenerateClampsCount(t *testing.T) {
	registry := NewDefaultRegistry(nil, testRNG())
	history := repeatDraw(rangeDraw(1), 3)

	assertValidPrediction(t, registry.Generate(MethodFrequency, 0, history, Config{}), 1)
	assertValidPrediction(t, registry.Generate(MethodFrequency, 99, history, Config{}), 40)
	assertValidPrediction(t, registry.GenerateFloat(MethodFrequency, 3.9, history, Config{}), 3)
	assertValidPrediction(t, registry.GenerateFloat(MethodCold, math.NaN(), history, Config{}), 1)
}

type duplicatingStrategy struct{}

func (duplicatingStrategy) Name() string { return "dupes" }

func (duplicatingStrategy) Generate(int, []models.Round, Config) []int {
	return []int{3, 3, 0, 41, 7, 7, 9}
}

func TestRegistrySanitizesOutput(t *testing.T) {
	registry := NewRegistry(nil)
	registry.Register(duplicatingStrategy{})
	assert.Equal(t, []int{3, 7}, registry.Generate("dupes", 2, nil, Config{}))
	assert.Equal(t, []int{3, 7, 9}, registry.Generate("dupes", 5, nil, Config{}))
}

func TestConfigGetters(t *testing.T) {
	cfg := Config{
		"int":    12,
		"float":  2.9,
		"string": "15",
		"bad":    []int{1},
		"nan":    math.NaN(),
	}

	assert.Equal(t, 12, cfg.Int("int", 0))
	assert.Equal(t, 2, cfg.Int("float", 0))
	assert.Equal(t, 15, cfg.Int("string", 0))
	assert.Equal(t, 4, cfg.Int("bad", 4))
	assert.Equal(t, 4, cfg.Int("missing", 4))

	assert.Equal(t, 12.0, cfg.Float("int", 0))
	assert.Equal(t, 1.5, cfg.Float("nan", 1.5))
	assert.Equal(t, 15.0, cfg.Float("string", 0))

	assert.Equal(t, "15", cfg.String("string", ""))
	assert.Equal(t, "12", cfg.String("int", ""))
	assert.Equal(t, "x", cfg.String("missing", "x"))
}

func TestConfigCanonicalIsOrderIndependent(t *testing.T) {
	a := Config{}
	a["shape"] = "plus"
	a["rotation"] = 90
	a["nested"] = map[string]any{"b": 2, "a": 1}

	b := Config{}
	b["nested"] = map[string]any{"a": 1, "b": 2}
	b["rotation"] = 90
	b["shape"] = "plus"

	assert.Equal(t, string(a.Canonical()), string(b.Canonical()))
	assert.Equal(t, "{}", string(Config(nil).Canonical()))
	assert.NotEqual(t, string(a.Canonical()), string(Config{"shape": "line"}.Canonical()))
}

func TestConfigCanonicalNormalizesTextualValues(t *testing.T) {
	fromFlags := Config{KeySampleSize: "50", KeyMomentumThreshold: " 1.5 ", "weighted": "true", KeyShape: "plus"}
	fromYAML := Config{KeySampleSize: 50, KeyMomentumThreshold: 1.5, "weighted": true, KeyShape: "plus"}
	assert.Equal(t, string(fromYAML.Canonical()), string(fromFlags.Canonical()))

	assert.Equal(t, string(Config{KeySampleSize: 50}.Canonical()), string(Config{KeySampleSize: 50.0}.Canonical()))
	assert.NotEqual(t, string(Config{KeySampleSize: "50"}.Canonical()), string(Config{KeySampleSize: "fifty"}.Canonical()))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"50", 50},
		{" -3 ", -3},
		{"1.5", 1.5},
		{"TRUE", true},
		{"false", false},
		{"1", 1},
		{"plus", "plus"},
		{"NaN", "NaN"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseValue(tt.in), tt.in)
	}
}

func TestLockedRandMatchesSource(t *testing.T) {
	assert.Nil(t, NewLockedRand(nil))

	plain := rand.New(rand.NewPCG(9, 9))
	locked := NewLockedRand(rand.New(rand.NewPCG(9, 9)))
	for i := 0; i < 50; i++ {
		assert.Equal(t, plain.IntN(40), locked.IntN(40))
	}
}

func TestRegistrySharedRandConcurrentUse(t *testing.T) {
	registry := NewDefaultRegistry(nil, testRNG())
	history := repeatDraw(rangeDraw(1), 20)

	var wg sync.WaitGroup
	for _, name := range registry.Names() {
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					numbers := registry.Generate(name, 6, history, Config{})
					assert.Len(t, numbers, 6, name)
				}
			}(name)
		}
	}
	wg.Wait()
}
