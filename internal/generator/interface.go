// Package generator implements the number-generation strategies and the
// registry that looks them up by name.
package generator

import (
	"github.com/yourusername/keno-analytics/internal/models"
)

// Strategy names shipped with the engine.
const (
	MethodFrequency = "frequency"
	MethodCold      = "cold"
	MethodMixed     = "mixed"
	MethodAverage   = "average"
	MethodMomentum  = "momentum"
	MethodShapes    = "shapes"
	MethodRandom    = "random"
)

// BuiltinMethods lists the strategy names registered by NewDefaultRegistry.
func BuiltinMethods() []string {
	return []string{
		MethodAverage, MethodCold, MethodFrequency, MethodMixed,
		MethodMomentum, MethodRandom, MethodShapes,
	}
}

// IsBuiltin reports whether name is a built-in strategy.
func IsBuiltin(name string) bool {
	for _, m := range BuiltinMethods() {
		if m == name {
			return true
		}
	}
	return false
}

// Strategy produces a prediction of board numbers from a history of rounds.
//
// Generate must return at most count distinct numbers in [1,40] and must not
// modify history. An empty history degrades to a uniform random selection.
type Strategy interface {
	Name() string
	Generate(count int, history []models.Round, cfg Config) []int
}

// Metadata describes a registered strategy for listings.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Describer is implemented by strategies that can describe themselves.
type Describer interface {
	Description() string
}
