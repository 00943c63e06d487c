// Package patterns mines frequently co-occurring number combinations from the
// draw history.
package patterns

import (
	"time"
)

// Pattern size bounds and mining defaults.
const (
	MinPatternSize  = 3
	MaxPatternSize  = 10
	DefaultCacheTTL = 5 * time.Minute
	DefaultDecay    = 0.98
)

// Occurrence records one round in which a pattern was fully drawn.
type Occurrence struct {
	RoundIndex   int       `json:"round_index"`
	Timestamp    time.Time `json:"timestamp"`
	DrawnNumbers []int     `json:"drawn_numbers"`
}

// Pattern is a combination of numbers and the rounds that drew all of them.
type Pattern struct {
	Numbers         []int        `json:"numbers"`
	OccurrenceCount int          `json:"occurrence_count"`
	Occurrences     []Occurrence `json:"occurrences"`
	AverageGap      float64      `json:"average_gap"`
	Score           float64      `json:"score"`
}

// Options controls a mining pass.
type Options struct {
	PatternSize int
	TopN        int // <= 0 keeps every pattern
	SampleSize  int // <= 0 mines the whole history

	// RecencyWeighting ranks by an exponentially decayed score instead of the raw count.
	RecencyWeighting bool
	Decay            float64
}

// ValidSize reports whether size can be mined.
func ValidSize(size int) bool {
	return size >= MinPatternSize && size <= MaxPatternSize
}

func (o Options) decay() float64 {
	if o.Decay <= 0 || o.Decay > 1 {
		return DefaultDecay
	}
	return o.Decay
}

func clonePatterns(in []Pattern) []Pattern {
	out := make([]Pattern, len(in))
	for i, p := range in {
		out[i] = p
		out[i].Numbers = append([]int(nil), p.Numbers...)
		out[i].Occurrences = append([]Occurrence(nil), p.Occurrences...)
	}
	return out
}
