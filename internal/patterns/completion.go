package patterns

import (
	"github.com/yourusername/keno-analytics/internal/models"
)

// Completion summarizes how a pattern behaved across a history: full
// completions against rounds that came within one or two numbers.
type Completion struct {
	Numbers     []int `json:"numbers"`
	Completions int   `json:"completions"`
	NearMisses  int   `json:"near_misses"`
	PartialHits int   `json:"partial_hits"`

	// BuildupsBeforeFirst counts rounds before the first completion that
	// drew at least k-2 of the numbers.
	BuildupsBeforeFirst int     `json:"buildups_before_first"`
	AverageBuildupHits  float64 `json:"average_buildup_hits"`

	CompletionGaps []int   `json:"completion_gaps"`
	AverageGap     float64 `json:"average_gap"`
	MinGap         int     `json:"min_gap"`

	// TeaseRatio is near misses per completion. High values mark patterns
	// that keep coming close without landing.
	TeaseRatio float64 `json:"tease_ratio"`
}

// HitSequence returns, for every round, how many of numbers were drawn.
func HitSequence(history []models.Round, numbers []int) []int {
	mask := models.MaskOf(numbers)
	hits := make([]int, len(history))
	for i := range history {
		hits[i] = popcount(history[i].DrawnMask() & mask)
	}
	return hits
}

// AnalyzeCompletion measures how often numbers completed, nearly completed
// and partially hit across history.
func AnalyzeCompletion(history []models.Round, numbers []int) Completion {
	pattern := models.NumbersOf(models.MaskOf(numbers))
	k := len(pattern)
	result := Completion{Numbers: pattern, CompletionGaps: []int{}}
	if k == 0 {
		return result
	}

	hits := HitSequence(history, pattern)
	var completionRounds []int
	for idx, h := range hits {
		switch {
		case h == k:
			completionRounds = append(completionRounds, idx)
		case h >= k-1:
			result.NearMisses++
			result.PartialHits++
		case h >= k-2:
			result.PartialHits++
		}
	}
	result.Completions = len(completionRounds)

	if len(completionRounds) > 0 {
		buildupTotal := 0
		for idx := 0; idx < completionRounds[0]; idx++ {
			if hits[idx] >= k-2 {
				result.BuildupsBeforeFirst++
				buildupTotal += hits[idx]
			}
		}
		if result.BuildupsBeforeFirst > 0 {
			result.AverageBuildupHits = float64(buildupTotal) / float64(result.BuildupsBeforeFirst)
		}
	}

	for i := 1; i < len(completionRounds); i++ {
		gap := completionRounds[i] - completionRounds[i-1]
		result.CompletionGaps = append(result.CompletionGaps, gap)
		if result.MinGap == 0 || gap < result.MinGap {
			result.MinGap = gap
		}
	}
	if len(result.CompletionGaps) > 0 {
		total := 0
		for _, gap := range result.CompletionGaps {
			total += gap
		}
		result.AverageGap = float64(total) / float64(len(result.CompletionGaps))
	}

	completions := result.Completions
	if completions < 1 {
		completions = 1
	}
	result.TeaseRatio = float64(result.NearMisses) / float64(completions)
	return result
}

// Buildups returns the hit counts of rounds whose hits fall within
// [minHits, maxHits].
func Buildups(history []models.Round, numbers []int, minHits, maxHits int) []int {
	var out []int
	for _, h := range HitSequence(history, numbers) {
		if h >= minHits && h <= maxHits {
			out = append(out, h)
		}
	}
	return out
}

// LastFullHit returns the index of the most recent round that drew every
// number, or -1.
func LastFullHit(history []models.Round, numbers []int) int {
	mask := models.MaskOf(numbers)
	if mask == 0 {
		return -1
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].DrawnMask()&mask == mask {
			return i
		}
	}
	return -1
}
