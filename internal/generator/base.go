package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/yourusername/keno-analytics/internal/models"
)

// BaseStrategy provides the randomness and board helpers shared by strategies.
type BaseStrategy struct {
	rng *rand.Rand
}

// NewBaseStrategy creates a base using rng, or the global source when rng is nil.
// A rng shared between goroutines must come from NewLockedRand.
func NewBaseStrategy(rng *rand.Rand) *BaseStrategy {
	return &BaseStrategy{rng: rng}
}

func (b *BaseStrategy) intN(n int) int {
	if b.rng == nil {
		return rand.IntN(n)
	}
	return b.rng.IntN(n)
}

// lockedSource serializes access to one generator for every strategy sharing it.
type lockedSource struct {
	mu  sync.Mutex
	src *rand.Rand
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// NewLockedRand wraps rng so it can be shared by concurrent strategies.
// The sequence drawn through the wrapper matches rng's own. Nil stays nil.
func NewLockedRand(rng *rand.Rand) *rand.Rand {
	if rng == nil {
		return nil
	}
	return rand.New(&lockedSource{src: rng})
}

// Shuffle permutes numbers in place with Fisher-Yates.
func (b *BaseStrategy) Shuffle(numbers []int) {
	for i := len(numbers) - 1; i > 0; i-- {
		j := b.intN(i + 1)
		numbers[i], numbers[j] = numbers[j], numbers[i]
	}
}

// Fallback returns count numbers drawn uniformly without replacement from the board.
func (b *BaseStrategy) Fallback(count int) []int {
	count = ClampCount(count)
	board := Board()
	b.Shuffle(board)
	return board[:count]
}

// Board returns the numbers 1..40 in enumeration order.
func Board() []int {
	board := make([]int, models.BoardSize)
	for i := range board {
		board[i] = i + 1
	}
	return board
}

// ClampCount clamps a requested count into [1,40].
func ClampCount(count int) int {
	if count < 1 {
		return 1
	}
	if count > models.BoardSize {
		return models.BoardSize
	}
	return count
}

// ClampCountFloat converts an arbitrary numeric count to a board count.
// Fractions are floored; NaN and negative infinity clamp to 1.
func ClampCountFloat(count float64) int {
	if math.IsNaN(count) || math.IsInf(count, -1) {
		return 1
	}
	if math.IsInf(count, 1) || count > models.BoardSize {
		return models.BoardSize
	}
	return ClampCount(int(math.Floor(count)))
}

// Tally counts how often each number was drawn. Index 0 is unused.
func Tally(rounds []models.Round) [models.BoardSize + 1]int {
	var counts [models.BoardSize + 1]int
	for i := range rounds {
		for _, n := range rounds[i].DrawnNumbers {
			if models.IsValidNumber(n) {
				counts[n]++
			}
		}
	}
	return counts
}

// RankByFrequency orders the board by descending count. Ties keep
// enumeration order.
func RankByFrequency(counts [models.BoardSize + 1]int) []int {
	ranking := Board()
	sort.SliceStable(ranking, func(i, j int) bool {
		return counts[ranking[i]] > counts[ranking[j]]
	})
	return ranking
}

// Reversed returns numbers in reverse order.
func Reversed(numbers []int) []int {
	out := make([]int, len(numbers))
	for i, n := range numbers {
		out[len(numbers)-1-i] = n
	}
	return out
}

// takeDistinct appends numbers from candidates not already in chosen until
// chosen holds count numbers.
func takeDistinct(chosen []int, candidates []int, count int) []int {
	seen := models.MaskOf(chosen)
	for _, n := range candidates {
		if len(chosen) >= count {
			break
		}
		if !models.IsValidNumber(n) {
			continue
		}
		bit := uint64(1) << uint(n-1)
		if seen&bit != 0 {
			continue
		}
		seen |= bit
		chosen = append(chosen, n)
	}
	return chosen
}

// Sanitize drops out-of-range and duplicate numbers and truncates to count.
func Sanitize(numbers []int, count int) []int {
	return takeDistinct(make([]int, 0, count), numbers, count)
}

func sortedKeysString(c Config) string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%v;", k, c[k])
	}
	return sb.String()
}
