// Package history holds the ordered round history and reads it from files.
package history

import (
	"sync"

	"github.com/yourusername/keno-analytics/internal/models"
)

// Store is an append-only, ordered round history. Oldest round first.
// Reads return copies so callers can never mutate recorded rounds.
type Store struct {
	mu     sync.RWMutex
	rounds []models.Round
}

// NewStore creates a store seeded with rounds. Seed rounds are copied but not
// validated; use Append for untrusted input.
func NewStore(rounds ...models.Round) *Store {
	s := &Store{rounds: make([]models.Round, 0, len(rounds))}
	for i := range rounds {
		s.rounds = append(s.rounds, cloneRound(rounds[i]))
	}
	return s
}

// Append validates a round and records it as the newest entry.
func (s *Store) Append(round models.Round) error {
	if err := round.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.rounds = append(s.rounds, cloneRound(round))
	s.mu.Unlock()
	return nil
}

// AppendAll validates every round before recording any of them.
func (s *Store) AppendAll(rounds []models.Round) error {
	for i := range rounds {
		if err := rounds[i].Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	for i := range rounds {
		s.rounds = append(s.rounds, cloneRound(rounds[i]))
	}
	s.mu.Unlock()
	return nil
}

// Rounds returns a copy of the full history.
func (s *Store) Rounds() []models.Round {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRounds(s.rounds)
}

// Len returns the number of recorded rounds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rounds)
}

// Sample returns a copy of the n most recent rounds; n <= 0 returns everything.
func (s *Store) Sample(n int) []models.Round {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRounds(models.Sample(s.rounds, n))
}

// Since returns a copy of the rounds at or after index idx.
func (s *Store) Since(idx int) []models.Round {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRounds(models.Since(s.rounds, idx))
}

// Latest returns the newest round.
func (s *Store) Latest() (models.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.rounds) == 0 {
		return models.Round{}, models.ErrEmptyHistory
	}
	return cloneRound(s.rounds[len(s.rounds)-1]), nil
}

// View runs fn with the live history under a read lock. fn must not
// retain or modify the slice.
func (s *Store) View(fn func(rounds []models.Round)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.rounds)
}

// Clear drops every round.
func (s *Store) Clear() {
	s.mu.Lock()
	s.rounds = nil
	s.mu.Unlock()
}

func cloneRounds(rounds []models.Round) []models.Round {
	out := make([]models.Round, len(rounds))
	for i := range rounds {
		out[i] = cloneRound(rounds[i])
	}
	return out
}

func cloneRound(r models.Round) models.Round {
	r.DrawnNumbers = append([]int(nil), r.DrawnNumbers...)
	if r.SelectedNumbers != nil {
		r.SelectedNumbers = append([]int(nil), r.SelectedNumbers...)
	}
	return r
}
