package repository

import (
	"fmt"

	"github.com/yourusername/keno-analytics/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Rounds RoundRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Rounds: NewPostgresRoundRepository(db),
	}, nil
}
