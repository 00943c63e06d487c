// Package repository persists round history.
package repository

import (
	"context"
	"time"

	"github.com/yourusername/keno-analytics/internal/models"
)

// RoundRepository defines the interface for round history access.
// Reads return rounds oldest first.
type RoundRepository interface {
	Insert(ctx context.Context, round *models.Round) error
	InsertBatch(ctx context.Context, rounds []models.Round) error
	List(ctx context.Context, limit int) ([]models.Round, error)
	Since(ctx context.Context, start time.Time) ([]models.Round, error)
	Count(ctx context.Context) (int64, error)
	Latest(ctx context.Context) (*models.Round, error)
	Clear(ctx context.Context) error
}
