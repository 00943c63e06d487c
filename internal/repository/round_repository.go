package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/keno-analytics/internal/database"
	"github.com/yourusername/keno-analytics/internal/models"
)

var roundColumns = []string{"drawn_numbers", "selected_numbers", "wager", "payout", "played_at"}

// PostgresRoundRepository implements RoundRepository for PostgreSQL
type PostgresRoundRepository struct {
	db *database.DB
}

// NewPostgresRoundRepository creates a new round repository
func NewPostgresRoundRepository(db *database.DB) RoundRepository {
	return &PostgresRoundRepository{db: db}
}

// Insert validates and stores a single round
func (r *PostgresRoundRepository) Insert(ctx context.Context, round *models.Round) error {
	if err := round.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (drawn_numbers, selected_numbers, wager, payout, played_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.db.Table())

	_, err := r.db.Querier(ctx).Exec(ctx, query, roundArgs(round)...)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}
	return nil
}

// InsertBatch validates every round, then stores them with COPY
func (r *PostgresRoundRepository) InsertBatch(ctx context.Context, rounds []models.Round) error {
	if len(rounds) == 0 {
		return nil
	}

	rows := make([][]any, len(rounds))
	for i := range rounds {
		if err := rounds[i].Validate(); err != nil {
			return fmt.Errorf("round %d: %w", i, err)
		}
		rows[i] = roundArgs(&rounds[i])
	}

	count, err := r.db.Querier(ctx).CopyFrom(ctx, pgx.Identifier{r.db.TableName()}, roundColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to batch insert rounds: %w", err)
	}
	if count != int64(len(rounds)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(rounds))
	}
	return nil
}

// List returns the limit most recent rounds, oldest first. limit <= 0 returns every round.
func (r *PostgresRoundRepository) List(ctx context.Context, limit int) ([]models.Round, error) {
	var (
		query string
		args  []any
	)
	if limit > 0 {
		query = fmt.Sprintf(`
			SELECT drawn_numbers, selected_numbers, wager, payout, played_at FROM (
				SELECT id, drawn_numbers, selected_numbers, wager, payout, played_at
				FROM %s
				ORDER BY played_at DESC, id DESC
				LIMIT $1
			) recent
			ORDER BY played_at ASC, id ASC
		`, r.db.Table())
		args = append(args, limit)
	} else {
		query = fmt.Sprintf(`
			SELECT drawn_numbers, selected_numbers, wager, payout, played_at
			FROM %s
			ORDER BY played_at ASC, id ASC
		`, r.db.Table())
	}
	return r.query(ctx, query, args...)
}

// Since returns the rounds played at or after start, oldest first
func (r *PostgresRoundRepository) Since(ctx context.Context, start time.Time) ([]models.Round, error) {
	query := fmt.Sprintf(`
		SELECT drawn_numbers, selected_numbers, wager, payout, played_at
		FROM %s
		WHERE played_at >= $1
		ORDER BY played_at ASC, id ASC
	`, r.db.Table())
	return r.query(ctx, query, start)
}

// Count returns the number of stored rounds
func (r *PostgresRoundRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.Querier(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM "+r.db.Table()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rounds: %w", err)
	}
	return count, nil
}

// Latest returns the most recently played round
func (r *PostgresRoundRepository) Latest(ctx context.Context) (*models.Round, error) {
	query := fmt.Sprintf(`
		SELECT drawn_numbers, selected_numbers, wager, payout, played_at
		FROM %s
		ORDER BY played_at DESC, id DESC
		LIMIT 1
	`, r.db.Table())

	round, err := scanRound(r.db.Querier(ctx).QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest round: %w", err)
	}
	return round, nil
}

// Clear deletes every stored round
func (r *PostgresRoundRepository) Clear(ctx context.Context) error {
	if _, err := r.db.Querier(ctx).Exec(ctx, "DELETE FROM "+r.db.Table()); err != nil {
		return fmt.Errorf("failed to clear rounds: %w", err)
	}
	return nil
}

func (r *PostgresRoundRepository) query(ctx context.Context, query string, args ...any) ([]models.Round, error) {
	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	var rounds []models.Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, *round)
	}
	return rounds, rows.Err()
}

func roundArgs(round *models.Round) []any {
	selected := round.SelectedNumbers
	if selected == nil {
		selected = []int{}
	}
	return []any{round.DrawnNumbers, selected, round.Wager, round.Payout, round.Timestamp}
}

func scanRound(row pgx.Row) (*models.Round, error) {
	var round models.Round
	if err := row.Scan(&round.DrawnNumbers, &round.SelectedNumbers, &round.Wager, &round.Payout, &round.Timestamp); err != nil {
		return nil, err
	}
	return &round, nil
}
