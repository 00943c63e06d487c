package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keno-analytics/internal/database"
	"github.com/yourusername/keno-analytics/internal/models"
)

func testRound(start int, at time.Time) models.Round {
	drawn := make([]int, models.DrawSize)
	for i := range drawn {
		drawn[i] = (start+i-1)%models.BoardSize + 1
	}
	return models.Round{
		DrawnNumbers:    drawn,
		SelectedNumbers: []int{1, 2, 3},
		Wager:           decimal.NewFromInt(1),
		Payout:          decimal.NewFromFloat(2.5),
		Timestamp:       at.UTC().Truncate(time.Microsecond),
	}
}

func setupRepos(t *testing.T) (*Repositories, context.Context) {
	t.Helper()
	db := database.SetupTestDB(t)
	t.Cleanup(func() { database.TeardownTestDB(t, db) })

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return repos, ctx
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
}

// TestRoundRepositoryInsertAndList tests single inserts and ordered reads
func TestRoundRepositoryInsertAndList(t *testing.T) {
	repos, ctx := setupRepos(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		r := testRound(i+1, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repos.Rounds.Insert(ctx, &r))
	}

	all, err := repos.Rounds.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].DrawnNumbers[0])
	assert.True(t, all[0].Payout.Equal(decimal.NewFromFloat(2.5)))

	recent, err := repos.Rounds.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 2, recent[0].DrawnNumbers[0], "oldest of the two most recent rounds first")

	latest, err := repos.Rounds.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.DrawnNumbers[0])
}

// TestRoundRepositoryBatch tests COPY based batch inserts
func TestRoundRepositoryBatch(t *testing.T) {
	repos, ctx := setupRepos(t)

	base := time.Now().Add(-time.Hour)
	rounds := make([]models.Round, 25)
	for i := range rounds {
		rounds[i] = testRound(i+1, base.Add(time.Duration(i)*time.Second))
	}
	require.NoError(t, repos.Rounds.InsertBatch(ctx, rounds))

	count, err := repos.Rounds.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(25), count)

	since, err := repos.Rounds.Since(ctx, rounds[20].Timestamp)
	require.NoError(t, err)
	assert.Len(t, since, 5)

	require.NoError(t, repos.Rounds.Clear(ctx))
	_, err = repos.Rounds.Latest(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRoundRepositoryRejectsInvalidRound(t *testing.T) {
	repos, ctx := setupRepos(t)

	bad := testRound(1, time.Now())
	bad.DrawnNumbers = bad.DrawnNumbers[:5]
	assert.ErrorIs(t, repos.Rounds.Insert(ctx, &bad), models.ErrInvalidRound)
	assert.ErrorIs(t, repos.Rounds.InsertBatch(ctx, []models.Round{bad}), models.ErrInvalidRound)
}
