package history

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keno-analytics/internal/models"
)

func roundFrom(start int, ts int64) models.Round {
	drawn := make([]int, models.DrawSize)
	for i := range drawn {
		drawn[i] = (start+i-1)%models.BoardSize + 1
	}
	return models.Round{
		DrawnNumbers:    drawn,
		SelectedNumbers: []int{1, 2},
		Wager:           decimal.NewFromInt(1),
		Payout:          decimal.Zero,
		Timestamp:       time.Unix(ts, 0),
	}
}

func TestStoreAppendValidates(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Append(roundFrom(1, 1)))
	bad := roundFrom(1, 2)
	bad.DrawnNumbers = bad.DrawnNumbers[:3]
	assert.ErrorIs(t, s.Append(bad), models.ErrInvalidRound)
	assert.Equal(t, 1, s.Len())

	err := s.AppendAll([]models.Round{roundFrom(2, 3), bad})
	assert.ErrorIs(t, err, models.ErrInvalidRound)
	assert.Equal(t, 1, s.Len(), "batch is all or nothing")
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore()
	r := roundFrom(1, 1)
	require.NoError(t, s.Append(r))

	r.DrawnNumbers[0] = 40
	rounds := s.Rounds()
	assert.Equal(t, 1, rounds[0].DrawnNumbers[0], "caller mutation after append does not leak in")

	rounds[0].DrawnNumbers[0] = 40
	assert.Equal(t, 1, s.Rounds()[0].DrawnNumbers[0], "mutating a read does not leak in")
}

func TestStoreWindows(t *testing.T) {
	s := NewStore()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Append(roundFrom(i+1, int64(i+1))))
	}

	sample := s.Sample(3)
	require.Len(t, sample, 3)
	assert.Equal(t, 8, sample[0].DrawnNumbers[0])

	assert.Len(t, s.Sample(0), 10)
	assert.Len(t, s.Since(7), 3)
	assert.Len(t, s.Since(20), 0)

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, 10, latest.DrawnNumbers[0])

	s.Clear()
	assert.Zero(t, s.Len())
	_, err = s.Latest()
	assert.ErrorIs(t, err, models.ErrEmptyHistory)
}
