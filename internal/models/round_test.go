package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawnRange(start int) []int {
	numbers := make([]int, DrawSize)
	for i := range numbers {
		numbers[i] = start + i
	}
	return numbers
}

func TestRoundValidate(t *testing.T) {
	valid := Round{
		DrawnNumbers:    drawnRange(1),
		SelectedNumbers: []int{1, 2, 39},
		Wager:           decimal.NewFromInt(1),
		Payout:          decimal.NewFromInt(2),
		Timestamp:       time.Now(),
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *Round)
	}{
		{"too few drawn", func(r *Round) { r.DrawnNumbers = r.DrawnNumbers[:19] }},
		{"duplicate drawn", func(r *Round) { r.DrawnNumbers[1] = r.DrawnNumbers[0] }},
		{"drawn out of range", func(r *Round) { r.DrawnNumbers[0] = 41 }},
		{"too many picks", func(r *Round) { r.SelectedNumbers = drawnRange(1)[:11] }},
		{"duplicate picks", func(r *Round) { r.SelectedNumbers = []int{3, 3} }},
		{"negative wager", func(r *Round) { r.Wager = decimal.NewFromInt(-1) }},
		{"missing timestamp", func(r *Round) { r.Timestamp = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			r.DrawnNumbers = append([]int(nil), valid.DrawnNumbers...)
			r.SelectedNumbers = append([]int(nil), valid.SelectedNumbers...)
			tt.mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRound))
		})
	}
}

func TestRoundHitsAndProfit(t *testing.T) {
	r := Round{
		DrawnNumbers:    drawnRange(1),
		SelectedNumbers: []int{5, 20, 21, 40},
		Wager:           decimal.NewFromFloat(1.5),
		Payout:          decimal.NewFromFloat(1.0),
	}

	assert.Equal(t, 2, r.Hits())
	assert.Equal(t, 2, r.Misses())
	assert.True(t, r.Profit().Equal(decimal.NewFromFloat(-0.5)))
	assert.False(t, r.Won())

	r.Payout = decimal.NewFromFloat(1.5)
	assert.True(t, r.Won(), "break-even counts as a win")
}

func TestMaskRoundTrip(t *testing.T) {
	numbers := []int{40, 1, 17, 8}
	mask := MaskOf(numbers)
	assert.Equal(t, []int{1, 8, 17, 40}, NumbersOf(mask))
	assert.Equal(t, uint64(0), MaskOf([]int{0, 41}))
}

func TestSampleAndSince(t *testing.T) {
	history := make([]Round, 10)
	for i := range history {
		history[i].Timestamp = time.Unix(int64(i), 0)
	}

	assert.Len(t, Sample(history, 3), 3)
	assert.Equal(t, history[7].Timestamp, Sample(history, 3)[0].Timestamp)
	assert.Len(t, Sample(history, 0), 10)
	assert.Len(t, Sample(history, 50), 10)

	assert.Len(t, Since(history, 4), 6)
	assert.Len(t, Since(history, -2), 10)
	assert.Len(t, Since(history, 12), 0)

	assert.Equal(t, time.Unix(9, 0).UnixNano(), NewestTimestampUnix(history))
	assert.Equal(t, int64(0), NewestTimestampUnix(nil))
}
