// Package models defines the round and history types shared by the engine.
package models

import (
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Board geometry
const (
	BoardSize = 40
	DrawSize  = 20
	MaxPicks  = 10
	BoardRows = 5
	BoardCols = 8
)

// Round is one completed game outcome. Rounds are immutable once recorded.
type Round struct {
	DrawnNumbers    []int           `json:"drawn_numbers" validate:"len=20,unique,dive,min=1,max=40"`
	SelectedNumbers []int           `json:"selected_numbers" validate:"max=10,unique,dive,min=1,max=40"`
	Wager           decimal.Decimal `json:"wager"`
	Payout          decimal.Decimal `json:"payout"`
	Timestamp       time.Time       `json:"timestamp"`
}

var (
	roundValidator     *validator.Validate
	roundValidatorOnce sync.Once
)

func getRoundValidator() *validator.Validate {
	roundValidatorOnce.Do(func() {
		roundValidator = validator.New()
	})
	return roundValidator
}

// Validate checks the round invariants: 20 distinct drawn numbers and at most
// 10 distinct selections, all within 1..40, with non-negative money amounts.
func (r *Round) Validate() error {
	if err := getRoundValidator().Struct(r); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
			fe := fieldErrors[0]
			return NewValidationError(fe.Field(), "failed '"+fe.Tag()+"' constraint")
		}
		return NewValidationError("round", err.Error())
	}
	if r.Wager.IsNegative() {
		return NewValidationError("Wager", "must not be negative")
	}
	if r.Payout.IsNegative() {
		return NewValidationError("Payout", "must not be negative")
	}
	if r.Timestamp.IsZero() {
		return NewValidationError("Timestamp", "is required")
	}
	return nil
}

// Profit returns payout minus wager.
func (r *Round) Profit() decimal.Decimal {
	return r.Payout.Sub(r.Wager)
}

// Won reports whether the payout covered the wager.
func (r *Round) Won() bool {
	return r.Payout.GreaterThanOrEqual(r.Wager)
}

// DrawnMask returns the drawn numbers as a bit set where bit n-1 marks number n.
func (r *Round) DrawnMask() uint64 {
	return MaskOf(r.DrawnNumbers)
}

// Hits counts selected numbers that were drawn.
func (r *Round) Hits() int {
	drawn := r.DrawnMask()
	hits := 0
	for _, n := range r.SelectedNumbers {
		if n >= 1 && n <= BoardSize && drawn&(1<<uint(n-1)) != 0 {
			hits++
		}
	}
	return hits
}

// Misses counts selected numbers that were not drawn.
func (r *Round) Misses() int {
	return len(r.SelectedNumbers) - r.Hits()
}

// MaskOf packs board numbers into a bit set. Out of range numbers are ignored.
func MaskOf(numbers []int) uint64 {
	var mask uint64
	for _, n := range numbers {
		if n >= 1 && n <= BoardSize {
			mask |= 1 << uint(n-1)
		}
	}
	return mask
}

// NumbersOf unpacks a bit set into sorted board numbers.
func NumbersOf(mask uint64) []int {
	numbers := make([]int, 0, DrawSize)
	for n := 1; n <= BoardSize; n++ {
		if mask&(1<<uint(n-1)) != 0 {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

// SortedCopy returns an ascending copy of numbers.
func SortedCopy(numbers []int) []int {
	out := make([]int, len(numbers))
	copy(out, numbers)
	sort.Ints(out)
	return out
}

// IsValidNumber reports whether n is on the board.
func IsValidNumber(n int) bool {
	return n >= 1 && n <= BoardSize
}
