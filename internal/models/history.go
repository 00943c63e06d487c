package models

import "github.com/shopspring/decimal"

// Sample returns the n most recent rounds. n <= 0 returns the whole history.
// The returned slice aliases history and must be treated as read-only.
func Sample(history []Round, n int) []Round {
	if n <= 0 || n >= len(history) {
		return history
	}
	return history[len(history)-n:]
}

// Since returns the rounds recorded at or after index idx, clamped to the history bounds.
func Since(history []Round, idx int) []Round {
	if idx <= 0 {
		return history
	}
	if idx >= len(history) {
		return history[len(history):]
	}
	return history[idx:]
}

// TotalProfit sums payout minus wager across rounds.
func TotalProfit(rounds []Round) decimal.Decimal {
	total := decimal.Zero
	for i := range rounds {
		total = total.Add(rounds[i].Profit())
	}
	return total
}

// NewestTimestampUnix returns the newest round timestamp in nanoseconds, or 0 for no rounds.
func NewestTimestampUnix(rounds []Round) int64 {
	var newest int64
	for i := range rounds {
		if ts := rounds[i].Timestamp.UnixNano(); ts > newest {
			newest = ts
		}
	}
	return newest
}
