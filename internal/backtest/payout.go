package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Difficulty levels of the payout table
const (
	DifficultyLow    = "low"
	DifficultyMedium = "medium"
	DifficultyHigh   = "high"
)

// PayoutTable maps difficulty → picks → hits → multiplier of the wager.
type PayoutTable map[string]map[int]map[int]float64

// Multiplier returns the payout multiplier for hits out of picks. Unknown
// combinations pay nothing.
func (t PayoutTable) Multiplier(difficulty string, picks, hits int) float64 {
	byPicks, ok := t[difficulty]
	if !ok {
		return 0
	}
	byHits, ok := byPicks[picks]
	if !ok {
		return 0
	}
	return byHits[hits]
}

// Difficulties lists the difficulty levels present in the table.
func (t PayoutTable) Difficulties() []string {
	out := make([]string, 0, len(t))
	for _, d := range []string{DifficultyLow, DifficultyMedium, DifficultyHigh} {
		if _, ok := t[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// LoadPayoutTable reads a JSON table keyed by difficulty, then picks and hits
// as strings, e.g. {"high": {"10": {"5": 4}}}.
func LoadPayoutTable(path string) (PayoutTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payout table: %w", err)
	}
	return ParsePayoutTable(data)
}

// ParsePayoutTable decodes the JSON payout table format.
func ParsePayoutTable(data []byte) (PayoutTable, error) {
	var raw map[string]map[string]map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse payout table: %w", err)
	}

	table := make(PayoutTable, len(raw))
	for difficulty, byPicks := range raw {
		table[difficulty] = make(map[int]map[int]float64, len(byPicks))
		for picksKey, byHits := range byPicks {
			picks, err := strconv.Atoi(picksKey)
			if err != nil {
				return nil, fmt.Errorf("payout table %s: invalid picks %q", difficulty, picksKey)
			}
			table[difficulty][picks] = make(map[int]float64, len(byHits))
			for hitsKey, multiplier := range byHits {
				hits, err := strconv.Atoi(hitsKey)
				if err != nil {
					return nil, fmt.Errorf("payout table %s/%d: invalid hits %q", difficulty, picks, hitsKey)
				}
				if multiplier < 0 {
					return nil, fmt.Errorf("payout table %s/%d/%d: negative multiplier", difficulty, picks, hits)
				}
				table[difficulty][picks][hits] = multiplier
			}
		}
	}
	return table, nil
}

// DefaultPayoutTable returns the built-in multipliers for 1 to 10 picks.
func DefaultPayoutTable() PayoutTable {
	return PayoutTable{
		DifficultyLow: {
			1:  {0: 0.7, 1: 1.85},
			2:  {1: 2, 2: 3.8},
			3:  {1: 1.1, 2: 1.38, 3: 26},
			4:  {2: 2.2, 3: 7.9, 4: 90},
			5:  {2: 1.5, 3: 4.2, 4: 13, 5: 300},
			6:  {2: 1.1, 3: 2, 4: 6.2, 5: 100, 6: 700},
			7:  {2: 1.1, 3: 1.6, 4: 3.5, 5: 15, 6: 225, 7: 700},
			8:  {2: 1.1, 3: 1.5, 4: 2, 5: 5.5, 6: 39, 7: 100, 8: 800},
			9:  {2: 1.1, 3: 1.3, 4: 1.7, 5: 2.5, 6: 7.5, 7: 50, 8: 250, 9: 1000},
			10: {2: 1.1, 3: 1.2, 4: 1.3, 5: 1.8, 6: 3.5, 7: 13, 8: 50, 9: 250, 10: 1000},
		},
		DifficultyMedium: {
			1:  {0: 0.4, 1: 2.75},
			2:  {1: 1.8, 2: 5.1},
			3:  {2: 2.8, 3: 50},
			4:  {2: 1.7, 3: 10, 4: 100},
			5:  {2: 1.4, 3: 4, 4: 14, 5: 390},
			6:  {3: 3, 4: 9, 5: 180, 6: 710},
			7:  {3: 2, 4: 7, 5: 30, 6: 400, 7: 800},
			8:  {3: 2, 4: 4, 5: 11, 6: 67, 7: 400, 8: 900},
			9:  {3: 2, 4: 2.5, 5: 5, 6: 15, 7: 100, 8: 500, 9: 1000},
			10: {3: 1.6, 4: 2, 5: 4, 6: 7, 7: 26, 8: 100, 9: 500, 10: 1000},
		},
		DifficultyHigh: {
			1:  {1: 3.96},
			2:  {2: 17.1},
			3:  {3: 81.5},
			4:  {3: 10, 4: 259},
			5:  {3: 4.5, 4: 48, 5: 450},
			6:  {4: 11, 5: 350, 6: 710},
			7:  {4: 7, 5: 90, 6: 400, 7: 800},
			8:  {4: 5, 5: 20, 6: 270, 7: 600, 8: 900},
			9:  {4: 4, 5: 11, 6: 56, 7: 500, 8: 800, 9: 1000},
			10: {4: 3.5, 5: 8, 6: 13, 7: 63, 8: 500, 9: 800, 10: 1000},
		},
	}
}
