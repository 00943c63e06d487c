package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keno-analytics/internal/logger"
	"github.com/yourusername/keno-analytics/internal/models"
)

// record is one round in the exported history format. Drawn numbers come
// from "drawn", or from "hits" plus "misses" when "drawn" is absent.
type record struct {
	Drawn     []int            `json:"drawn,omitempty"`
	Hits      []int            `json:"hits,omitempty"`
	Misses    []int            `json:"misses,omitempty"`
	Selected  []int            `json:"selected"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Wager     *decimal.Decimal `json:"wager,omitempty"`
	Payout    *decimal.Decimal `json:"payout,omitempty"`
	Time      json.RawMessage  `json:"time,omitempty"`
	Timestamp json.RawMessage  `json:"timestamp,omitempty"`
}

// Skipped describes an exported record that did not form a valid round.
type Skipped struct {
	Index int
	Err   error
}

// LoadResult is the outcome of decoding an export.
type LoadResult struct {
	Rounds  []models.Round
	Skipped []Skipped
}

// LoadFile reads an exported history file. Invalid records are skipped and
// logged at warn level.
func LoadFile(path string, log *logrus.Logger) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	result, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode history file %s: %w", path, err)
	}

	entry := logger.OrNop(log).WithFields(logrus.Fields{
		"component": "history",
		"path":      path,
	})
	for _, s := range result.Skipped {
		entry.WithField("record", s.Index).WithError(s.Err).Warn("Skipping invalid history record")
	}
	entry.WithFields(logrus.Fields{
		"rounds":  len(result.Rounds),
		"skipped": len(result.Skipped),
	}).Info("History loaded")
	return result, nil
}

// Decode parses an export: either a JSON array of records, or an object
// holding the array under "history", "rounds" or "data".
func Decode(r io.Reader) (*LoadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &LoadResult{}, nil
	}

	var records []record
	if data[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		var raw json.RawMessage
		for _, key := range []string{"history", "rounds", "data"} {
			if v, ok := wrapper[key]; ok {
				raw = v
				break
			}
		}
		if raw == nil {
			return nil, fmt.Errorf("no history, rounds or data array found")
		}
		data = raw
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	result := &LoadResult{Rounds: make([]models.Round, 0, len(records))}
	for i := range records {
		round, err := records[i].toRound(i)
		if err == nil {
			err = round.Validate()
		}
		if err != nil {
			result.Skipped = append(result.Skipped, Skipped{Index: i, Err: err})
			continue
		}
		result.Rounds = append(result.Rounds, round)
	}
	return result, nil
}

func (rec *record) toRound(index int) (models.Round, error) {
	drawn := rec.Drawn
	if len(drawn) == 0 {
		drawn = append(append([]int(nil), rec.Hits...), rec.Misses...)
		sort.Ints(drawn)
	}

	round := models.Round{
		DrawnNumbers:    drawn,
		SelectedNumbers: rec.Selected,
		Wager:           decimal.Zero,
		Payout:          decimal.Zero,
	}
	switch {
	case rec.Wager != nil:
		round.Wager = *rec.Wager
	case rec.Amount != nil:
		round.Wager = *rec.Amount
	}
	if rec.Payout != nil {
		round.Payout = *rec.Payout
	}

	raw := rec.Timestamp
	if len(raw) == 0 {
		raw = rec.Time
	}
	ts, err := parseTime(raw)
	if err != nil {
		return models.Round{}, models.NewValidationError("Timestamp", err.Error())
	}
	if ts.IsZero() {
		// Exports without timestamps keep their order on a synthetic clock.
		ts = time.Unix(int64(index), 0).UTC()
	}
	round.Timestamp = ts
	return round, nil
}

// parseTime accepts epoch milliseconds or seconds (number or numeric string)
// and RFC 3339 strings. Empty input yields the zero time.
func parseTime(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, nil
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
	} else {
		s = string(raw)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised time %q", s)
	}
	if f > 1e12 {
		return time.UnixMilli(int64(f)).UTC(), nil
	}
	return time.Unix(int64(f), 0).UTC(), nil
}

// Encode writes rounds in the export format. Timestamps are RFC 3339 strings
// with nanoseconds so they decode to the same instant at any epoch.
func Encode(w io.Writer, rounds []models.Round) error {
	type exported struct {
		Drawn    []int           `json:"drawn"`
		Selected []int           `json:"selected"`
		Amount   decimal.Decimal `json:"amount"`
		Payout   decimal.Decimal `json:"payout"`
		Time     string          `json:"time"`
	}

	out := make([]exported, len(rounds))
	for i := range rounds {
		selected := rounds[i].SelectedNumbers
		if selected == nil {
			selected = []int{}
		}
		out[i] = exported{
			Drawn:    rounds[i].DrawnNumbers,
			Selected: selected,
			Amount:   rounds[i].Wager,
			Payout:   rounds[i].Payout,
			Time:     rounds[i].Timestamp.UTC().Format(time.RFC3339Nano),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteFile encodes rounds into path, replacing any existing file.
func WriteFile(path string, rounds []models.Round) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create history file: %w", err)
	}
	if err := Encode(f, rounds); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return f.Close()
}
