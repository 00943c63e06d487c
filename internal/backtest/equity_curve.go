package backtest

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"
)

// EquityPoint represents the bankroll after a replayed round
type EquityPoint struct {
	Round    int       `json:"round"`
	Time     time.Time `json:"time"`
	Value    float64   `json:"value"`
	Drawdown float64   `json:"drawdown"`
}

// EquityCurve represents a series of equity points
type EquityCurve []EquityPoint

// GetReturns calculates per-round returns from the equity curve
func (e EquityCurve) GetReturns() []float64 {
	if len(e) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		prev := e[i-1].Value
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (e[i].Value-prev)/prev)
	}
	return returns
}

// GetVolatility calculates the population standard deviation of returns
func (e EquityCurve) GetVolatility() float64 {
	returns := e.GetReturns()
	if len(returns) == 0 {
		return 0
	}
	_, variance := stat.PopMeanVariance(returns, nil)
	return math.Sqrt(variance)
}

// GetDownsideDeviation calculates downside deviation of returns
func (e EquityCurve) GetDownsideDeviation() float64 {
	return downsideDeviation(e.GetReturns())
}

// MaxDrawdown returns the largest peak-to-trough fall as a fraction of the peak
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	peak := 0.0
	for _, p := range e {
		if p.Value > peak {
			peak = p.Value
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - p.Value) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// WriteCSV exports the equity curve as CSV
func (e EquityCurve) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"round", "time", "value", "drawdown"}); err != nil {
		return err
	}
	for _, point := range e {
		record := []string{
			strconv.Itoa(point.Round),
			point.Time.Format(time.RFC3339),
			formatFloat(point.Value),
			formatFloat(point.Drawdown),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToJSON exports equity curve to JSON string
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}

func downsideDeviation(returns []float64) float64 {
	sum := 0.0
	count := 0
	for _, r := range returns {
		if r < 0 {
			sum += r * r
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(count))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
