// Package rules evaluates user-defined refresh conditions over rolling round
// metrics and decides whether to keep or replace a prediction.
package rules

import (
	"fmt"
	"strings"
)

// Metric names a rolling statistic a condition can test.
type Metric string

// Supported metrics
const (
	MetricBetsWon       Metric = "betsWon"
	MetricBetsLost      Metric = "betsLost"
	MetricWinRate       Metric = "winRate"
	MetricTotalProfit   Metric = "totalProfit"
	MetricAverageProfit Metric = "averageProfit"
	MetricProfitStreak  Metric = "profitStreak"
	MetricLossStreak    Metric = "lossStreak"
	MetricTotalHits     Metric = "totalHits"
	MetricTotalMisses   Metric = "totalMisses"
	MetricHitRate       Metric = "hitRate"
	MetricAverageHits   Metric = "averageHits"
)

var allMetrics = []Metric{
	MetricBetsWon, MetricBetsLost, MetricWinRate, MetricTotalProfit, MetricAverageProfit,
	MetricProfitStreak, MetricLossStreak, MetricTotalHits, MetricTotalMisses, MetricHitRate,
	MetricAverageHits,
}

// AllMetrics lists every supported metric.
func AllMetrics() []Metric {
	return append([]Metric(nil), allMetrics...)
}

// Valid reports whether m is a supported metric.
func (m Metric) Valid() bool {
	for _, known := range allMetrics {
		if m == known {
			return true
		}
	}
	return false
}

// IsStreak reports whether m counts a run of rounds rather than a window.
func (m Metric) IsStreak() bool {
	return m == MetricProfitStreak || m == MetricLossStreak
}

// Operator compares a metric against a threshold.
type Operator string

// Supported operators
const (
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "=="
)

// Valid reports whether op is a supported operator.
func (op Operator) Valid() bool {
	switch op {
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual, OpEqual:
		return true
	}
	return false
}

// Apply evaluates "value op threshold". Unknown operators never hold.
func (op Operator) Apply(value, threshold float64) bool {
	switch op {
	case OpGreater:
		return value > threshold
	case OpGreaterEqual:
		return value >= threshold
	case OpLess:
		return value < threshold
	case OpLessEqual:
		return value <= threshold
	case OpEqual:
		return value == threshold
	}
	return false
}

// Action is the outcome of a rule evaluation.
type Action string

// Actions
const (
	ActionStay   Action = "stay"
	ActionSwitch Action = "switch"
)

// Valid reports whether a is stay or switch.
func (a Action) Valid() bool {
	return a == ActionStay || a == ActionSwitch
}

// Opposite returns the other action. Anything but stay maps to stay.
func (a Action) Opposite() Action {
	if a == ActionStay {
		return ActionSwitch
	}
	return ActionStay
}

// Logic combines conditions.
type Logic string

// Logic modes
const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// ParseLogic normalizes a logic name. Anything but AND is OR.
func ParseLogic(s string) Logic {
	if strings.EqualFold(strings.TrimSpace(s), string(LogicAnd)) {
		return LogicAnd
	}
	return LogicOr
}

// Condition tests one metric over the most recent RoundsWindow rounds since
// the last refresh.
type Condition struct {
	Metric       Metric   `json:"metric" mapstructure:"metric" yaml:"metric"`
	Operator     Operator `json:"operator" mapstructure:"operator" yaml:"operator"`
	Value        float64  `json:"value" mapstructure:"value" yaml:"value"`
	RoundsWindow int      `json:"rounds" mapstructure:"rounds" yaml:"rounds"`
	Action       Action   `json:"action" mapstructure:"action" yaml:"action"`
}

// String renders the condition for logs.
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %g over %d rounds -> %s", c.Metric, c.Operator, c.Value, c.RoundsWindow, c.Action)
}

// RuleSet is an ordered list of conditions combined with AND or OR.
type RuleSet struct {
	Enabled       bool        `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Logic         Logic       `json:"logic" mapstructure:"logic" yaml:"logic"`
	Conditions    []Condition `json:"conditions" mapstructure:"conditions" yaml:"conditions"`
	DefaultAction Action      `json:"default_action" mapstructure:"default_action" yaml:"default_action"`
}

// Validate reports the first malformed condition. Evaluation tolerates
// malformed conditions by treating them as unmet; Validate lets config
// loading reject them early.
func (rs RuleSet) Validate() error {
	if rs.Logic != "" && rs.Logic != LogicAnd && rs.Logic != LogicOr {
		return fmt.Errorf("unknown logic %q", rs.Logic)
	}
	if rs.DefaultAction != "" && !rs.DefaultAction.Valid() {
		return fmt.Errorf("unknown default action %q", rs.DefaultAction)
	}
	for i, c := range rs.Conditions {
		if !c.Metric.Valid() {
			return fmt.Errorf("condition %d: unknown metric %q", i, c.Metric)
		}
		if !c.Operator.Valid() {
			return fmt.Errorf("condition %d: unknown operator %q", i, c.Operator)
		}
		if !c.Action.Valid() {
			return fmt.Errorf("condition %d: unknown action %q", i, c.Action)
		}
		if c.RoundsWindow < 0 {
			return fmt.Errorf("condition %d: rounds window must not be negative", i)
		}
	}
	return nil
}
