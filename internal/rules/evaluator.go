package rules

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keno-analytics/internal/logger"
	"github.com/yourusername/keno-analytics/internal/metrics"
	"github.com/yourusername/keno-analytics/internal/models"
)

// Decision is an evaluated action and why it was chosen.
type Decision struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
	// Met holds the indices of the conditions that held.
	Met []int `json:"met"`
}

// Evaluator evaluates rule sets and reports its decisions.
type Evaluator struct {
	log *logger.RefreshLogger
}

// NewEvaluator creates an evaluator. A nil logger discards output.
func NewEvaluator(log *logrus.Logger) *Evaluator {
	return &Evaluator{log: logger.NewRefreshLogger(logger.OrNop(log))}
}

var defaultEvaluator = NewEvaluator(nil)

// Evaluate decides stay or switch for rs against the rounds since
// lastRefreshRound.
func Evaluate(rs RuleSet, history []models.Round, lastRefreshRound int) Action {
	return defaultEvaluator.Evaluate(rs, history, lastRefreshRound).Action
}

// ConditionMet reports whether c holds against the rounds since
// lastRefreshRound. Window metrics need RoundsWindow rounds to have been
// played since the refresh; streaks need one.
func ConditionMet(c Condition, history []models.Round, lastRefreshRound int) bool {
	if !c.Operator.Valid() {
		return false
	}

	elapsed := len(models.Since(history, lastRefreshRound))
	required := c.RoundsWindow
	if c.Metric.IsStreak() || required < 1 {
		required = 1
	}
	if elapsed < required {
		return false
	}

	value, ok := ComputeMetrics(history, lastRefreshRound, c.RoundsWindow).Value(c.Metric)
	if !ok {
		return false
	}
	return c.Operator.Apply(value, c.Value)
}

// Evaluate implements the rule semantics:
//   - disabled or empty rule sets switch;
//   - OR takes the first met condition's action, or the opposite of the
//     first condition's action when none is met;
//   - AND with several conditions needs every condition met with one shared
//     action, otherwise DefaultAction. A single AND condition behaves as OR.
func (e *Evaluator) Evaluate(rs RuleSet, history []models.Round, lastRefreshRound int) Decision {
	logic := ParseLogic(string(rs.Logic))
	decision := e.decide(rs, logic, history, lastRefreshRound)

	metrics.RecordRuleDecision(string(logic), string(decision.Action))
	e.log.LogRuleDecision(string(logic), len(rs.Conditions), string(decision.Action), decision.Reason)
	return decision
}

func (e *Evaluator) decide(rs RuleSet, logic Logic, history []models.Round, lastRefreshRound int) Decision {
	if !rs.Enabled {
		return Decision{Action: ActionSwitch, Reason: "rules disabled"}
	}
	if len(rs.Conditions) == 0 {
		return Decision{Action: ActionSwitch, Reason: "no conditions"}
	}

	var met []int
	for i, c := range rs.Conditions {
		if ConditionMet(c, history, lastRefreshRound) {
			met = append(met, i)
		}
	}

	if logic == LogicAnd && len(rs.Conditions) > 1 {
		if len(met) == len(rs.Conditions) {
			action := rs.Conditions[0].Action
			shared := true
			for _, c := range rs.Conditions[1:] {
				if c.Action != action {
					shared = false
					break
				}
			}
			if shared && action.Valid() {
				return Decision{Action: action, Reason: "all conditions met", Met: met}
			}
		}
		return Decision{
			Action: defaultAction(rs.DefaultAction),
			Reason: fmt.Sprintf("%d of %d conditions met, using default", len(met), len(rs.Conditions)),
			Met:    met,
		}
	}

	if len(met) > 0 {
		first := rs.Conditions[met[0]]
		return Decision{
			Action: normalize(first.Action),
			Reason: fmt.Sprintf("condition %d met: %s", met[0]+1, first),
			Met:    met,
		}
	}
	return Decision{
		Action: normalize(rs.Conditions[0].Action).Opposite(),
		Reason: "no condition met, inverting first condition",
	}
}

func normalize(a Action) Action {
	if a.Valid() {
		return a
	}
	return ActionSwitch
}

func defaultAction(a Action) Action {
	if a.Valid() {
		return a
	}
	return ActionStay
}
