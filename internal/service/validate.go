package service

import (
	"fmt"

	"github.com/john-matlock-eng/lifetrack/internal/model"
)

// ValidateGoalConfig checks that a goal's target configuration makes
// sense for its pattern. It returns every violation found, not just the
// first, so callers can surface all problems at once. An empty slice
// means the configuration is valid.
func ValidateGoalConfig(goal model.Goal) []string {
	problems := make([]string, 0)
	target := goal.Target

	switch goal.Pattern {
	case model.PatternRecurring:
		if target.Period == "" {
			problems = append(problems, "period required for recurring goals")
		}
		if target.TargetDate != nil {
			problems = append(problems, "target_date should not be set for recurring goals")
		}
	case model.PatternMilestone:
		if target.TargetDate == nil {
			problems = append(problems, "target_date required for milestone goals")
		}
		if target.Period != "" {
			problems = append(problems, "period should not be set for milestone goals")
		}
	case model.PatternTarget:
		if target.TargetDate == nil {
			problems = append(problems, "target_date required for target goals")
		}
		if target.StartValue == nil {
			problems = append(problems, "start_value required for target goals")
		}
	case model.PatternStreak:
		if target.Period == "" {
			problems = append(problems, "period required for streak goals")
		}
		if target.Value <= 0 {
			problems = append(problems, "target value must be greater than zero for streak goals")
		}
	case model.PatternLimit:
		if target.Period == "" {
			problems = append(problems, "period required for limit goals")
		}
	}
	return problems
}

// ValidateActivityForGoal checks that a logged activity conforms to its
// goal. Same contract as ValidateGoalConfig: exhaustive list of
// violations, empty means valid.
func ValidateActivityForGoal(activity model.Activity, goal model.Goal) []string {
	problems := make([]string, 0)

	if activity.Unit != "" && activity.Unit != goal.Target.Unit {
		problems = append(problems, fmt.Sprintf("activity unit %q does not match goal unit %q", activity.Unit, goal.Target.Unit))
	}
	if goal.Pattern == model.PatternStreak && activity.Value != 1 {
		problems = append(problems, "streak activities must have value 1")
	}
	if goal.Target.TargetDate != nil && dateOnlyUTC(activity.ActivityDate).After(dateOnlyUTC(*goal.Target.TargetDate)) {
		problems = append(problems, fmt.Sprintf("activity date is after the goal target date %s", goal.Target.TargetDate.Format("2006-01-02")))
	}
	return problems
}
