package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/john-matlock-eng/lifetrack/internal/model"
)

// ProgressReport bundles a goal with its freshly computed progress,
// statistics, and insights.
type ProgressReport struct {
	GoalID     string            `json:"goal_id"`
	Title      string            `json:"title"`
	Pattern    model.GoalPattern `json:"pattern"`
	Progress   Progress          `json:"progress"`
	Statistics Statistics        `json:"statistics"`
	Insights   Insights          `json:"insights"`
}

// GoalProgress loads a goal and its full activity history and runs the
// calculation core over them. The derived current value for
// target-pattern goals is persisted back to the goal row here; the core
// itself never touches storage.
func GoalProgress(db *sql.DB, goalID string, now time.Time) (*ProgressReport, error) {
	goal, err := GetGoal(db, goalID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, fmt.Errorf("goal %q does not exist", goalID)
	}

	activities, err := ListActivities(db, goal.ID, nil, nil)
	if err != nil {
		return nil, err
	}

	progress := CalculateProgress(*goal, activities, now)
	if goal.Pattern == model.PatternTarget && progress.CurrentValue != nil {
		if err := UpdateGoalCurrentValue(db, goal.ID, *progress.CurrentValue); err != nil {
			return nil, err
		}
	}

	stats := BuildStatistics(*goal, activities, now)
	insights := BuildInsights(*goal, activities, progress, stats)

	return &ProgressReport{
		GoalID:     goal.ID,
		Title:      goal.Title,
		Pattern:    goal.Pattern,
		Progress:   progress,
		Statistics: stats,
		Insights:   insights,
	}, nil
}
