package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/john-matlock-eng/lifetrack/internal/model"
)

type LogActivityInput struct {
	GoalID       string
	Value        float64
	Unit         string
	Type         model.ActivityType
	ActivityDate time.Time
	Note         string
	TimeOfDay    string
	Energy       int
	Mood         string
	Location     string
}

func LogActivity(db *sql.DB, in LogActivityInput) (*model.Activity, error) {
	goal, err := GetGoal(db, in.GoalID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, fmt.Errorf("goal %q does not exist", in.GoalID)
	}
	if goal.Status != model.StatusActive {
		return nil, fmt.Errorf("goal %q is %s; activities can only be logged against active goals", goal.Title, goal.Status)
	}

	if strings.TrimSpace(in.Unit) == "" {
		in.Unit = goal.Target.Unit
	}
	if in.Type == "" {
		in.Type = model.ActivityProgress
	}
	if !validActivityType(in.Type) {
		return nil, fmt.Errorf("invalid activity type %q (use progress, completed, skipped, partial)", in.Type)
	}
	if in.ActivityDate.IsZero() {
		in.ActivityDate = time.Now()
	}

	activity := model.Activity{
		ID:           uuid.NewString(),
		GoalID:       goal.ID,
		Value:        in.Value,
		Unit:         strings.TrimSpace(in.Unit),
		Type:         in.Type,
		ActivityDate: in.ActivityDate,
		LoggedAt:     time.Now().UTC(),
		Note:         strings.TrimSpace(in.Note),
		Context: model.ActivityContext{
			TimeOfDay: strings.TrimSpace(strings.ToLower(in.TimeOfDay)),
			Energy:    in.Energy,
			Mood:      strings.TrimSpace(in.Mood),
			Location:  strings.TrimSpace(in.Location),
		},
	}

	if problems := ValidateActivityForGoal(activity, *goal); len(problems) > 0 {
		return nil, fmt.Errorf("invalid activity: %s", strings.Join(problems, "; "))
	}

	_, err = db.Exec(`
INSERT INTO activities(id, goal_id, value, unit, type, activity_date, logged_at, note,
  time_of_day, energy, mood, location)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		activity.ID, activity.GoalID, activity.Value, activity.Unit, string(activity.Type),
		activity.ActivityDate.Format(time.RFC3339), activity.LoggedAt, activity.Note,
		activity.Context.TimeOfDay, activity.Context.Energy, activity.Context.Mood, activity.Context.Location,
	)
	if err != nil {
		return nil, fmt.Errorf("log activity: %w", err)
	}
	return &activity, nil
}

// ListActivities returns a goal's activities ordered by activity date
// ascending, optionally restricted to [from, to].
func ListActivities(db *sql.DB, goalID string, from, to *time.Time) ([]model.Activity, error) {
	query := `
SELECT id, goal_id, value, unit, type, activity_date, logged_at, note,
  time_of_day, energy, mood, location
FROM activities
WHERE goal_id = ?`
	args := []any{strings.TrimSpace(goalID)}
	if from != nil {
		query += ` AND activity_date >= ?`
		args = append(args, from.Format(time.RFC3339))
	}
	if to != nil {
		query += ` AND activity_date <= ?`
		args = append(args, to.Format(time.RFC3339))
	}
	query += ` ORDER BY activity_date ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	activities := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		var actType, activityDate string
		if err := rows.Scan(&a.ID, &a.GoalID, &a.Value, &a.Unit, &actType, &activityDate,
			&a.LoggedAt, &a.Note, &a.Context.TimeOfDay, &a.Context.Energy,
			&a.Context.Mood, &a.Context.Location); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Type = model.ActivityType(actType)
		a.ActivityDate, err = time.Parse(time.RFC3339, activityDate)
		if err != nil {
			return nil, fmt.Errorf("parse activity date %q: %w", activityDate, err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return activities, nil
}

func validActivityType(t model.ActivityType) bool {
	switch t {
	case model.ActivityProgress, model.ActivityCompleted, model.ActivitySkipped, model.ActivityPartial:
		return true
	}
	return false
}
