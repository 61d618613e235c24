package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/john-matlock-eng/lifetrack/internal/model"
)

type CreateGoalInput struct {
	Title         string
	Pattern       model.GoalPattern
	Value         float64
	Unit          string
	Direction     model.TargetDirection
	TargetType    model.TargetType
	Period        model.Period
	TargetDate    string
	StartValue    *float64
	Frequency     string
	AllowSkipDays int
	CatchUpOK     bool
}

func CreateGoal(db *sql.DB, in CreateGoalInput) (*model.Goal, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("goal title is required")
	}
	if !validPattern(in.Pattern) {
		return nil, fmt.Errorf("invalid pattern %q (use recurring, milestone, target, streak, limit)", in.Pattern)
	}
	if err := validatePositiveFloat("target value", in.Value); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Unit) == "" {
		return nil, fmt.Errorf("target unit is required")
	}
	if in.Direction == "" {
		in.Direction = model.DirectionIncrease
	}
	if in.TargetType == "" {
		in.TargetType = model.TargetMinimum
	}

	var targetDate *time.Time
	if strings.TrimSpace(in.TargetDate) != "" {
		t, err := parseDateArg("target date", in.TargetDate)
		if err != nil {
			return nil, err
		}
		targetDate = &t
	}

	now := time.Now().UTC()
	goal := model.Goal{
		ID:      uuid.NewString(),
		Title:   in.Title,
		Pattern: in.Pattern,
		Target: model.GoalTarget{
			Value:      in.Value,
			Unit:       strings.TrimSpace(in.Unit),
			Direction:  in.Direction,
			TargetType: in.TargetType,
			Period:     in.Period,
			TargetDate: targetDate,
			StartValue: in.StartValue,
		},
		Schedule: model.GoalSchedule{
			Frequency:     strings.TrimSpace(strings.ToLower(in.Frequency)),
			AllowSkipDays: in.AllowSkipDays,
			CatchUpOK:     in.CatchUpOK,
		},
		Status:    model.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if problems := ValidateGoalConfig(goal); len(problems) > 0 {
		return nil, fmt.Errorf("invalid goal configuration: %s", strings.Join(problems, "; "))
	}

	_, err := db.Exec(`
INSERT INTO goals(id, title, pattern, target_value, target_unit, direction, target_type,
  period, target_date, start_value, current_value, frequency, allow_skip_days, catch_up_ok,
  status, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		goal.ID, goal.Title, string(goal.Pattern), goal.Target.Value, goal.Target.Unit,
		string(goal.Target.Direction), string(goal.Target.TargetType),
		nullString(string(goal.Target.Period)), nullDate(goal.Target.TargetDate),
		goal.Target.StartValue, goal.Target.CurrentValue,
		goal.Schedule.Frequency, goal.Schedule.AllowSkipDays, boolToInt(goal.Schedule.CatchUpOK),
		string(goal.Status), goal.CreatedAt, goal.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return &goal, nil
}

func GetGoal(db *sql.DB, id string) (*model.Goal, error) {
	row := db.QueryRow(goalSelect+` WHERE id = ?`, strings.TrimSpace(id))
	goal, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal %s: %w", id, err)
	}
	return goal, nil
}

func ListGoals(db *sql.DB, status model.GoalStatus) ([]model.Goal, error) {
	query := goalSelect + ` ORDER BY created_at ASC`
	args := []any{}
	if status != "" {
		if !validStatus(status) {
			return nil, fmt.Errorf("invalid status %q (use draft, active, paused, completed, archived)", status)
		}
		query = goalSelect + ` WHERE status = ? ORDER BY created_at ASC`
		args = append(args, string(status))
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := make([]model.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}

func UpdateGoalStatus(db *sql.DB, id string, status model.GoalStatus) error {
	if !validStatus(status) {
		return fmt.Errorf("invalid status %q (use draft, active, paused, completed, archived)", status)
	}
	res, err := db.Exec(`UPDATE goals SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("update goal status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update goal status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %q does not exist", id)
	}
	return nil
}

// UpdateGoalCurrentValue persists the derived current value computed for
// target-pattern goals.
func UpdateGoalCurrentValue(db *sql.DB, id string, value float64) error {
	_, err := db.Exec(`UPDATE goals SET current_value = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		value, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("update goal current value: %w", err)
	}
	return nil
}

const goalSelect = `
SELECT id, title, pattern, target_value, target_unit, direction, target_type,
  period, target_date, start_value, current_value, frequency, allow_skip_days, catch_up_ok,
  status, created_at, updated_at
FROM goals`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (*model.Goal, error) {
	var g model.Goal
	var pattern, direction, targetType, status string
	var period, targetDate sql.NullString
	var startValue, currentValue sql.NullFloat64
	var catchUp int
	err := row.Scan(&g.ID, &g.Title, &pattern, &g.Target.Value, &g.Target.Unit,
		&direction, &targetType, &period, &targetDate, &startValue, &currentValue,
		&g.Schedule.Frequency, &g.Schedule.AllowSkipDays, &catchUp,
		&status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	g.Pattern = model.GoalPattern(pattern)
	g.Target.Direction = model.TargetDirection(direction)
	g.Target.TargetType = model.TargetType(targetType)
	g.Status = model.GoalStatus(status)
	g.Schedule.CatchUpOK = catchUp != 0
	if period.Valid {
		g.Target.Period = model.Period(period.String)
	}
	if targetDate.Valid && targetDate.String != "" {
		t, err := time.Parse("2006-01-02", targetDate.String)
		if err != nil {
			return nil, fmt.Errorf("parse target date %q: %w", targetDate.String, err)
		}
		g.Target.TargetDate = &t
	}
	if startValue.Valid {
		g.Target.StartValue = &startValue.Float64
	}
	if currentValue.Valid {
		g.Target.CurrentValue = &currentValue.Float64
	}
	return &g, nil
}

func validPattern(p model.GoalPattern) bool {
	switch p {
	case model.PatternRecurring, model.PatternMilestone, model.PatternTarget,
		model.PatternStreak, model.PatternLimit:
		return true
	}
	return false
}

func validStatus(s model.GoalStatus) bool {
	switch s {
	case model.StatusDraft, model.StatusActive, model.StatusPaused,
		model.StatusCompleted, model.StatusArchived:
		return true
	}
	return false
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
