package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/john-matlock-eng/lifetrack/internal/model"
)

type ExportGoal struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Pattern       string   `json:"pattern"`
	TargetValue   float64  `json:"target_value"`
	TargetUnit    string   `json:"target_unit"`
	Direction     string   `json:"direction"`
	TargetType    string   `json:"target_type"`
	Period        string   `json:"period,omitempty"`
	TargetDate    string   `json:"target_date,omitempty"`
	StartValue    *float64 `json:"start_value,omitempty"`
	CurrentValue  *float64 `json:"current_value,omitempty"`
	Frequency     string   `json:"frequency,omitempty"`
	AllowSkipDays int      `json:"allow_skip_days,omitempty"`
	CatchUpOK     bool     `json:"catch_up_ok,omitempty"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"created_at"`
}

type ExportActivity struct {
	ID           string  `json:"id"`
	GoalID       string  `json:"goal_id"`
	Value        float64 `json:"value"`
	Unit         string  `json:"unit,omitempty"`
	Type         string  `json:"type"`
	ActivityDate string  `json:"activity_date"`
	LoggedAt     string  `json:"logged_at"`
	Note         string  `json:"note,omitempty"`
	TimeOfDay    string  `json:"time_of_day,omitempty"`
	Energy       int     `json:"energy,omitempty"`
	Mood         string  `json:"mood,omitempty"`
	Location     string  `json:"location,omitempty"`
}

type ExportBundle struct {
	ExportedAt string           `json:"exported_at"`
	Goals      []ExportGoal     `json:"goals"`
	Activities []ExportActivity `json:"activities"`
}

// ExportData writes every goal and activity as a single JSON document.
func ExportData(db *sql.DB, w io.Writer) error {
	goals, err := ListGoals(db, "")
	if err != nil {
		return err
	}

	bundle := ExportBundle{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Goals:      make([]ExportGoal, 0, len(goals)),
		Activities: make([]ExportActivity, 0),
	}
	for _, g := range goals {
		bundle.Goals = append(bundle.Goals, exportGoal(g))

		activities, err := ListActivities(db, g.ID, nil, nil)
		if err != nil {
			return err
		}
		for _, a := range activities {
			bundle.Activities = append(bundle.Activities, exportActivity(a))
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

func exportGoal(g model.Goal) ExportGoal {
	out := ExportGoal{
		ID:            g.ID,
		Title:         g.Title,
		Pattern:       string(g.Pattern),
		TargetValue:   g.Target.Value,
		TargetUnit:    g.Target.Unit,
		Direction:     string(g.Target.Direction),
		TargetType:    string(g.Target.TargetType),
		Period:        string(g.Target.Period),
		StartValue:    g.Target.StartValue,
		CurrentValue:  g.Target.CurrentValue,
		Frequency:     g.Schedule.Frequency,
		AllowSkipDays: g.Schedule.AllowSkipDays,
		CatchUpOK:     g.Schedule.CatchUpOK,
		Status:        string(g.Status),
		CreatedAt:     g.CreatedAt.UTC().Format(time.RFC3339),
	}
	if g.Target.TargetDate != nil {
		out.TargetDate = g.Target.TargetDate.Format("2006-01-02")
	}
	return out
}

func exportActivity(a model.Activity) ExportActivity {
	return ExportActivity{
		ID:           a.ID,
		GoalID:       a.GoalID,
		Value:        a.Value,
		Unit:         a.Unit,
		Type:         string(a.Type),
		ActivityDate: a.ActivityDate.Format(time.RFC3339),
		LoggedAt:     a.LoggedAt.UTC().Format(time.RFC3339),
		Note:         a.Note,
		TimeOfDay:    a.Context.TimeOfDay,
		Energy:       a.Context.Energy,
		Mood:         a.Context.Mood,
		Location:     a.Context.Location,
	}
}
