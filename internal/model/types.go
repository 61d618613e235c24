package model

import "time"

type GoalPattern string

const (
	PatternRecurring GoalPattern = "recurring"
	PatternMilestone GoalPattern = "milestone"
	PatternTarget    GoalPattern = "target"
	PatternStreak    GoalPattern = "streak"
	PatternLimit     GoalPattern = "limit"
)

type Period string

const (
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

type TargetDirection string

const (
	DirectionIncrease TargetDirection = "increase"
	DirectionDecrease TargetDirection = "decrease"
	DirectionMaintain TargetDirection = "maintain"
)

type TargetType string

const (
	TargetMinimum TargetType = "minimum"
	TargetMaximum TargetType = "maximum"
	TargetExact   TargetType = "exact"
	TargetRange   TargetType = "range"
)

type GoalStatus string

const (
	StatusDraft     GoalStatus = "draft"
	StatusActive    GoalStatus = "active"
	StatusPaused    GoalStatus = "paused"
	StatusCompleted GoalStatus = "completed"
	StatusArchived  GoalStatus = "archived"
)

type ActivityType string

const (
	ActivityProgress  ActivityType = "progress"
	ActivityCompleted ActivityType = "completed"
	ActivitySkipped   ActivityType = "skipped"
	ActivityPartial   ActivityType = "partial"
)

// GoalTarget describes what a goal is aiming for. Which fields are
// required depends on the goal pattern: recurring/streak/limit goals need
// Period, milestone/target goals need TargetDate, and target goals also
// need StartValue.
type GoalTarget struct {
	Value      float64
	Unit       string
	Direction  TargetDirection
	TargetType TargetType
	Period     Period
	TargetDate *time.Time
	StartValue *float64
	// CurrentValue is the last observed value for target-pattern goals.
	// It is derived from activity history by the progress calculation and
	// persisted by the service layer, never written by the core.
	CurrentValue *float64
}

// GoalSchedule is an optional check-in cadence. It does not affect
// progress arithmetic; the insight engine uses Frequency to derive
// expected active days for the consistency statistic.
type GoalSchedule struct {
	Frequency     string
	AllowSkipDays int
	CatchUpOK     bool
}

type Goal struct {
	ID        string
	Title     string
	Pattern   GoalPattern
	Target    GoalTarget
	Schedule  GoalSchedule
	Status    GoalStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivityContext carries optional free-form dimensions about when and
// how an activity happened. Only the insight engine reads it.
type ActivityContext struct {
	TimeOfDay string
	Energy    int
	Mood      string
	Location  string
}

// Activity is a single logged data point against a goal. Activities are
// immutable facts: once logged they are only ever read.
type Activity struct {
	ID           string
	GoalID       string
	Value        float64
	Unit         string
	Type         ActivityType
	ActivityDate time.Time
	LoggedAt     time.Time
	Note         string
	Context      ActivityContext
}
