package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/john-matlock-eng/lifetrack/internal/model"
)

// PeriodEntry is one row of a goal's bucketed history: the total logged
// in that bucket and whether the bucket met the goal's target.
type PeriodEntry struct {
	PeriodKey string    `json:"period_key"`
	Achieved  bool      `json:"achieved"`
	Value     float64   `json:"value"`
	Date      time.Time `json:"date"`
}

// Progress is the output of a progress calculation. Only the fields
// relevant to the goal's pattern are populated: period fields for
// recurring/limit, accumulation fields for milestone, streak counters
// for streak, and CurrentValue for target.
type Progress struct {
	PercentComplete     float64       `json:"percent_complete"`
	CurrentPeriodValue  *float64      `json:"current_period_value,omitempty"`
	PeriodHistory       []PeriodEntry `json:"period_history,omitempty"`
	TotalAccumulated    *float64      `json:"total_accumulated,omitempty"`
	RemainingToGoal     *float64      `json:"remaining_to_goal,omitempty"`
	CurrentStreak       *int          `json:"current_streak,omitempty"`
	LongestStreak       *int          `json:"longest_streak,omitempty"`
	TargetStreak        *int          `json:"target_streak,omitempty"`
	AverageValue        *float64      `json:"average_value,omitempty"`
	DaysOverLimit       *int          `json:"days_over_limit,omitempty"`
	CurrentValue        *float64      `json:"current_value,omitempty"`
	Trend               Trend         `json:"trend"`
	ProjectedCompletion *time.Time    `json:"projected_completion,omitempty"`
	SuccessRate         float64       `json:"success_rate"`
}

// CalculateProgress runs the calculation strategy for the goal's pattern
// over its activity history. The activities need not be pre-sorted; now
// anchors lookback windows, streak freshness, and projections so callers
// (and tests) control the clock.
//
// Degenerate input (no activities, zero targets) yields zeroed Progress
// values, never an error. An unknown pattern is a contract violation by
// the caller and panics.
func CalculateProgress(goal model.Goal, activities []model.Activity, now time.Time) Progress {
	switch goal.Pattern {
	case model.PatternRecurring:
		return calculateRecurring(goal, activities, now)
	case model.PatternMilestone:
		return calculateMilestone(goal, activities, now)
	case model.PatternTarget:
		return calculateTarget(goal, activities, now)
	case model.PatternStreak:
		return calculateStreak(goal, activities, now)
	case model.PatternLimit:
		return calculateLimit(goal, activities, now)
	default:
		panic(fmt.Sprintf("unknown goal pattern %q", goal.Pattern))
	}
}

// progressActivities filters to progress-type activities sorted by
// activity date ascending.
func progressActivities(activities []model.Activity) []model.Activity {
	out := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if a.Type == model.ActivityProgress {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ActivityDate.Before(out[j].ActivityDate)
	})
	return out
}

// lookbackStart returns how far back bucketed history reaches: 30 day
// buckets, 12 week buckets, or roughly a year for coarser periods.
func lookbackStart(now time.Time, period model.Period) time.Time {
	switch period {
	case model.PeriodWeek:
		return now.AddDate(0, 0, -7*11)
	case model.PeriodDay, "":
		return now.AddDate(0, 0, -29)
	default:
		return now.AddDate(0, 0, -365)
	}
}

// periodTotals buckets progress activities into the goal's period over
// the lookback window anchored at now. Buckets run from the first
// activity inside the window through the later of now and the last
// activity; buckets with no activity appear with value 0. No activities
// means no buckets.
func periodTotals(goal model.Goal, activities []model.Activity, now time.Time) []PeriodEntry {
	acts := progressActivities(activities)
	if len(acts) == 0 {
		return nil
	}
	period := goal.Target.Period

	windowStart := lookbackStart(now, period)
	first := acts[0].ActivityDate
	if first.After(windowStart) {
		windowStart = first
	}
	windowEnd := now
	if last := acts[len(acts)-1].ActivityDate; last.After(windowEnd) {
		windowEnd = last
	}

	totals := make(map[string]float64)
	for _, a := range acts {
		if a.ActivityDate.Before(windowStart) {
			continue
		}
		totals[PeriodKey(a.ActivityDate, period)] += a.Value
	}

	starts := PeriodStarts(windowStart, windowEnd, period)
	entries := make([]PeriodEntry, 0, len(starts))
	for _, start := range starts {
		key := PeriodKey(start, period)
		entries = append(entries, PeriodEntry{
			PeriodKey: key,
			Value:     totals[key],
			Date:      start,
		})
	}
	return entries
}

func calculateRecurring(goal model.Goal, activities []model.Activity, now time.Time) Progress {
	entries := periodTotals(goal, activities, now)
	if len(entries) == 0 {
		return Progress{Trend: TrendStable}
	}

	achieved := 0
	values := make([]float64, 0, len(entries))
	for i := range entries {
		entries[i].Achieved = entries[i].Value >= goal.Target.Value
		if entries[i].Achieved {
			achieved++
		}
		values = append(values, entries[i].Value)
	}
	successRate := float64(achieved) / float64(len(entries)) * 100

	currentKey := PeriodKey(now, goal.Target.Period)
	current := 0.0
	for _, e := range entries {
		if e.PeriodKey == currentKey {
			current = e.Value
			break
		}
	}

	return Progress{
		PercentComplete:    successRate,
		CurrentPeriodValue: &current,
		PeriodHistory:      entries,
		Trend:              TrendOf(values),
		SuccessRate:        successRate,
	}
}

func calculateMilestone(goal model.Goal, activities []model.Activity, now time.Time) Progress {
	acts := progressActivities(activities)

	total := 0.0
	values := make([]float64, 0, len(acts))
	for _, a := range acts {
		total += a.Value
		values = append(values, a.Value)
	}

	percent := 0.0
	if goal.Target.Value > 0 {
		percent = math.Min(100, total/goal.Target.Value*100)
	}
	remaining := math.Max(0, goal.Target.Value-total)

	p := Progress{
		PercentComplete:  percent,
		TotalAccumulated: &total,
		RemainingToGoal:  &remaining,
		Trend:            TrendOf(values),
		SuccessRate:      percent,
	}

	if len(acts) >= 2 {
		elapsed := now.Sub(acts[0].ActivityDate).Hours() / 24
		if elapsed > 0 {
			rate := total / elapsed
			if rate > 0 {
				projected := now.Add(time.Duration(remaining / rate * 24 * float64(time.Hour)))
				p.ProjectedCompletion = &projected
			}
		}
	}
	return p
}

func calculateTarget(goal model.Goal, activities []model.Activity, now time.Time) Progress {
	if goal.Target.StartValue == nil {
		// Invalid configuration; the validator rejects this before goals
		// are accepted.
		return Progress{Trend: TrendStable}
	}
	start := *goal.Target.StartValue
	acts := progressActivities(activities)

	current := start
	values := make([]float64, 0, len(acts))
	for _, a := range acts {
		values = append(values, a.Value)
	}
	if len(acts) > 0 {
		current = acts[len(acts)-1].Value
	}

	span := goal.Target.Value - start
	percent := 0.0
	if span == 0 {
		if current == goal.Target.Value {
			percent = 100
		}
	} else {
		percent = math.Min(100, math.Abs(current-start)/math.Abs(span)*100)
	}

	p := Progress{
		PercentComplete: percent,
		CurrentValue:    &current,
		Trend:           TrendOf(values),
		SuccessRate:     percent,
	}

	if len(acts) >= 2 {
		elapsed := now.Sub(acts[0].ActivityDate).Hours() / 24
		if elapsed > 0 {
			// Rate and remaining change are signed; direction can be
			// increase or decrease, so the projected day count is the
			// absolute ratio.
			rate := (current - start) / elapsed
			remaining := goal.Target.Value - current
			if rate != 0 {
				days := math.Abs(remaining / rate)
				projected := now.Add(time.Duration(days * 24 * float64(time.Hour)))
				p.ProjectedCompletion = &projected
			}
		}
	}
	return p
}

func calculateStreak(goal model.Goal, activities []model.Activity, now time.Time) Progress {
	targetStreak := int(goal.Target.Value)

	// Distinct calendar days with a progress activity, ascending.
	seen := make(map[time.Time]struct{})
	days := make([]time.Time, 0)
	for _, a := range progressActivities(activities) {
		d := dateOnlyUTC(a.ActivityDate)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	current, longest := 0, 0
	for i, d := range days {
		if i == 0 {
			current = 1
			continue
		}
		if daysBetween(days[i-1], d) == 1 {
			current++
			continue
		}
		if current > longest {
			longest = current
		}
		current = 1
	}
	if current > longest {
		longest = current
	}
	if len(days) == 0 || daysBetween(days[len(days)-1], dateOnlyUTC(now)) > 1 {
		current = 0
	}

	percent := 0.0
	if targetStreak > 0 {
		percent = math.Min(100, float64(current)/float64(targetStreak)*100)
	}

	// Streak trend is binary: a live streak is improving, a broken one
	// declining. Regression is meaningless over constant-1 values.
	trend := TrendDeclining
	if current > 0 {
		trend = TrendImproving
	}

	return Progress{
		PercentComplete: percent,
		CurrentStreak:   &current,
		LongestStreak:   &longest,
		TargetStreak:    &targetStreak,
		Trend:           trend,
		SuccessRate:     percent,
	}
}

func calculateLimit(goal model.Goal, activities []model.Activity, now time.Time) Progress {
	entries := periodTotals(goal, activities, now)
	if len(entries) == 0 {
		// Vacuously compliant: no buckets means the limit was never
		// exceeded. PercentComplete still reports 0 for "no data yet".
		return Progress{Trend: TrendStable, SuccessRate: 100}
	}

	over := 0
	sum := 0.0
	values := make([]float64, 0, len(entries))
	for i := range entries {
		entries[i].Achieved = entries[i].Value <= goal.Target.Value
		if !entries[i].Achieved {
			over++
		}
		sum += entries[i].Value
		values = append(values, entries[i].Value)
	}
	successRate := float64(len(entries)-over) / float64(len(entries)) * 100
	average := sum / float64(len(entries))

	currentKey := PeriodKey(now, goal.Target.Period)
	current := 0.0
	for _, e := range entries {
		if e.PeriodKey == currentKey {
			current = e.Value
			break
		}
	}

	return Progress{
		PercentComplete:    successRate,
		CurrentPeriodValue: &current,
		PeriodHistory:      entries,
		AverageValue:       &average,
		DaysOverLimit:      &over,
		Trend:              TrendOf(values),
		SuccessRate:        successRate,
	}
}
