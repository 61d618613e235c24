package service

import (
	"fmt"
	"time"

	"github.com/john-matlock-eng/lifetrack/internal/model"
)

// consistencyWindowDays is how far back the consistency statistic looks.
const consistencyWindowDays = 30

// maxRecommendations caps how many recommendation strings a single
// insights build returns.
const maxRecommendations = 3

// Statistics summarizes a goal's activity history for display and for
// insight generation.
type Statistics struct {
	TotalActivities    int        `json:"total_activities"`
	AverageValue       float64    `json:"average_value"`
	FirstActivity      *time.Time `json:"first_activity,omitempty"`
	LastActivity       *time.Time `json:"last_activity,omitempty"`
	BestDayOfWeek      string     `json:"best_day_of_week,omitempty"`
	BestTimeOfDay      string     `json:"best_time_of_day,omitempty"`
	ConsistencyPercent float64    `json:"consistency_percent"`
}

// Insights carries the human-facing output of the insight engine.
type Insights struct {
	BestTimeOfDay   string   `json:"best_time_of_day,omitempty"`
	BestDayOfWeek   string   `json:"best_day_of_week,omitempty"`
	SuccessPatterns []string `json:"success_patterns,omitempty"`
	Recommendations []string `json:"recommendations"`
}

// BestTimeOfDay returns the time-of-day context tag with the highest
// average activity value, or "" when no activity carries the tag.
func BestTimeOfDay(activities []model.Activity) string {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, a := range activities {
		tag := a.Context.TimeOfDay
		if tag == "" {
			continue
		}
		sums[tag] += a.Value
		counts[tag]++
	}
	return highestAverage(sums, counts)
}

// BestDayOfWeek returns the weekday with the highest average activity
// value, keyed by the activity date's weekday name.
func BestDayOfWeek(activities []model.Activity) string {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, a := range activities {
		day := a.ActivityDate.Weekday().String()
		sums[day] += a.Value
		counts[day]++
	}
	return highestAverage(sums, counts)
}

func highestAverage(sums map[string]float64, counts map[string]int) string {
	best := ""
	bestAvg := 0.0
	for key, sum := range sums {
		avg := sum / float64(counts[key])
		if best == "" || avg > bestAvg {
			best = key
			bestAvg = avg
		}
	}
	return best
}

// Consistency is the ratio of distinct days with any activity to the
// days the goal's schedule expects, over the trailing window, as a
// percentage capped at 100.
func Consistency(goal model.Goal, activities []model.Activity, now time.Time) float64 {
	windowStart := dateOnlyUTC(now).AddDate(0, 0, -(consistencyWindowDays - 1))

	days := make(map[time.Time]struct{})
	for _, a := range activities {
		d := dateOnlyUTC(a.ActivityDate)
		if d.Before(windowStart) || d.After(dateOnlyUTC(now)) {
			continue
		}
		days[d] = struct{}{}
	}

	expected := expectedActiveDays(goal, consistencyWindowDays)
	if expected <= 0 {
		return 0
	}
	pct := float64(len(days)) / expected * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

func expectedActiveDays(goal model.Goal, windowDays int) float64 {
	switch goal.Schedule.Frequency {
	case "daily":
		return float64(windowDays)
	case "weekly":
		return float64(windowDays) / 7
	case "monthly":
		return float64(windowDays) / 30
	}
	switch goal.Pattern {
	case model.PatternRecurring, model.PatternStreak, model.PatternLimit:
		return float64(windowDays)
	default:
		return float64(windowDays) / 7
	}
}

// BuildStatistics derives display statistics from a goal's activity
// history.
func BuildStatistics(goal model.Goal, activities []model.Activity, now time.Time) Statistics {
	stats := Statistics{
		TotalActivities:    len(activities),
		BestDayOfWeek:      BestDayOfWeek(activities),
		BestTimeOfDay:      BestTimeOfDay(activities),
		ConsistencyPercent: Consistency(goal, activities, now),
	}
	acts := progressActivities(activities)
	if len(acts) == 0 {
		return stats
	}
	sum := 0.0
	for _, a := range acts {
		sum += a.Value
	}
	stats.AverageValue = sum / float64(len(acts))
	first := acts[0].ActivityDate
	last := acts[len(acts)-1].ActivityDate
	stats.FirstActivity = &first
	stats.LastActivity = &last
	return stats
}

// BuildInsights turns a goal, its computed progress, and its statistics
// into user-facing insights. Recommendation rules are evaluated in a
// fixed order (consistency, progress percent, pattern-specific, average
// value) and the first three that fire survive.
func BuildInsights(goal model.Goal, activities []model.Activity, progress Progress, stats Statistics) Insights {
	out := Insights{
		BestTimeOfDay: stats.BestTimeOfDay,
		BestDayOfWeek: stats.BestDayOfWeek,
	}

	if stats.BestTimeOfDay != "" {
		out.SuccessPatterns = append(out.SuccessPatterns, fmt.Sprintf("You log your best results in the %s", stats.BestTimeOfDay))
	}
	if stats.BestDayOfWeek != "" {
		out.SuccessPatterns = append(out.SuccessPatterns, fmt.Sprintf("%s is your strongest day", stats.BestDayOfWeek))
	}

	recs := make([]string, 0, maxRecommendations)
	if stats.ConsistencyPercent < 50 {
		recs = append(recs, "Your consistency is low. Try logging at the same time each day to build the habit")
	}
	if progress.PercentComplete < 25 && len(activities) > 10 {
		recs = append(recs, "Progress is slow. Consider breaking this goal into smaller milestones")
	} else if progress.PercentComplete > 75 {
		recs = append(recs, "You are almost there. Keep up the current pace")
	}
	switch goal.Pattern {
	case model.PatternStreak:
		if progress.CurrentStreak != nil && *progress.CurrentStreak == 0 {
			recs = append(recs, "Your streak is broken. Start a new one today")
		}
	case model.PatternLimit:
		if progress.DaysOverLimit != nil && *progress.DaysOverLimit > 5 {
			recs = append(recs, "You exceed this limit often. Consider adjusting the target to something sustainable")
		}
	}
	if goal.Target.Value > 0 && stats.AverageValue > 0 && stats.AverageValue < goal.Target.Value*0.5 {
		recs = append(recs, "Your average is well below the target. Consider adjusting the goal value")
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	out.Recommendations = recs
	return out
}
