package service_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/john-matlock-eng/lifetrack/internal/model"
	"github.com/john-matlock-eng/lifetrack/internal/service"
)

func progressAct(date string, value float64) model.Activity {
	t, err := time.Parse("2006-01-02 15:04", date)
	if err != nil {
		t2, err2 := time.Parse("2006-01-02", date)
		if err2 != nil {
			panic(err)
		}
		t = t2.Add(12 * time.Hour)
	}
	return model.Activity{
		Value:        value,
		Type:         model.ActivityProgress,
		ActivityDate: t.UTC(),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateRecurringDailyBuckets(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternRecurring,
		Target:  model.GoalTarget{Value: 8, Unit: "glasses", Period: model.PeriodDay},
	}
	activities := make([]model.Activity, 0, 14)
	for i := 0; i < 8; i++ {
		activities = append(activities, progressAct("2024-01-20", 1))
	}
	for i := 0; i < 6; i++ {
		activities = append(activities, progressAct("2024-01-21", 1))
	}
	now := time.Date(2024, 1, 20, 20, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)

	if progress.CurrentPeriodValue == nil || *progress.CurrentPeriodValue != 8 {
		t.Fatalf("current period value = %v, want 8", progress.CurrentPeriodValue)
	}
	if len(progress.PeriodHistory) != 2 {
		t.Fatalf("period history length = %d, want 2", len(progress.PeriodHistory))
	}
	byKey := map[string]service.PeriodEntry{}
	for _, e := range progress.PeriodHistory {
		byKey[e.PeriodKey] = e
	}
	if e := byKey["2024-01-20"]; !e.Achieved || e.Value != 8 {
		t.Errorf("2024-01-20 bucket = %+v, want achieved with value 8", e)
	}
	if e := byKey["2024-01-21"]; e.Achieved || e.Value != 6 {
		t.Errorf("2024-01-21 bucket = %+v, want not achieved with value 6", e)
	}
	if !almostEqual(progress.SuccessRate, 50) {
		t.Errorf("success rate = %f, want 50", progress.SuccessRate)
	}
	if !almostEqual(progress.PercentComplete, progress.SuccessRate) {
		t.Errorf("percent complete %f should equal success rate %f", progress.PercentComplete, progress.SuccessRate)
	}
}

func TestCalculateRecurringTrendOverBuckets(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternRecurring,
		Target:  model.GoalTarget{Value: 100, Unit: "pages", Period: model.PeriodDay},
	}
	activities := []model.Activity{
		progressAct("2024-03-01", 10),
		progressAct("2024-03-02", 20),
		progressAct("2024-03-03", 30),
		progressAct("2024-03-04", 40),
		progressAct("2024-03-05", 50),
	}
	now := time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)
	if progress.Trend != service.TrendImproving {
		t.Fatalf("trend = %s, want improving", progress.Trend)
	}
}

func TestCalculateMilestoneAccumulation(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternMilestone,
		Target:  model.GoalTarget{Value: 80000, Unit: "words", TargetDate: datePtr("2024-12-31")},
	}
	activities := []model.Activity{
		progressAct("2024-01-01", 1500),
		progressAct("2024-01-02", 800),
		progressAct("2024-01-03", 2200),
	}
	now := time.Date(2024, 1, 3, 20, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)

	if progress.TotalAccumulated == nil || *progress.TotalAccumulated != 4500 {
		t.Fatalf("total accumulated = %v, want 4500", progress.TotalAccumulated)
	}
	if progress.RemainingToGoal == nil || *progress.RemainingToGoal != 75500 {
		t.Fatalf("remaining = %v, want 75500", progress.RemainingToGoal)
	}
	if !almostEqual(progress.PercentComplete, 5.625) {
		t.Fatalf("percent complete = %f, want 5.625", progress.PercentComplete)
	}
	if progress.ProjectedCompletion == nil {
		t.Fatal("expected a projected completion date")
	}
	if !progress.ProjectedCompletion.After(now) {
		t.Fatalf("projected completion %v not after now %v", progress.ProjectedCompletion, now)
	}
}

func TestCalculateMilestoneCapsAtHundred(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternMilestone,
		Target:  model.GoalTarget{Value: 100, Unit: "km", TargetDate: datePtr("2024-12-31")},
	}
	activities := []model.Activity{
		progressAct("2024-01-01", 90),
		progressAct("2024-01-02", 40),
	}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)
	if progress.PercentComplete != 100 {
		t.Fatalf("percent complete = %f, want 100", progress.PercentComplete)
	}
	if *progress.RemainingToGoal != 0 {
		t.Fatalf("remaining = %f, want 0", *progress.RemainingToGoal)
	}
}

func TestCalculateMilestoneNoProjectionWithSingleActivity(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternMilestone,
		Target:  model.GoalTarget{Value: 100, Unit: "km", TargetDate: datePtr("2024-12-31")},
	}
	activities := []model.Activity{progressAct("2024-01-01", 10)}
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)
	if progress.ProjectedCompletion != nil {
		t.Fatalf("unexpected projection %v from a single data point", progress.ProjectedCompletion)
	}
}

func TestCalculateTargetProgress(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternTarget,
		Target: model.GoalTarget{
			Value:      75,
			Unit:       "kg",
			Direction:  model.DirectionDecrease,
			TargetDate: datePtr("2024-12-31"),
			StartValue: floatPtr(85),
		},
	}
	activities := []model.Activity{
		progressAct("2024-01-01 00:00", 83),
		progressAct("2024-01-03 00:00", 81),
	}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)

	if progress.CurrentValue == nil || *progress.CurrentValue != 81 {
		t.Fatalf("current value = %v, want 81", progress.CurrentValue)
	}
	if !almostEqual(progress.PercentComplete, 40) {
		t.Fatalf("percent complete = %f, want 40", progress.PercentComplete)
	}
	if progress.ProjectedCompletion == nil {
		t.Fatal("expected a projected completion date")
	}
	// Losing 4kg over 4 days leaves 6kg at 1kg/day.
	want := now.AddDate(0, 0, 6)
	if !progress.ProjectedCompletion.Equal(want) {
		t.Fatalf("projected completion = %v, want %v", progress.ProjectedCompletion, want)
	}
}

func TestCalculateTargetNoActivitiesFallsBackToStart(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternTarget,
		Target: model.GoalTarget{
			Value:      75,
			Unit:       "kg",
			TargetDate: datePtr("2024-12-31"),
			StartValue: floatPtr(85),
		},
	}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, nil, now)
	if progress.CurrentValue == nil || *progress.CurrentValue != 85 {
		t.Fatalf("current value = %v, want start value 85", progress.CurrentValue)
	}
	if progress.PercentComplete != 0 {
		t.Fatalf("percent complete = %f, want 0", progress.PercentComplete)
	}
}

func TestCalculateTargetEqualStartAndTarget(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternTarget,
		Target: model.GoalTarget{
			Value:      70,
			Unit:       "kg",
			Direction:  model.DirectionMaintain,
			TargetDate: datePtr("2024-12-31"),
			StartValue: floatPtr(70),
		},
	}
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	at := service.CalculateProgress(goal, []model.Activity{progressAct("2024-01-10", 70)}, now)
	if at.PercentComplete != 100 {
		t.Fatalf("percent at target = %f, want 100", at.PercentComplete)
	}
	off := service.CalculateProgress(goal, []model.Activity{progressAct("2024-01-10", 71)}, now)
	if off.PercentComplete != 0 {
		t.Fatalf("percent off target = %f, want 0", off.PercentComplete)
	}
}

func TestCalculateStreakConsecutiveDays(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternStreak,
		Target:  model.GoalTarget{Value: 7, Unit: "days", Period: model.PeriodDay},
	}
	activities := make([]model.Activity, 0, 7)
	for day := 20; day <= 26; day++ {
		activities = append(activities, progressAct(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), 1))
	}
	now := time.Date(2024, 1, 26, 22, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)

	if *progress.CurrentStreak != 7 {
		t.Fatalf("current streak = %d, want 7", *progress.CurrentStreak)
	}
	if *progress.LongestStreak != 7 {
		t.Fatalf("longest streak = %d, want 7", *progress.LongestStreak)
	}
	if *progress.TargetStreak != 7 {
		t.Fatalf("target streak = %d, want 7", *progress.TargetStreak)
	}
	if progress.PercentComplete != 100 {
		t.Fatalf("percent complete = %f, want 100", progress.PercentComplete)
	}
	if progress.Trend != service.TrendImproving {
		t.Fatalf("trend = %s, want improving", progress.Trend)
	}
}

func TestCalculateStreakGapResetsCurrent(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternStreak,
		Target:  model.GoalTarget{Value: 7, Unit: "days", Period: model.PeriodDay},
	}
	activities := make([]model.Activity, 0, 8)
	for day := 20; day <= 26; day++ {
		activities = append(activities, progressAct(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), 1))
	}
	// Skip the 27th, log again on the 28th.
	activities = append(activities, progressAct("2024-01-28", 1))
	now := time.Date(2024, 1, 28, 22, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)

	if *progress.CurrentStreak != 1 {
		t.Fatalf("current streak = %d, want 1", *progress.CurrentStreak)
	}
	if *progress.LongestStreak != 7 {
		t.Fatalf("longest streak = %d, want 7", *progress.LongestStreak)
	}
}

func TestCalculateStreakStaleBreaks(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternStreak,
		Target:  model.GoalTarget{Value: 7, Unit: "days", Period: model.PeriodDay},
	}
	activities := []model.Activity{
		progressAct("2024-01-20", 1),
		progressAct("2024-01-21", 1),
		progressAct("2024-01-22", 1),
	}
	// Three days of silence since the last activity.
	now := time.Date(2024, 1, 25, 9, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)

	if *progress.CurrentStreak != 0 {
		t.Fatalf("current streak = %d, want 0", *progress.CurrentStreak)
	}
	if *progress.LongestStreak != 3 {
		t.Fatalf("longest streak = %d, want 3", *progress.LongestStreak)
	}
	if progress.Trend != service.TrendDeclining {
		t.Fatalf("trend = %s, want declining", progress.Trend)
	}
}

func TestCalculateStreakSameDayActivitiesCountOnce(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternStreak,
		Target:  model.GoalTarget{Value: 7, Unit: "days", Period: model.PeriodDay},
	}
	activities := []model.Activity{
		progressAct("2024-01-20 08:00", 1),
		progressAct("2024-01-20 21:00", 1),
		progressAct("2024-01-21 08:00", 1),
	}
	now := time.Date(2024, 1, 21, 22, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)
	if *progress.CurrentStreak != 2 {
		t.Fatalf("current streak = %d, want 2", *progress.CurrentStreak)
	}
}

func TestCalculateLimitDailyUsage(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternLimit,
		Target:  model.GoalTarget{Value: 30, Unit: "minutes", Period: model.PeriodDay},
	}
	usage := []float64{45, 35, 25, 20, 40, 15}
	activities := make([]model.Activity, 0, len(usage))
	for i, v := range usage {
		activities = append(activities, progressAct(time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), v))
	}
	now := time.Date(2024, 1, 6, 23, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)

	if progress.DaysOverLimit == nil || *progress.DaysOverLimit != 3 {
		t.Fatalf("days over limit = %v, want 3", progress.DaysOverLimit)
	}
	if progress.AverageValue == nil || !almostEqual(*progress.AverageValue, 30) {
		t.Fatalf("average value = %v, want 30", progress.AverageValue)
	}
	if !almostEqual(progress.SuccessRate, 50) {
		t.Fatalf("success rate = %f, want 50", progress.SuccessRate)
	}
	if !almostEqual(progress.PercentComplete, 50) {
		t.Fatalf("percent complete = %f, want 50", progress.PercentComplete)
	}
}

// Recurring with no data reports 0% success while limit reports a
// vacuous 100%: no buckets means the limit was never exceeded.
func TestCalculateEmptyBucketAsymmetry(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	recurring := model.Goal{
		Pattern: model.PatternRecurring,
		Target:  model.GoalTarget{Value: 8, Unit: "glasses", Period: model.PeriodDay},
	}
	if got := service.CalculateProgress(recurring, nil, now).SuccessRate; got != 0 {
		t.Errorf("recurring empty success rate = %f, want 0", got)
	}

	limit := model.Goal{
		Pattern: model.PatternLimit,
		Target:  model.GoalTarget{Value: 30, Unit: "minutes", Period: model.PeriodDay},
	}
	if got := service.CalculateProgress(limit, nil, now).SuccessRate; got != 100 {
		t.Errorf("limit empty success rate = %f, want 100", got)
	}
}

func TestCalculateProgressEmptyActivities(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	goals := []model.Goal{
		{Pattern: model.PatternRecurring, Target: model.GoalTarget{Value: 8, Unit: "glasses", Period: model.PeriodDay}},
		{Pattern: model.PatternMilestone, Target: model.GoalTarget{Value: 80000, Unit: "words", TargetDate: datePtr("2024-12-31")}},
		{Pattern: model.PatternTarget, Target: model.GoalTarget{Value: 75, Unit: "kg", TargetDate: datePtr("2024-12-31"), StartValue: floatPtr(85)}},
		{Pattern: model.PatternStreak, Target: model.GoalTarget{Value: 7, Unit: "days", Period: model.PeriodDay}},
		{Pattern: model.PatternLimit, Target: model.GoalTarget{Value: 30, Unit: "minutes", Period: model.PeriodDay}},
	}
	for _, goal := range goals {
		progress := service.CalculateProgress(goal, nil, now)
		if progress.PercentComplete != 0 {
			t.Errorf("pattern %s: percent complete = %f, want 0", goal.Pattern, progress.PercentComplete)
		}
		if goal.Pattern == model.PatternStreak {
			if *progress.CurrentStreak != 0 || *progress.LongestStreak != 0 || *progress.TargetStreak != 7 {
				t.Errorf("streak zero values = %d/%d/%d, want 0/0/7",
					*progress.CurrentStreak, *progress.LongestStreak, *progress.TargetStreak)
			}
		}
	}
}

func TestCalculateProgressBoundsPercent(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	overshoot := model.Goal{
		Pattern: model.PatternStreak,
		Target:  model.GoalTarget{Value: 3, Unit: "days", Period: model.PeriodDay},
	}
	activities := make([]model.Activity, 0, 10)
	for day := 21; day <= 29; day++ {
		activities = append(activities, progressAct(time.Date(2024, 2, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), 1))
	}
	activities = append(activities, progressAct("2024-03-01", 1))

	progress := service.CalculateProgress(overshoot, activities, now)
	if progress.PercentComplete < 0 || progress.PercentComplete > 100 {
		t.Fatalf("percent complete out of bounds: %f", progress.PercentComplete)
	}
	if progress.PercentComplete != 100 {
		t.Fatalf("percent complete = %f, want capped 100", progress.PercentComplete)
	}
}

func TestCalculateProgressUnknownPatternPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unknown pattern")
		}
		if !strings.Contains(r.(string), "unknown goal pattern") {
			t.Fatalf("unexpected panic message: %v", r)
		}
	}()
	goal := model.Goal{Pattern: "spiral", Target: model.GoalTarget{Value: 1, Unit: "x"}}
	service.CalculateProgress(goal, nil, time.Now())
}

// Non-progress activity types are excluded from calculation.
func TestCalculateProgressIgnoresNonProgressTypes(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternMilestone,
		Target:  model.GoalTarget{Value: 1000, Unit: "words", TargetDate: datePtr("2024-12-31")},
	}
	skipped := progressAct("2024-01-02", 500)
	skipped.Type = model.ActivitySkipped
	activities := []model.Activity{
		progressAct("2024-01-01", 100),
		skipped,
	}
	now := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)
	if *progress.TotalAccumulated != 100 {
		t.Fatalf("total accumulated = %f, want 100 (skipped activity excluded)", *progress.TotalAccumulated)
	}
}

// The calculator must not assume pre-sorted input.
func TestCalculateProgressSortsInternally(t *testing.T) {
	t.Parallel()
	goal := model.Goal{
		Pattern: model.PatternTarget,
		Target: model.GoalTarget{
			Value:      75,
			Unit:       "kg",
			TargetDate: datePtr("2024-12-31"),
			StartValue: floatPtr(85),
		},
	}
	activities := []model.Activity{
		progressAct("2024-01-03", 81),
		progressAct("2024-01-01", 83),
	}
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	progress := service.CalculateProgress(goal, activities, now)
	if *progress.CurrentValue != 81 {
		t.Fatalf("current value = %f, want 81 (latest by activity date)", *progress.CurrentValue)
	}
}
