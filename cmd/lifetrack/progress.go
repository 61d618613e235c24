package lifetrack

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/john-matlock-eng/lifetrack/internal/service"
)

var (
	progressJSON   bool
	progressAsOf   string
	progressNoHist bool
)

var progressCmd = &cobra.Command{
	Use:   "progress <goal-id>",
	Short: "Calculate a goal's progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		now, err := resolveAsOf(progressAsOf)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.GoalProgress(sqldb, args[0], now)
			if err != nil {
				return err
			}
			if progressJSON {
				b, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal progress json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			printProgress(cmd, report)
			return nil
		})
	},
}

func resolveAsOf(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q (expected YYYY-MM-DD)", value)
	}
	return t, nil
}

func printProgress(cmd *cobra.Command, report *service.ProgressReport) {
	out := cmd.OutOrStdout()
	p := report.Progress

	fmt.Fprintf(out, "%s (%s)\n", report.Title, report.Pattern)
	fmt.Fprintf(out, "Complete: %.1f%%\tSuccess rate: %.1f%%\tTrend: %s\n", p.PercentComplete, p.SuccessRate, p.Trend)

	if p.CurrentPeriodValue != nil {
		fmt.Fprintf(out, "Current period: %.1f\n", *p.CurrentPeriodValue)
	}
	if p.TotalAccumulated != nil {
		fmt.Fprintf(out, "Accumulated: %.1f\tRemaining: %.1f\n", *p.TotalAccumulated, *p.RemainingToGoal)
	}
	if p.CurrentStreak != nil {
		fmt.Fprintf(out, "Streak: %d current / %d longest / %d target\n", *p.CurrentStreak, *p.LongestStreak, *p.TargetStreak)
	}
	if p.AverageValue != nil {
		fmt.Fprintf(out, "Average per period: %.1f\tPeriods over limit: %d\n", *p.AverageValue, *p.DaysOverLimit)
	}
	if p.CurrentValue != nil {
		fmt.Fprintf(out, "Current value: %.1f\n", *p.CurrentValue)
	}
	if p.ProjectedCompletion != nil {
		fmt.Fprintf(out, "Projected completion: %s\n", p.ProjectedCompletion.Format("2006-01-02"))
	}

	if !progressNoHist && len(p.PeriodHistory) > 0 {
		fmt.Fprintln(out, "PERIOD\tVALUE\tACHIEVED")
		for _, e := range p.PeriodHistory {
			achieved := "no"
			if e.Achieved {
				achieved = "yes"
			}
			fmt.Fprintf(out, "%s\t%.1f\t%s\n", e.PeriodKey, e.Value, achieved)
		}
	}
}

func init() {
	rootCmd.AddCommand(progressCmd)

	progressCmd.Flags().BoolVar(&progressJSON, "json", false, "Output JSON")
	progressCmd.Flags().StringVar(&progressAsOf, "as-of", "", "Calculate as of date YYYY-MM-DD (default now)")
	progressCmd.Flags().BoolVar(&progressNoHist, "no-history", false, "Hide period history table")
}
