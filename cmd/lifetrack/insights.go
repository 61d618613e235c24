package lifetrack

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/john-matlock-eng/lifetrack/internal/service"
)

var (
	insightsJSON bool
	insightsAsOf string
)

var insightsCmd = &cobra.Command{
	Use:   "insights <goal-id>",
	Short: "Show statistics and recommendations for a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		now, err := resolveAsOf(insightsAsOf)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.GoalProgress(sqldb, args[0], now)
			if err != nil {
				return err
			}
			if insightsJSON {
				b, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal insights json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			printInsights(cmd, report)
			return nil
		})
	},
}

func printInsights(cmd *cobra.Command, report *service.ProgressReport) {
	out := cmd.OutOrStdout()
	stats := report.Statistics
	insights := report.Insights

	fmt.Fprintf(out, "%s (%s)\n", report.Title, report.Pattern)
	fmt.Fprintf(out, "Activities: %d\tAverage value: %.1f\tConsistency: %.1f%%\n",
		stats.TotalActivities, stats.AverageValue, stats.ConsistencyPercent)
	if insights.BestTimeOfDay != "" {
		fmt.Fprintf(out, "Best time of day: %s\n", insights.BestTimeOfDay)
	}
	if insights.BestDayOfWeek != "" {
		fmt.Fprintf(out, "Best day of week: %s\n", insights.BestDayOfWeek)
	}
	for _, p := range insights.SuccessPatterns {
		fmt.Fprintf(out, "+ %s\n", p)
	}
	for _, r := range insights.Recommendations {
		fmt.Fprintf(out, "> %s\n", r)
	}
}

func init() {
	rootCmd.AddCommand(insightsCmd)

	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "Output JSON")
	insightsCmd.Flags().StringVar(&insightsAsOf, "as-of", "", "Calculate as of date YYYY-MM-DD (default now)")
}
