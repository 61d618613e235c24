package lifetrack

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/john-matlock-eng/lifetrack/internal/model"
	"github.com/john-matlock-eng/lifetrack/internal/service"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage tracked goals",
}

var (
	goalTitle      string
	goalPattern    string
	goalValue      float64
	goalUnit       string
	goalDirection  string
	goalTargetType string
	goalPeriod     string
	goalTargetDate string
	goalStartValue float64
	goalFrequency  string
	goalSkipDays   int
	goalCatchUp    bool
)

var goalCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.CreateGoalInput{
			Title:         goalTitle,
			Pattern:       model.GoalPattern(goalPattern),
			Value:         goalValue,
			Unit:          goalUnit,
			Direction:     model.TargetDirection(goalDirection),
			TargetType:    model.TargetType(goalTargetType),
			Period:        model.Period(goalPeriod),
			TargetDate:    goalTargetDate,
			Frequency:     goalFrequency,
			AllowSkipDays: goalSkipDays,
			CatchUpOK:     goalCatchUp,
		}
		if cmd.Flags().Changed("start-value") {
			v := goalStartValue
			in.StartValue = &v
		}
		return withDB(func(sqldb *sql.DB) error {
			goal, err := service.CreateGoal(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s goal %q (%s)\n", goal.Pattern, goal.Title, goal.ID)
			return nil
		})
	},
}

var goalListStatus string

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			goals, err := service.ListGoals(sqldb, model.GoalStatus(goalListStatus))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tPATTERN\tSTATUS\tTARGET\tTITLE")
			for _, g := range goals {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.1f %s\t%s\n",
					g.ID, g.Pattern, g.Status, g.Target.Value, g.Target.Unit, g.Title)
			}
			return nil
		})
	},
}

var goalShowCmd = &cobra.Command{
	Use:   "show <goal-id>",
	Short: "Show a goal's configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			goal, err := service.GetGoal(sqldb, args[0])
			if err != nil {
				return err
			}
			if goal == nil {
				return fmt.Errorf("goal %q does not exist", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title: %s\nPattern: %s\nStatus: %s\nTarget: %.1f %s (%s, %s)\n",
				goal.Title, goal.Pattern, goal.Status,
				goal.Target.Value, goal.Target.Unit, goal.Target.Direction, goal.Target.TargetType)
			if goal.Target.Period != "" {
				fmt.Fprintf(out, "Period: %s\n", goal.Target.Period)
			}
			if goal.Target.TargetDate != nil {
				fmt.Fprintf(out, "Target date: %s\n", goal.Target.TargetDate.Format("2006-01-02"))
			}
			if goal.Target.StartValue != nil {
				fmt.Fprintf(out, "Start value: %.1f\n", *goal.Target.StartValue)
			}
			if goal.Target.CurrentValue != nil {
				fmt.Fprintf(out, "Current value: %.1f\n", *goal.Target.CurrentValue)
			}
			if goal.Schedule.Frequency != "" {
				fmt.Fprintf(out, "Check-in frequency: %s\n", goal.Schedule.Frequency)
			}
			return nil
		})
	},
}

var goalStatusCmd = &cobra.Command{
	Use:   "status <goal-id> <status>",
	Short: "Change a goal's status (draft, active, paused, completed, archived)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.UpdateGoalStatus(sqldb, args[0], model.GoalStatus(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Goal %s is now %s\n", args[0], args[1])
			return nil
		})
	},
}

var goalArchiveCmd = &cobra.Command{
	Use:   "archive <goal-id>",
	Short: "Archive a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.UpdateGoalStatus(sqldb, args[0], model.StatusArchived); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived goal %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalCreateCmd, goalListCmd, goalShowCmd, goalStatusCmd, goalArchiveCmd)

	goalCreateCmd.Flags().StringVar(&goalTitle, "title", "", "Goal title")
	goalCreateCmd.Flags().StringVar(&goalPattern, "pattern", "", "Goal pattern: recurring, milestone, target, streak, limit")
	goalCreateCmd.Flags().Float64Var(&goalValue, "value", 0, "Target value")
	goalCreateCmd.Flags().StringVar(&goalUnit, "unit", "", "Target unit (e.g. minutes, words, kg)")
	goalCreateCmd.Flags().StringVar(&goalDirection, "direction", "", "Target direction: increase, decrease, maintain (default increase)")
	goalCreateCmd.Flags().StringVar(&goalTargetType, "target-type", "", "Target type: minimum, maximum, exact, range (default minimum)")
	goalCreateCmd.Flags().StringVar(&goalPeriod, "period", "", "Period for recurring/streak/limit goals: day, week, month, quarter, year")
	goalCreateCmd.Flags().StringVar(&goalTargetDate, "target-date", "", "Target date YYYY-MM-DD for milestone/target goals")
	goalCreateCmd.Flags().Float64Var(&goalStartValue, "start-value", 0, "Starting value for target goals")
	goalCreateCmd.Flags().StringVar(&goalFrequency, "frequency", "", "Check-in frequency: daily, weekly, monthly")
	goalCreateCmd.Flags().IntVar(&goalSkipDays, "allow-skip-days", 0, "Allowed skip days per period")
	goalCreateCmd.Flags().BoolVar(&goalCatchUp, "catch-up", false, "Allow catching up missed check-ins")
	_ = goalCreateCmd.MarkFlagRequired("title")
	_ = goalCreateCmd.MarkFlagRequired("pattern")
	_ = goalCreateCmd.MarkFlagRequired("value")
	_ = goalCreateCmd.MarkFlagRequired("unit")

	goalListCmd.Flags().StringVar(&goalListStatus, "status", "", "Filter by status")
}
