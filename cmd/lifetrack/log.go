package lifetrack

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/john-matlock-eng/lifetrack/internal/model"
	"github.com/john-matlock-eng/lifetrack/internal/service"
)

var (
	logValue     float64
	logUnit      string
	logType      string
	logDate      string
	logNote      string
	logTimeOfDay string
	logEnergy    int
	logMood      string
	logLocation  string
)

var logCmd = &cobra.Command{
	Use:   "log <goal-id>",
	Short: "Log an activity against a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		activityDate, err := parseDateOrNow(logDate)
		if err != nil {
			return err
		}
		in := service.LogActivityInput{
			GoalID:       args[0],
			Value:        logValue,
			Unit:         logUnit,
			Type:         model.ActivityType(logType),
			ActivityDate: activityDate,
			Note:         logNote,
			TimeOfDay:    logTimeOfDay,
			Energy:       logEnergy,
			Mood:         logMood,
			Location:     logLocation,
		}
		return withDB(func(sqldb *sql.DB) error {
			activity, err := service.LogActivity(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %.1f %s on %s\n",
				activity.Value, activity.Unit, activity.ActivityDate.Format("2006-01-02"))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().Float64Var(&logValue, "value", 0, "Activity value")
	logCmd.Flags().StringVar(&logUnit, "unit", "", "Activity unit (defaults to the goal's unit)")
	logCmd.Flags().StringVar(&logType, "type", "", "Activity type: progress, completed, skipped, partial (default progress)")
	logCmd.Flags().StringVar(&logDate, "date", "", "Activity date YYYY-MM-DD (default today)")
	logCmd.Flags().StringVar(&logNote, "note", "", "Free-form note")
	logCmd.Flags().StringVar(&logTimeOfDay, "time-of-day", "", "Context: morning, afternoon, evening, night")
	logCmd.Flags().IntVar(&logEnergy, "energy", 0, "Context: energy level 1-10")
	logCmd.Flags().StringVar(&logMood, "mood", "", "Context: mood")
	logCmd.Flags().StringVar(&logLocation, "location", "", "Context: location")
	_ = logCmd.MarkFlagRequired("value")
}
