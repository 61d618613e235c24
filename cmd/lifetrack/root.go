package lifetrack

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "lifetrack",
	Short: "lifetrack tracks goals, habits, and progress from your terminal",
	Long:  "lifetrack is a local-first goal tracking CLI with recurring, milestone, target, streak, and limit goals, plus progress analytics and insights.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
}
