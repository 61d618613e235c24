package lifetrack

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/john-matlock-eng/lifetrack/internal/service"
)

var exportOutPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export goals and activities as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if exportOutPath == "" {
				return service.ExportData(sqldb, cmd.OutOrStdout())
			}
			f, err := os.Create(exportOutPath)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()
			if err := service.ExportData(sqldb, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported data to %s\n", exportOutPath)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOutPath, "out", "", "Write export to file instead of stdout")
}
