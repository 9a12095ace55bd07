package cmd

import (
	"log/slog"

	"portfolio-app/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openCatalog(); err != nil {
			return err
		}
		if err := database.Migrate(database.DB); err != nil {
			return err
		}
		slog.Info("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
