package cmd

import (
	"encoding/json"
	"os"
	"time"

	"portfolio-app/internal/logger"
	"portfolio-app/internal/reconcile"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Remove stored images that no project references",
	Long: `reconcile lists every object under projects/ in the configured storage and
removes the ones without a matching image row. Objects newer than --grace are
left alone because their upload may still be in flight.

Examples:
  portfolio reconcile --dry-run          # Report orphans only
  portfolio reconcile --grace 48h        # Remove orphans older than two days`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().Bool("dry-run", false, "report orphans without removing them")
	reconcileCmd.Flags().Duration("grace", 24*time.Hour, "skip objects younger than this")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	grace, _ := cmd.Flags().GetDuration("grace")

	repo, err := openCatalog()
	if err != nil {
		return err
	}
	store, err := openStorage()
	if err != nil {
		return err
	}

	sweeper := reconcile.NewSweeper(store, repo, logger.Component("reconcile"))
	report, err := sweeper.Run(cmd.Context(), reconcile.Options{Grace: grace, DryRun: dryRun})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
