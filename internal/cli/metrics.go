package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/worktrace/internal/db"
	"github.com/terraincognita07/worktrace/internal/services"
)

func newRefreshMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-metrics",
		Short: "Recompute logged-time rollups for every project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer db.Close(database)

			refreshed, err := services.RefreshAllProjectMetrics(db.NewProjectRepository(database))
			if err != nil {
				return fmt.Errorf("refresh project metrics: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Refreshed metrics for %d projects.\n", refreshed)
			return nil
		},
	}
}
