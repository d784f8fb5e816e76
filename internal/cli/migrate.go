package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/worktrace/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := db.Migrate(databasePath(cmd))
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "Database is up to date.")
				return nil
			}
			sort.Strings(applied)
			for _, version := range applied {
				fmt.Fprintf(out, "Applied %s\n", version)
			}
			return nil
		},
	}
}
