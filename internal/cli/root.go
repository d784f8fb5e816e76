package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/worktrace/internal/config"
	"github.com/terraincognita07/worktrace/internal/db"
	"gorm.io/gorm"
)

var (
	Version = "dev"
)

// NewRootCmd assembles the worktrace command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "worktrace",
		Version:       Version,
		Short:         "Time tracking and client billing server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("db", "", "SQLite database path (overrides DB_PATH)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newCreateAdminCmd(),
		newResetPasswordCmd(),
		newSeedCmd(),
		newRefreshMetricsCmd(),
	)
	return root
}

func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "worktrace: %v\n", err)
		return err
	}
	return nil
}

func databasePath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("db"); strings.TrimSpace(path) != "" {
		return strings.TrimSpace(path)
	}
	return config.LoadDatabasePath()
}

func openDatabase(cmd *cobra.Command) (*gorm.DB, error) {
	path := databasePath(cmd)
	database, err := db.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	return database, nil
}
