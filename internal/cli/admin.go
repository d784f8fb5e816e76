package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/worktrace/internal/db"
	"github.com/terraincognita07/worktrace/internal/services"
)

func newCreateAdminCmd() *cobra.Command {
	var (
		email     string
		password  string
		firstName string
		lastName  string
	)
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				prompted, err := promptNewPassword(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				password = prompted
			}

			database, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer db.Close(database)

			auth := services.NewAuthService(db.NewUserRepository(database))
			user, err := auth.CreateAdmin(email, password, firstName, lastName)
			if err != nil {
				return describeServiceError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Administrator %s created.\n", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "administrator email")
	cmd.Flags().StringVar(&password, "password", "", "administrator password (prompted when omitted)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// describeServiceError flattens field errors into one line for the terminal.
func describeServiceError(err error) error {
	var serviceErr *services.Error
	if !errors.As(err, &serviceErr) || len(serviceErr.Fields) == 0 {
		return err
	}
	fields := make([]string, 0, len(serviceErr.Fields))
	for field := range serviceErr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+serviceErr.Fields[field])
	}
	return errors.New(strings.Join(parts, "; "))
}
