package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/worktrace/internal/db"
	"github.com/terraincognita07/worktrace/internal/services"
)

func newResetPasswordCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Replace a user's password with a temporary one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer db.Close(database)

			auth := services.NewAuthService(db.NewUserRepository(database))
			user, temporaryPassword, err := auth.ResetPassword(email)
			if errors.Is(err, services.ErrUserNotFound) {
				return fmt.Errorf("user %s not found", services.NormalizeEmail(email))
			}
			if err != nil {
				return describeServiceError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Password reset for %s\n", user.Email)
			fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
			fmt.Fprintln(out, "User must change password on next login.")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
