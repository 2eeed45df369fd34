package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_desk/internal/models"
	"github.com/SscSPs/ledger_desk/internal/platform/config"
	"github.com/SscSPs/ledger_desk/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_desk/internal/utils"
	"github.com/spf13/cobra"
)

func newUsersCmd(app *cli) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage local users of the pgsql backend",
	}

	var name, email, password string
	var roles, permissions []string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user that can sign in against the pgsql backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.StorageBackend != config.StoragePgSQL {
				return fmt.Errorf("local users need STORAGE_BACKEND=%s", config.StoragePgSQL)
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			hash, err := utils.HashPassword(password, app.cfg.PasswordHashCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			ctx := cmd.Context()
			be, err := app.openBackend(ctx, true)
			if err != nil {
				return err
			}
			defer be.Close()

			user, err := pgsql.NewPgxUserRepository(be.pool).CreateUser(ctx, models.User{
				Name:         name,
				Email:        strings.TrimSpace(email),
				PasswordHash: hash,
				Permissions:  permissions,
				AuditFields:  models.AuditFields{CreatedBy: "cli", LastUpdatedBy: "cli"},
			}, roles)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			app.logger.Info("User created", slog.String("user_id", user.UserID.String()), slog.Any("roles", user.RoleNames()))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), user.UserID)
			return err
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "display name")
	addCmd.Flags().StringVar(&email, "email", "", "sign-in email")
	addCmd.Flags().StringVar(&password, "password", "", "sign-in password")
	addCmd.Flags().StringSliceVar(&roles, "role", nil, "role name, repeatable")
	addCmd.Flags().StringSliceVar(&permissions, "permission", nil, "direct permission, repeatable")

	usersCmd.AddCommand(addCmd)
	return usersCmd
}
