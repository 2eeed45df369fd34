package main

import (
	"fmt"

	"github.com/SscSPs/ledger_desk/internal/platform/config"
	"github.com/SscSPs/ledger_desk/internal/repositories/database/pgsql"
	"github.com/spf13/cobra"
)

func newMigrateCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the PostgreSQL schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(pgsql.MigrateUp), string(pgsql.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.StorageBackend != config.StoragePgSQL {
				return fmt.Errorf("migrations need STORAGE_BACKEND=%s", config.StoragePgSQL)
			}
			return pgsql.RunMigrations(app.cfg.DatabaseURL, pgsql.MigrateDirection(args[0]), app.logger)
		},
	}
}
