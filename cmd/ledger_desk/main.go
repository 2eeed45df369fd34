package main

import (
	"log/slog"
	"os"

	"github.com/SscSPs/ledger_desk/internal/platform/config"
	"github.com/spf13/cobra"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := newRootCmd(logger).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries what every subcommand needs once the root command has run.
type cli struct {
	logger *slog.Logger
	cfg    *config.Config
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	app := &cli{logger: logger}

	rootCmd := &cobra.Command{
		Use:   "ledger_desk",
		Short: "Role-gated accounting desk over a persistence backend",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				logger.Error("Failed to load config", slog.String("error", err.Error()))
				return err
			}
			app.cfg = cfg
			return nil
		},
	}

	rootCmd.AddCommand(
		newServeCmd(app),
		newMigrateCmd(app),
		newAccountsCmd(app),
		newUsersCmd(app),
	)
	return rootCmd
}
