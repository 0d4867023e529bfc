package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/noteful/internal/auth/app"
	"github.com/aussiebroadwan/noteful/pkg/slogx"
)

// NewRootCmd creates the root command. Without a subcommand it serves.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Noteful authentication service",
		Long: `Issues and refreshes signed auth tokens for Noteful users.

Configuration comes from environment variables, an optional YAML file
given with --config, and command line flags, in increasing precedence.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	app.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewHashPasswordCmd())
	cmd.AddCommand(NewUserAddCmd())

	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig(cmd.Flags())
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	application, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return oops.Code("STARTUP_FAILED").Wrap(err)
	}
	return application.Run()
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(cmd.Flags())
			if err != nil {
				return oops.Code("CONFIG_INVALID").Wrap(err)
			}

			db, err := app.OpenStore(cmd.Context(), cfg, cliLogger(cfg))
			if err != nil {
				return oops.Code("MIGRATION_FAILED").With("driver", cfg.Database.Driver).Wrap(err)
			}
			defer db.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
			return nil
		},
	}
}

// cliLogger writes human readable logs for one-shot commands.
func cliLogger(cfg app.Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "noteful-auth",
		Version: app.BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.Log.Level,
		Format:  "text",
		Output:  os.Stderr,
	})
}
