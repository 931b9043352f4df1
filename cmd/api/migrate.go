package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pricelist/internal/adapter/database/postgres"
	"pricelist/internal/adapter/database/sqlite"
	api "pricelist/internal/adapter/http"
	"pricelist/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(cmd, true)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(cmd, false)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func runMigrations(cmd *cobra.Command, up bool) error {
	cfg, logger, err := bootstrap()

	if err != nil {
		return err
	}

	defer logger.Sync()

	path := api.MigrationsPath(cfg.DB)

	if cfg.DB.Driver == config.DriverPostgres {
		if up {
			err = postgres.RunMigrations(cfg.DB.DSN, path)
		} else {
			err = postgres.RollbackMigrations(cfg.DB.DSN, path)
		}
	} else {
		db, openErr := api.OpenDatabase(cmd.Context(), cfg.DB, false)

		if openErr != nil {
			return openErr
		}

		defer db.Close()

		if up {
			err = sqlite.RunMigrations(db.DB, path)
		} else {
			err = sqlite.RollbackMigrations(db.DB, path)
		}
	}

	if err != nil {
		return err
	}

	logger.Info("migrations applied", zap.Bool("up", up), zap.String("driver", cfg.DB.Driver))

	return nil
}
