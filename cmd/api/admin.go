package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pricelist/internal/adapter/database/repository"
	api "pricelist/internal/adapter/http"
	"pricelist/internal/core/port"
	"pricelist/internal/core/service"
	"pricelist/internal/core/telemetry"
	"pricelist/pkg/auth"
)

var adminFlags port.Registration

// createAdminCmd is the only way to mint an administrator; the public
// register endpoint always creates standard users.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminFlags.Email == "" || adminFlags.Password == "" {
			return errors.New("--email and --password are required")
		}

		cfg, logger, err := bootstrap()

		if err != nil {
			return err
		}

		defer logger.Sync()

		db, err := api.OpenDatabase(cmd.Context(), cfg.DB, true)

		if err != nil {
			return err
		}

		defer db.Close()

		svc := service.NewAuthService(
			repository.NewUserRepository(db),
			auth.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL),
			telemetry.NewNoOpProbe(),
			logger,
		)

		user, err := svc.RegisterAdmin(cmd.Context(), adminFlags)

		if err != nil {
			return err
		}

		logger.Info("admin created", zap.Int64("id", user.ID), zap.String("email", user.Email))

		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.Name, "name", "Administrator", "display name")
	createAdminCmd.Flags().StringVar(&adminFlags.Email, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminFlags.Password, "password", "", "login password")

	rootCmd.AddCommand(createAdminCmd)
}
