package main

import (
	"github.com/spf13/cobra"

	api "pricelist/internal/adapter/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()

		if err != nil {
			return err
		}

		defer logger.Sync()

		return api.StartServer(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
