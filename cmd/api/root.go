package main

import (
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"pricelist/pkg/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "pricelist",
	Short:         "Vehicle pricelist catalog API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file")
}

// bootstrap loads configuration and builds the logger shared by every command.
func bootstrap() (*config.AppConfig, *otelzap.Logger, error) {
	cfg, err := config.Load(configFile)

	if err != nil {
		return nil, nil, err
	}

	logger, err := config.NewLogger(cfg.Log, cfg.Telemetry.ServiceName)

	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}
