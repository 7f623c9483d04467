package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cqbot/internal/config"
	"github.com/aatumaykin/cqbot/internal/constants"
	"github.com/aatumaykin/cqbot/internal/logger"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Validate cqbot configuration.`,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file and check for errors.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger.NewWithWriter(cmd.OutOrStdout(), "info", "text")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		configPath := constants.DefaultConfigPath
		if len(args) > 0 {
			configPath = args[0]
		}

		log.Info("validating configuration", logger.Field{Key: "path", Value: configPath})
		return validateConfig(configPath, log)
	},
}

func validateConfig(path string, log *logger.Logger) error {
	cfg, err := config.Load(path)
	if err != nil {
		log.Error("failed to load config", err)
		return err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			log.Error("validation error", e)
		}
		return fmt.Errorf("configuration has %d errors", len(errs))
	}

	log.Info("configuration is valid",
		logger.Field{Key: "address", Value: cfg.Transport.Address},
		logger.Field{Key: "access_token", Value: cfg.MaskedAccessToken()},
		logger.Field{Key: "broadcast", Value: cfg.Broadcast.IsEnabled()})
	return nil
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
