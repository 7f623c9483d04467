package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cqbot/internal/app"
	"github.com/aatumaykin/cqbot/internal/config"
	"github.com/aatumaykin/cqbot/internal/constants"
	"github.com/aatumaykin/cqbot/internal/logger"
	"github.com/aatumaykin/cqbot/internal/version"
)

var (
	serveConfigPath string
	serveEnvPath    string
	serveLogLevel   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to the gateway and start answering messages",
	Long: `Connect to the OneBot websocket gateway and serve until interrupted.

A missing configuration file is not an error: built-in defaults apply.
The process exits with a non-zero status if the connection cannot be
established or is lost.`,
	Run: serveHandler,
}

func serveHandler(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cqbot: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// serve loads configuration, builds the logger and runs the bot until ctx
// is cancelled or the connection ends.
func serve(ctx context.Context) error {
	if err := config.LoadEnvOptional(serveEnvPath); err != nil {
		return fmt.Errorf("failed to load %s: %w", serveEnvPath, err)
	}

	cfg, found, err := config.LoadOptional(serveConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if serveLogLevel != "" {
		cfg.Logging.Level = serveLogLevel
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %v\n", e)
		}
		return fmt.Errorf("configuration validation failed with %d errors", len(errs))
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()
	logger.SetDefault(log)

	log.Info("starting cqbot",
		logger.Field{Key: "version", Value: version.Version},
		logger.Field{Key: "git_commit", Value: version.GitCommit},
		logger.Field{Key: "config", Value: serveConfigPath},
		logger.Field{Key: "config_found", Value: found},
		logger.Field{Key: "address", Value: cfg.Transport.Address},
		logger.Field{Key: "access_token", Value: cfg.MaskedAccessToken()},
		logger.Field{Key: "max_workers", Value: cfg.Dispatch.MaxWorkers},
		logger.Field{Key: "broadcast", Value: cfg.Broadcast.IsEnabled()},
		logger.Field{Key: "metrics", Value: cfg.Metrics.Enabled})

	if err := app.New(cfg, log).Run(ctx); err != nil {
		log.Error("cqbot stopped", err)
		return err
	}

	log.Info("cqbot stopped")
	return nil
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", constants.DefaultConfigPath, "path to config file")
	serveCmd.Flags().StringVar(&serveEnvPath, "env", constants.DefaultEnvPath, "path to .env file")
	serveCmd.Flags().StringVarP(&serveLogLevel, "log-level", "l", "", "override logging.level (debug, info, warn, error)")
}
