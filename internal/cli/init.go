// Package cli provides common initialization shared by cmd/traveleo,
// cmd/traveleo-worker and cmd/traveleoctl.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"traveleo/internal/amqp"
	"traveleo/internal/config"
	applog "traveleo/internal/log"
	"traveleo/internal/notify"
	"traveleo/internal/sheets"
	"traveleo/internal/sheets/google"
	"traveleo/internal/storage"
)

// SetupLogger builds the process logger at the given level and installs it
// as the slog default.
func SetupLogger(level string, out io.Writer) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = applog.ParseLevel(level)
	if out != nil {
		cfg.Output = out
	}
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func StoreOptions(cfg *config.Config) storage.Options {
	return storage.Options{
		Driver:      cfg.DBDriver,
		SQLitePath:  cfg.SQLiteDBPath,
		DatabaseURL: cfg.DatabaseURL,
	}
}

// OpenStore connects to the configured database and migrates it.
func OpenStore(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*storage.Store, error) {
	store, err := storage.Open(ctx, StoreOptions(cfg))
	if err != nil {
		return nil, err
	}
	logger.WithComponent(applog.ComponentStorage).InfoContext(ctx, "Database ready",
		applog.FieldDriver, cfg.DBDriver)
	return store, nil
}

// BuildMailer returns the mailer for the configured transport.
func BuildMailer(cfg *config.Config, logger *applog.Logger) notify.Mailer {
	if cfg.MailTransport == "smtp" {
		return notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.MailUser, cfg.MailPassword, cfg.MailFrom)
	}
	return notify.NewLogMailer(logger)
}

// ConnectAMQP returns nil without error when no broker is configured.
func ConnectAMQP(cfg *config.Config, logger *applog.Logger) (*amqp.Client, error) {
	if !cfg.AMQPEnabled() {
		return nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to AMQP: %w", err)
	}
	return client, nil
}

// BuildSheetsWriter returns nil without error when no spreadsheet is
// configured.
func BuildSheetsWriter(ctx context.Context, cfg *config.Config) (sheets.ExpenseWriter, error) {
	if !cfg.SheetsEnabled() {
		return nil, nil
	}
	client, err := google.New(ctx, google.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GracefulShutdown returns a context that is cancelled on SIGINT or SIGTERM.
// cleanup then runs with a context bounded by timeout, and the returned
// channel is closed once it has finished.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
			return
		}
		logger.Info("Shutdown complete")
	}()

	return ctx, done
}
