package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"traveleo/internal/auth"
	"traveleo/internal/cli"
	"traveleo/internal/config"
	applog "traveleo/internal/log"
	"traveleo/internal/notify"
	"traveleo/internal/services"
	"traveleo/internal/storage"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "traveleoctl",
		Short: "Administrative commands for the Traveleo API",
		Long: `traveleoctl manages a Traveleo deployment from the command line.

It reads the same environment (and .env file) as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.LoadEnvFile()
		},
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newAddUserCmd())
	root.AddCommand(newUsersCmd())
	root.AddCommand(newRemindCmd())
	return root
}

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	logger   *applog.Logger
	store    *storage.Store
	notifier *notify.Notifier
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	logger := cli.SetupLogger(cfg.LogLevel, cmd.ErrOrStderr()).WithComponent(applog.ComponentCLI)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	store, err := cli.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Mails are sent directly; the CLI never hands them to the broker.
	notifier := notify.NewNotifier(cli.BuildMailer(cfg, logger), nil, logger)
	return &app{cfg: cfg, logger: logger, store: store, notifier: notifier}, nil
}

func (a *app) withLogger(ctx context.Context) context.Context {
	return applog.NewContext(ctx, a.logger)
}

func (a *app) authService() *services.AuthService {
	return services.NewAuthService(a.store, auth.NewTokens(a.cfg.JWTSecret, a.cfg.JWTExpiresIn), a.notifier, a.cfg.OTPTTL)
}

func (a *app) Close() error {
	a.notifier.Wait()
	return a.store.Close()
}
