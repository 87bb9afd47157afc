package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"traveleo/internal/auth"
	"traveleo/internal/cli"
	apphttp "traveleo/internal/http"
	applog "traveleo/internal/log"
	"traveleo/internal/notify"
	"traveleo/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), nil)

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := cli.OpenStore(startCtx, cfg, logger)
	cancelStart()
	if err != nil {
		logger.Error("Failed to open database", applog.FieldError, err, applog.FieldDriver, cfg.DBDriver)
		os.Exit(1)
	}
	defer store.Close()

	amqpClient, err := cli.ConnectAMQP(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}

	// Without a broker welcome mails go through the direct mailer on a
	// background goroutine and expense events are not published.
	mailer := cli.BuildMailer(cfg, logger)
	var (
		async     notify.Mailer
		publisher services.EventPublisher
	)
	if amqpClient != nil {
		defer amqpClient.Close()
		async = notify.NewQueueMailer(amqpClient)
		publisher = amqpClient
		logger.Info("AMQP enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}
	notifier := notify.NewNotifier(mailer, async, logger)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiresIn)
	svc := apphttp.Services{
		Auth:       services.NewAuthService(store, tokens, notifier, cfg.OTPTTL),
		Trips:      services.NewTripService(store),
		Budgets:    services.NewBudgetService(store),
		Categories: services.NewCategoryService(store),
		Expenses:   services.NewExpenseService(store, publisher),
		Insights:   services.NewInsightService(store),
	}

	srv := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		CORSOrigin:         cfg.CORSOrigin,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, svc, store, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		notifier.Wait()
	})

	logger.Info("Starting traveleo server", "port", cfg.Port, applog.FieldDriver, cfg.DBDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	<-done
	logger.Info("Server stopped gracefully")
}
