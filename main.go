package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	repos, err := app.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.Close(); err != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
	}()

	if cfg.SeedCatalog {
		if _, err := app.SeedCatalog(repos.Products, logger); err != nil {
			return err
		}
	}

	// --- RabbitMQ (optional) ---
	// The publisher stays a nil interface when messaging is disabled.
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQEnabled {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			return err
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	server, err := app.New(app.Deps{
		Config:    cfg,
		Repos:     repos,
		Publisher: publisher,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if cfg.AdminEmail != "" {
		if err := server.Auth.EnsureAdmin(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", cfg.AppPort))
		return server.App.Listen(cfg.AppPort)
	})

	if mqClient != nil {
		g.Go(func() error {
			logger.Info("starting order event consumer")
			return mqClient.ConsumeOrderEvents(gctx, rabbitmq.LogOrderEvent(logger))
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		return server.App.Shutdown()
	})

	return g.Wait()
}
