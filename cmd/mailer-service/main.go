package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ankit723/Dream-Definers/internal/api/handler"
	"github.com/ankit723/Dream-Definers/internal/api/router"
	"github.com/ankit723/Dream-Definers/internal/config"
	formsstorage "github.com/ankit723/Dream-Definers/internal/forms/storage"
	"github.com/ankit723/Dream-Definers/internal/mailer"
	"github.com/ankit723/Dream-Definers/internal/mailq/processor"
	mailqstorage "github.com/ankit723/Dream-Definers/internal/mailq/storage"
	"github.com/ankit723/Dream-Definers/internal/metrics"
	"github.com/ankit723/Dream-Definers/shared/logger"
	"github.com/ankit723/Dream-Definers/shared/postgresql"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("MAILER_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/mailer-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger := logger.New(&logger.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       cfg.Logging.Output,
		EnableSource: cfg.Logging.EnableCaller,
		TimeFormat:   time.RFC3339,
	})

	appLogger.Info("Starting mailer service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	dbClient, err := postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbClient.Close()

	metrics.Init()

	renderer, err := mailer.NewRenderer(mailer.Branding{
		SiteName:     cfg.Mailer.SiteName,
		SiteURL:      cfg.Mailer.SiteURL,
		ContactEmail: cfg.Mailer.AdminAddress,
		ContactPhone: cfg.Mailer.ContactPhone,
		Address:      cfg.Mailer.Address,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize templates: %w", err)
	}

	queueStore := mailqstorage.NewStorage(dbClient.GetDB(), appLogger.Logger)
	formStore := formsstorage.NewStorage(dbClient.GetDB(), appLogger.Logger)

	proc := processor.NewProcessor(&processor.Config{
		Logger:         appLogger.Logger,
		Store:          queueStore,
		Sender:         mailer.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password),
		Renderer:       renderer,
		FromAddress:    cfg.Mailer.FromAddress,
		BatchSize:      cfg.Mailer.BatchSize,
		AttemptTimeout: cfg.Mailer.AttemptTimeout,
	})

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.SetupRouter(&handler.Dependencies{
		Logger:       appLogger.Logger,
		Queue:        queueStore,
		Forms:        formStore,
		Processor:    proc,
		HealthCheck:  dbClient.HealthCheck,
		AdminAddress: cfg.Mailer.AdminAddress,
		CronSecret:   cfg.Mailer.CronSecret,
		MaxRetries:   cfg.Mailer.MaxRetries,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("HTTP server listening", slog.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", slog.Any("error", err))
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}
