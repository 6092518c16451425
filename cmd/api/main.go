// @title Good Place Events API
// @version 1.0
// @description Event registration and waitlist management.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "goodplace/docs"

	"goodplace/config"
	"goodplace/internal/adapters/auth"
	"goodplace/internal/adapters/broker"
	"goodplace/internal/adapters/email"
	delivery "goodplace/internal/delivery/http"
	"goodplace/internal/delivery/http/controllers"
	"goodplace/internal/domain"
	"goodplace/internal/repository/postgres"
	"goodplace/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(logger, cfg.DBUrl, cfg.MigrationsPath); err != nil {
			return err
		}
	}

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	companyRepo := postgres.NewCompanyRepository(db)
	userRepo := postgres.NewUserRepository(db)
	participationRepo := postgres.NewParticipationRepository(db)

	// Notifications
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	var publisher domain.ParticipationPublisher = broker.NoopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := broker.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange, logger)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
		logger.Info("publishing participation events", "exchange", cfg.RabbitExchange)
	} else {
		logger.Warn("RABBITMQ_URL not set, participation events are not published")
	}

	// Service
	registrationService := services.NewRegistrationService(
		eventRepo, companyRepo, userRepo, participationRepo,
		publisher, emailService, logger, cfg.RequestTimeout,
	)

	// HTTP
	mux := delivery.NewRouter(
		controllers.NewParticipantController(logger, registrationService),
		controllers.NewEventController(logger, registrationService),
		controllers.NewUserController(logger, registrationService),
		auth.NewJWT(cfg.JWTSecret),
		logger,
	)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           delivery.WithMiddleware(mux, logger, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
