package main

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"virtualbarcamp/config"
	_ "virtualbarcamp/docs"
	"virtualbarcamp/internal/adapters/auth"
	"virtualbarcamp/internal/adapters/email"
	httpdelivery "virtualbarcamp/internal/delivery/http"
	"virtualbarcamp/internal/delivery/http/controllers"
	"virtualbarcamp/internal/pubsub"
	"virtualbarcamp/internal/repository/postgres"
	"virtualbarcamp/internal/repository/postgres/migrations"
	"virtualbarcamp/internal/services"
)

// @title Virtual Barcamp API
// @version 1.0
// @description Session grid of a virtual barcamp: view the grid, manage talks and subscribe to slot changes.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token issued by the accounts service. Browsers may send it in the access_token cookie instead.
func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ContextTimeout)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if err := postgres.Migrate(ctx, db, migrations.FS); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("database ready")

	settingsRepo := postgres.NewSettingsRepository(db)
	gridRepo := postgres.NewGridRepository(db)
	userRepo := postgres.NewUserRepository(db)

	broker := pubsub.NewBroker(logger, cfg.SubscriberBuffer)
	defer broker.Close()

	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("load email templates: %w", err)
	}
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	emailService := services.NewEmailService(mailer, renderer, logger)
	settingsService := services.NewSettingsService(settingsRepo, logger, cfg.ContextTimeout)
	gridService := services.NewGridService(settingsRepo, gridRepo, userRepo, broker, emailService, logger, cfg.ContextTimeout)
	notifier := services.NewGridNotifier(settingsService)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	csrfKey := sha256.Sum256([]byte(cfg.SecretKey))
	router := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		Debug:          cfg.Debug,
		DevServer:      cfg.WebpackDevServer,
		AllowedOrigins: cfg.AllowedOrigins,
		CSRFKey:        csrfKey[:],
		SecureCookie:   cfg.Environment == "production",
	}, httpdelivery.Controllers{
		Grid:          controllers.NewGridController(logger, gridService),
		Settings:      controllers.NewSettingsController(logger, settingsService, gridService),
		Subscriptions: controllers.NewSubscriptionController(logger, broker, notifier, cfg.AllowedOrigins),
	}, verifier, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	// Ends every open subscription stream before the server stops accepting.
	broker.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
