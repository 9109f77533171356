package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/inkwell-hq/inkwell/internal/account/http"
	"github.com/inkwell-hq/inkwell/internal/account/mailer"
	"github.com/inkwell-hq/inkwell/internal/account/metrics"
	"github.com/inkwell-hq/inkwell/internal/account/service"
	"github.com/inkwell-hq/inkwell/internal/account/store"
	"github.com/inkwell-hq/inkwell/internal/account/store/drivers/sqlite"
	"github.com/inkwell-hq/inkwell/pkg/cryptox"
	"github.com/inkwell-hq/inkwell/pkg/jwtx"
	"github.com/inkwell-hq/inkwell/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the account service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   jwtx.Signer
	keys     *jwtx.KeySet
	verifier jwtx.Verifier
	mail     mailer.Mailer
	metrics  *metrics.Collector

	credentialService   *service.CredentialService
	otpService          *service.OTPService
	verificationService *service.VerificationService
	sessionService      *service.SessionService
	housekeeping        *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:     cfg,
		metrics: metrics.NewCollector(),
		logger: slogx.New(slogx.Config{
			Service: "accountd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initKeys(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initMailer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeeping.Start()

	app.logger.Info("account service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the server, the housekeeping worker, and the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down account service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("account service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initKeys loads the session signing key from disk, or mints an ephemeral
// one. Ephemeral keys invalidate all sessions on restart, which is fine for
// dev and wrong for prod; the log line makes the mode visible.
func (app *Application) initKeys() error {
	const kid = "session-1"

	var (
		signer *jwtx.EdDSASigner
		err    error
	)
	if app.cfg.SessionKeyFile != "" {
		pemBytes, readErr := os.ReadFile(app.cfg.SessionKeyFile)
		if readErr != nil {
			return fmt.Errorf("failed to read session key file: %w", readErr)
		}
		signer, err = jwtx.NewSignerEdDSA(kid, pemBytes)
		if err != nil {
			return fmt.Errorf("failed to load session key: %w", err)
		}
		app.logger.Info("session signing key loaded", "kid", kid)
	} else {
		signer, err = jwtx.NewEphemeralSignerEdDSA(kid)
		if err != nil {
			return fmt.Errorf("failed to generate session key: %w", err)
		}
		app.logger.Warn("using ephemeral session key, sessions won't survive a restart", "kid", kid)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return fmt.Errorf("failed to register session key: %w", err)
	}

	app.signer = signer
	app.keys = keys
	app.verifier = jwtx.NewVerifierEdDSA(keys, app.cfg.Issuer, app.cfg.Audience)
	return nil
}

func (app *Application) initMailer() error {
	switch app.cfg.MailerMode {
	case "smtp":
		m, err := mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     app.cfg.SMTPHost,
			Port:     app.cfg.SMTPPort,
			Username: app.cfg.SMTPUser,
			Password: app.cfg.SMTPPass,
			From:     app.cfg.MailFrom,
		})
		if err != nil {
			return err
		}
		app.mail = m
		app.logger.Info("smtp mailer configured", "host", app.cfg.SMTPHost)
	default:
		app.mail = &mailer.LogMailer{Logger: app.logger}
		app.logger.Info("log mailer configured, codes will be printed instead of emailed")
	}
	return nil
}

func (app *Application) initServices() {
	app.credentialService = &service.CredentialService{
		Store:   app.db,
		Metrics: app.metrics,
	}

	app.otpService = &service.OTPService{
		Store:          app.db,
		TTL:            app.cfg.OTPTTL,
		ResendInterval: app.cfg.ResendInterval,
		Digits:         app.cfg.OTPDigits,
		Metrics:        app.metrics,
	}

	app.verificationService = &service.VerificationService{
		Store:       app.db,
		OTP:         app.otpService,
		Credentials: app.credentialService,
		Mailer:      app.mail,
		Metrics:     app.metrics,
	}

	app.sessionService = &service.SessionService{
		Store:    app.db,
		Signer:   app.signer,
		Verifier: app.verifier,
		Issuer:   app.cfg.Issuer,
		Audience: app.cfg.Audience,
		TTL:      app.cfg.SessionTTL,
		Metrics:  app.metrics,
	}

	app.housekeeping = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		app.db,
		app.logger,
	)

	router.CredentialService = app.credentialService
	router.SessionService = app.sessionService
	router.VerificationService = app.verificationService
	router.Metrics = app.metrics
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
