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

	httpapi "github.com/aussiebroadwan/storefront/internal/storefront/http"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/internal/storefront/store/drivers/postgres"
	"github.com/aussiebroadwan/storefront/internal/storefront/store/drivers/sqlite"
	"github.com/aussiebroadwan/storefront/pkg/cryptox"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the storefront service and owns its lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	hasher   *cryptox.PasswordHasher
	signer   *jwtx.HMACSigner
	verifier *jwtx.HMACVerifier

	authService      *service.AuthService
	userService      *service.UserService
	productService   *service.ProductService
	bootstrapService *service.BootstrapService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "storefront",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  cfg.LogOutput,
		}),
	}

	ctx := context.Background()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initCrypto(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()

	if err := app.bootstrapAdmin(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	return app, nil
}

// Handler exposes the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("storefront starting", "port", app.cfg.Port, "version", BuildVersion, "db_driver", app.cfg.DBDriver)

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

// Shutdown drains the HTTP server, then closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down storefront...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("storefront stopped")
	return nil
}

// initDatabase opens the configured store and applies migrations.
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DBDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DBDriver)
	return nil
}

// initCrypto loads the pepper and builds the token signer and verifier
// from the configured secret.
func (app *Application) initCrypto() error {
	pepper, err := cryptox.LoadOrGeneratePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	secret := []byte(app.cfg.JWTSecret)
	if len(secret) == 0 {
		ephemeral, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return fmt.Errorf("failed to generate signing secret: %w", err)
		}
		secret = []byte(ephemeral)
		app.logger.Warn("STOREFRONT_JWT_SECRET not set; using an ephemeral secret, sessions end on restart")
	}

	if app.signer, err = jwtx.NewSignerHMAC(app.cfg.Algorithm, secret); err != nil {
		return fmt.Errorf("failed to create token signer: %w", err)
	}
	app.verifier, err = jwtx.NewVerifierHMAC(app.cfg.Algorithm, secret, jwtx.VerifyOptions{
		Issuer: app.cfg.Issuer,
	})
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}
	return nil
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:  app.db,
		Hasher: app.hasher,
		Tokens: &service.TokenService{
			Signer: app.signer,
			Issuer: app.cfg.Issuer,
			TTL:    app.cfg.TokenTTL,
		},
	}
	app.userService = &service.UserService{Store: app.db}
	app.productService = &service.ProductService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{Store: app.db, Hasher: app.hasher}
}

func (app *Application) bootstrapAdmin(ctx context.Context) error {
	ctx = slogx.WithContext(ctx, app.logger)

	created, generated, err := app.bootstrapService.EnsureAdmin(ctx, service.AdminSpec{
		Email:    app.cfg.AdminEmail,
		Password: app.cfg.AdminPassword,
		Name:     app.cfg.AdminName,
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if created && generated != "" {
		app.logger.Warn("bootstrap admin created with a generated password",
			"email", app.cfg.AdminEmail,
			"password", generated,
		)
	}
	return nil
}

func (app *Application) initHTTP() error {
	clientIP, err := httpx.NewClientIP(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("failed to parse trusted proxies: %w", err)
	}

	router := httpapi.NewRouter(
		app.verifier,
		httpx.CookieOptions{Secure: app.cfg.CookieSecure, MaxAge: app.cfg.TokenTTL},
		clientIP,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.UserService = app.userService
	router.ProductService = app.productService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
