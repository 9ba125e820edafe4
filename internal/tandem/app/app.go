package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/blob"
	httpapi "github.com/aussiebroadwan/tandem/internal/tandem/http"
	"github.com/aussiebroadwan/tandem/internal/tandem/service"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	mongostore "github.com/aussiebroadwan/tandem/internal/tandem/store/drivers/mongo"
	redisstore "github.com/aussiebroadwan/tandem/internal/tandem/store/drivers/redis"
	"github.com/aussiebroadwan/tandem/internal/tandem/store/drivers/sqlite"
	"github.com/aussiebroadwan/tandem/pkg/cryptox"
	"github.com/aussiebroadwan/tandem/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// migrator is implemented by every primary store driver.
type migrator interface {
	ApplyMigrations() error
}

// Application wires the store, services and HTTP server together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	photos blob.Storage

	credentialService   *service.CredentialService
	sessionService      *service.SessionService
	socialService       *service.SocialService
	messagingService    *service.MessagingService
	badgeService        *service.BadgeService
	badgeWorker         *service.BadgeWorker
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "tandem",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initPhotos(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initServices(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.badgeWorker.Start()
	app.housekeepingService.Start()

	app.logger.Info("tandem starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
		"blob", app.cfg.BlobDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.stopWorkers()
			_ = app.db.Close()
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

// Shutdown drains HTTP traffic, then the background workers, then closes
// the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down tandem...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.stopWorkers()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("tandem stopped")
	return nil
}

func (app *Application) stopWorkers() {
	app.housekeepingService.Stop()
	// Stop after the server so events from in-flight requests are handled.
	app.badgeWorker.Stop()
}

// initDatabase opens the configured primary store, waits for it to answer,
// applies migrations and optionally moves sessions to Redis.
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		primary store.Store
		mig     migrator
	)

	switch app.cfg.StoreDriver {
	case StoreMongo:
		db := mongostore.NewStore(mongostore.Config{
			URI:      app.cfg.MongoURI,
			Database: app.cfg.MongoDatabase,
		})
		primary, mig = db, db
	default:
		host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(host)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		primary, mig = db, db
	}

	if err := store.Retry(ctx, store.DefaultRetryPolicy, func() error { return primary.Ping(ctx) }); err != nil {
		_ = primary.Close()
		return fmt.Errorf("database not reachable: %w", err)
	}

	if err := mig.ApplyMigrations(); err != nil {
		_ = primary.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully", "store", app.cfg.StoreDriver)

	app.db = primary
	if app.cfg.RedisURL == "" {
		return nil
	}

	sessions, err := redisstore.New(redisstore.Config{URL: app.cfg.RedisURL})
	if err != nil {
		_ = primary.Close()
		return fmt.Errorf("invalid redis url: %w", err)
	}
	if err := store.Retry(ctx, store.DefaultRetryPolicy, func() error { return sessions.Ping(ctx) }); err != nil {
		_ = sessions.Close()
		_ = primary.Close()
		return fmt.Errorf("redis not reachable: %w", err)
	}

	app.db = store.WithSessions(primary, sessions)
	app.logger.Info("sessions served from redis")
	return nil
}

func (app *Application) initPhotos(ctx context.Context) error {
	switch app.cfg.BlobDriver {
	case BlobS3:
		s3, err := blob.NewS3(ctx, blob.S3Config{
			Bucket:    app.cfg.S3Bucket,
			Region:    app.cfg.S3Region,
			Endpoint:  app.cfg.S3Endpoint,
			AccessKey: app.cfg.S3AccessKey,
			SecretKey: app.cfg.S3SecretKey,
			PathStyle: app.cfg.S3PathStyle,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize s3 photo storage: %w", err)
		}
		app.photos = s3
	default:
		local := blob.NewLocal(app.cfg.UploadsDir)
		local.BaseURL = app.cfg.UploadsBaseURL
		app.photos = local
	}
	return nil
}

// initServices builds the services and seeds the badge catalogue.
func (app *Application) initServices(ctx context.Context) error {
	app.badgeService = &service.BadgeService{Store: app.db}
	if err := app.badgeService.SeedBadges(ctx, service.DefaultBadges()); err != nil {
		return fmt.Errorf("failed to seed badges: %w", err)
	}

	app.badgeWorker = service.NewBadgeWorker(
		app.badgeService,
		app.logger,
		app.cfg.BadgeQueueSize,
		app.cfg.BadgeTimeout,
	)

	app.credentialService = &service.CredentialService{
		Store:    app.db,
		Notifier: service.LogNotifier{},
		Origin:   app.cfg.Origin,
		Photos:   app.photos,
		Events:   app.badgeWorker,
	}
	app.sessionService = &service.SessionService{
		Store:        app.db,
		TTL:          app.cfg.SessionTTL,
		FormTokenTTL: app.cfg.FormTokenTTL,
		Events:       app.badgeWorker,
	}
	app.socialService = &service.SocialService{Store: app.db, Events: app.badgeWorker}
	app.messagingService = &service.MessagingService{Store: app.db, Events: app.badgeWorker}

	app.housekeepingService = service.NewHousekeepingService(
		app.sessionService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.CredentialService = app.credentialService
	router.SessionService = app.sessionService
	router.SocialService = app.socialService
	router.MessagingService = app.messagingService
	router.BadgeService = app.badgeService
	router.Photos = app.photos
	if app.cfg.BlobDriver != BlobS3 {
		router.UploadsDir = app.cfg.UploadsDir
	}
	router.SecureCookies = app.cfg.SecureCookies
	router.ExposeVerificationLinks = app.cfg.ExposeVerificationLinks
	if app.cfg.MaxUploadBytes > 0 {
		router.MaxUploadBytes = app.cfg.MaxUploadBytes
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
