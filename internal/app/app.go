package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"boty-storefront/internal/auth"
	"boty-storefront/internal/config"
	"boty-storefront/internal/database"
	"boty-storefront/internal/event"
	"boty-storefront/internal/handler"
	"boty-storefront/internal/metrics"
	"boty-storefront/internal/middleware"
	"boty-storefront/internal/repository"
	"boty-storefront/internal/router"
	"boty-storefront/internal/service"
	"boty-storefront/internal/storage"
	"boty-storefront/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg       *config.Config
	server    *http.Server
	connector *database.Connector
	hub       *websocket.Hub
}

// NewConnector builds the shared database connector from cfg.
func NewConnector(cfg *config.Config) *database.Connector {
	return database.NewConnector(database.Options{
		URL:            cfg.DatabaseURL,
		Name:           cfg.DatabaseName,
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
}

func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, http.Handler, error) {
	if cfg.ImageStore == config.ImageStoreS3 {
		store, err := storage.NewS3StoreFromEnv(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}

	store, err := storage.NewDiskStore(cfg.UploadsRoot, "/uploads")
	if err != nil {
		return nil, nil, err
	}
	return store, handler.NewStaticFiles(store.RootAbs()), nil
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	tokens, err := auth.NewTokens(auth.TokenConfig{Secret: []byte(cfg.AuthSecret), TTL: cfg.AuthTokenTTL})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tokens: %w", err)
	}

	auth.PrepareDummyHash()

	imageStore, uploads, err := newImageStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	connector := NewConnector(cfg)
	accountRepo := repository.NewAccountRepository(connector)
	productRepo := repository.NewProductRepository(connector)

	bus := event.NewBus()
	hub := websocket.NewHub(bus)

	cookie := auth.CookieOptions{Secure: cfg.AuthCookieSecure, MaxAge: cfg.AuthTokenTTL}

	authService := service.NewAuthService(accountRepo, tokens)
	productService := service.NewProductService(productRepo, bus)
	catalogService := service.NewCatalogService(productRepo)
	imageService := service.NewImageService(imageStore, cfg.UploadMaxBytes, bus)

	appRouter := router.New(cfg, middleware.NewRouteGuard(tokens), router.Handlers{
		Auth:    handler.NewAuthHandler(authService, tokens, cookie),
		Product: handler.NewProductHandler(productService, tokens),
		Upload:  handler.NewUploadHandler(imageService, tokens),
		Catalog: handler.NewCatalogHandler(catalogService),
		Events:  handler.NewEventsHandler(hub, tokens, cfg.CORSOrigins),
		AdminUI: handler.NewAdminUIHandler(tokens),
		Uploads: uploads,
		Health:  healthHandler(connector),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{cfg: cfg, server: server, connector: connector, hub: hub}, nil
}

func healthHandler(connector *database.Connector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := connector.Health(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go a.hub.Run(hubCtx)

	metricsServer, metricsErr := metrics.StartServer(ctx, a.cfg.MetricsAddr)

	// Connect eagerly in the background so the first request does not pay
	// for it. Failure is not fatal: the next request retries.
	go func() {
		if _, err := a.connector.Pool(ctx); err != nil {
			slog.Warn("database not ready yet", "error", err)
			return
		}
		slog.Info("database ready")
	}()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr, "env", a.cfg.Environment)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = err
	case err := <-metricsErr:
		runErr = fmt.Errorf("metrics server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("graceful shutdown failed: %w", err))
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	stopHub()
	a.connector.Close()

	slog.Info("server stopped")
	return runErr
}
