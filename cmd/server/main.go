package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"vehicle-price-api/internal/catalog"
	"vehicle-price-api/internal/client"
	"vehicle-price-api/internal/config"
	"vehicle-price-api/internal/database"
	"vehicle-price-api/internal/handler"
	"vehicle-price-api/internal/repository"
	"vehicle-price-api/internal/service"
)

func main() {
	cfg := config.Load()

	logger := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting vehicle-price-api", "catalog_source", cfg.CatalogSource)

	ctx := context.Background()

	// Model catalog
	cat, db, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load model catalog", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}
	logger.Info("model catalog loaded", "source", cat.Source, "models", cat.Len(), "makes", cat.MakeCount())

	// Upstream scrapers
	collector := client.NewCollector(cfg.Upstream.UserAgent, cfg.Upstream.HTTPTimeout)
	clearVin := client.NewClearVinClient(cfg.Upstream.ClearVinURL, collector)
	epicVin := client.NewEpicVinClient(cfg.Upstream.EpicVinURL, collector)
	carsCom := client.NewCarsComClient(cfg.Upstream.CarsURL, collector)

	// Service
	estimationSvc := service.NewEstimationService(clearVin, epicVin, carsCom, cat, cfg.Upstream.SearchZip, logger)

	// Handlers
	var pinger handler.Pinger
	if db != nil {
		pinger = db
	}
	healthHandler := handler.NewHealthHandler(pinger, cat.Len(), estimationSvc.Stats())
	estimationHandler := handler.NewEstimationHandler(estimationSvc, logger)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(handler.CORS(cfg.CORSOrigin))

	r.Get("/health", healthHandler.Check)
	r.Post("/api/price-estimation", estimationHandler.Estimate)

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      otelhttp.NewHandler(r, "vehicle-price-api"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server started", "port", cfg.APIPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}

// loadCatalog reads the model catalog from the mapping file or from
// Postgres. The pool is only returned for the postgres source.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, *pgxpool.Pool, error) {
	switch cfg.CatalogSource {
	case config.CatalogSourceFile:
		cat, err := catalog.LoadFile(cfg.CatalogFile)
		return cat, nil, err

	case config.CatalogSourcePostgres:
		logger.Info("connecting to database", "host", cfg.Database.Host, "database", cfg.Database.Name)

		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		db, err := database.NewPostgresPool(connectCtx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(connectCtx, db); err != nil {
			db.Close()
			return nil, nil, err
		}

		cat, err := catalog.Load(connectCtx, "postgres:"+cfg.Database.Name, repository.NewCarsModelRepo(db))
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return cat, db, nil

	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
}
