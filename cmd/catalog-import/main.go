package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vehicle-price-api/internal/catalog"
	"vehicle-price-api/internal/config"
	"vehicle-price-api/internal/database"
	"vehicle-price-api/internal/repository"
)

func main() {
	cfg := config.Load()

	var (
		// Database flags
		dbHost     = flag.String("db-host", cfg.Database.Host, "Database host")
		dbPort     = flag.Int("db-port", cfg.Database.Port, "Database port")
		dbName     = flag.String("db-name", cfg.Database.Name, "Database name")
		dbUser     = flag.String("db-user", cfg.Database.User, "Database user")
		dbPassword = flag.String("db-password", cfg.Database.Password, "Database password")
		dbSSLMode  = flag.String("db-sslmode", cfg.Database.SSLMode, "Database SSL mode")

		file     = flag.String("file", cfg.CatalogFile, "Model mapping file to import")
		dryRun   = flag.Bool("dry-run", false, "Parse the mapping file without writing to the database")
		logLevel = flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	)

	flag.Parse()

	logger := config.NewLogger(os.Stdout, *logLevel)

	cat, err := catalog.LoadFile(*file)
	if err != nil {
		logger.Error("failed to read mapping file", "error", err)
		os.Exit(1)
	}
	logger.Info("mapping file loaded", "file", *file, "models", cat.Len(), "makes", cat.MakeCount())

	if *dryRun {
		logger.Info("dry run, nothing written")
		return
	}

	if *dbPassword == "" {
		fmt.Fprintln(os.Stderr, "Error: database password is required (use -db-password or DB_PASSWORD env)")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCfg := cfg.Database
	dbCfg.Host = *dbHost
	dbCfg.Port = *dbPort
	dbCfg.Name = *dbName
	dbCfg.User = *dbUser
	dbCfg.Password = *dbPassword
	dbCfg.SSLMode = *dbSSLMode

	db, err := database.NewPostgresPool(ctx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	repo := repository.NewCarsModelRepo(db)
	written, err := repo.UpsertMany(ctx, cat.Entries())
	if err != nil {
		logger.Error("catalog import failed", "error", err)
		os.Exit(1)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		logger.Warn("failed to count catalog rows", "error", err)
	}

	logger.Info("catalog import complete", "written", written, "total", total)
}
