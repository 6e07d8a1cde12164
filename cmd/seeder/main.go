package main

import (
	"context"
	"flag"
	"log"

	"github.com/alexivanou/trip-planner-api/internal/config"
	"github.com/alexivanou/trip-planner-api/internal/database"
	"github.com/alexivanou/trip-planner-api/internal/repository"
	"github.com/alexivanou/trip-planner-api/internal/seeder"
	"go.uber.org/zap"
)

func main() {
	migrationsRoot := flag.String("migrations", "migrations", "Migrations root directory")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	// an in-memory database starts without a schema
	if cfg.DB.IsMemory() {
		if err := database.Migrate(db, cfg.DB, *migrationsRoot); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)
	parser := seeder.NewParser(cfg.Seeder.DataDir, cfg.Seeder)

	logger.Info("Starting data import...",
		zap.String("data_dir", cfg.Seeder.DataDir),
		zap.Int("min_population", cfg.Seeder.MinPopulation),
		zap.Strings("countries", cfg.Seeder.AllowedCountries),
	)

	n, err := seeder.Import(ctx, parser, repos.City, cfg.Seeder.BatchSize, logger)
	if err != nil {
		logger.Fatal("Data import failed", zap.Error(err))
	}

	logger.Info("Data import completed successfully!", zap.Int("cities", n))
}
