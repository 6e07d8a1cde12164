package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/trip-planner-api/internal/api"
	"github.com/alexivanou/trip-planner-api/internal/config"
	"github.com/alexivanou/trip-planner-api/internal/database"
	"github.com/alexivanou/trip-planner-api/internal/repository"
	"github.com/alexivanou/trip-planner-api/internal/seeder"
	"github.com/alexivanou/trip-planner-api/internal/service"
	"github.com/alexivanou/trip-planner-api/internal/stats"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const migrationsRoot = "migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

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

	if err := database.Migrate(db, cfg.DB, migrationsRoot); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)
	autoSeed(ctx, db, repos, cfg, logger)

	svc := service.NewService(repos, cfg.Planner, logger)
	statsCollector := stats.NewCollector(db, cfg.DB)
	router := api.NewRouter(svc, statsCollector, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// autoSeed imports city reference data when the cities table is empty and
// GeoNames files are available. The server still starts without them.
func autoSeed(ctx context.Context, db *sqlx.DB, repos *repository.Container, cfg *config.Config, logger *zap.Logger) {
	isEmpty, err := repository.IsDatabaseEmpty(ctx, db)
	if err != nil {
		logger.Warn("Failed to check if database is empty", zap.Error(err))
		return
	}
	if !isEmpty {
		return
	}

	parser := seeder.NewParser(cfg.Seeder.DataDir, cfg.Seeder)
	if !parser.HasData() {
		logger.Warn("No cities loaded and no GeoNames data found", zap.String("data_dir", cfg.Seeder.DataDir))
		return
	}

	logger.Info("Database is empty, auto-seeding cities...")
	n, err := seeder.Import(ctx, parser, repos.City, cfg.Seeder.BatchSize, logger)
	if err != nil {
		logger.Fatal("Failed to auto-seed database", zap.Error(err))
	}
	logger.Info("Database seeded successfully", zap.Int("cities", n))
}
