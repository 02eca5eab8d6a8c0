package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadtime-prediction-api/catalog"
	"leadtime-prediction-api/config"
	"leadtime-prediction-api/handlers"
	"leadtime-prediction-api/logger"
	"leadtime-prediction-api/metrics"
	"leadtime-prediction-api/regressor"
	"leadtime-prediction-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres is only needed when the catalogs live there
	var db *gorm.DB
	if cfg.Data.CatalogSource == config.CatalogSourcePostgres {
		db, err = openDatabase(ctx, cfg.Database)
		if err != nil {
			zl.Fatal("Failed to connect to database", zap.Error(err))
		}
	}

	catalogs, err := loadCatalogs(ctx, cfg, db)
	if err != nil {
		zl.Fatal("Failed to load reference catalogs", zap.Error(err))
	}
	counts := catalogs.Counts()
	metrics.RecordCatalogCounts(counts)
	zl.Info("Loaded reference catalogs",
		zap.String("source", cfg.Data.CatalogSource),
		zap.Int("suppliers", counts["suppliers"]),
		zap.Int("sites", counts["sites"]),
		zap.Int("skus", counts["skus"]))

	model, err := regressor.Load(cfg.Data.ModelsDir)
	if err != nil {
		zl.Fatal("Failed to load model", zap.String("dir", cfg.Data.ModelsDir), zap.Error(err))
	}
	zl.Info("Loaded model", zap.String("model", model.Name()), zap.Int("dim", model.Dim()))

	cache := services.NewDisabledCache()
	if cfg.Redis.Enabled {
		cache, err = services.NewCacheService(ctx, cfg.Redis, zl)
		if err != nil {
			zl.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		}
	}
	defer cache.Close()

	svc := services.NewPredictionService(catalogs, model, services.PredictionOptions{
		Cache:    cache,
		CacheTTL: time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second,
		Channel:  cfg.Redis.Channel,
		Logger:   zl,
	})

	gin.SetMode(cfg.Server.Mode)
	router := handlers.NewRouter(handlers.RouterDeps{
		Service: svc,
		DB:      db,
		Cache:   cache,
		Channel: cfg.Redis.Channel,
		CORS:    cfg.CORS,
		Logger:  zl,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zl.Error("Server failed", zap.Error(err))
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	zl.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db handle: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func loadCatalogs(ctx context.Context, cfg *config.Config, db *gorm.DB) (*catalog.Catalogs, error) {
	var src catalog.Source
	switch cfg.Data.CatalogSource {
	case config.CatalogSourcePostgres:
		src = catalog.NewDBSource(db)
	default:
		src = catalog.NewFileSource(cfg.Data.DataDir)
	}
	return src.Load(ctx)
}
