package handlers

import (
	"context"
	"net/http"
	"time"

	"leadtime-prediction-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	svc   *services.PredictionService
	db    *gorm.DB
	cache *services.CacheService
}

// NewHealthHandler takes optional db and cache; nil dependencies are
// reported as disabled.
func NewHealthHandler(svc *services.PredictionService, db *gorm.DB, cache *services.CacheService) *HealthHandler {
	return &HealthHandler{svc: svc, db: db, cache: cache}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "UP",
		"message": "Lead-time prediction API is running",
	})
}

// Ready reports the loaded model and catalogs. It fails only when a
// configured Postgres is unreachable; Redis is advisory.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}

	if h.db == nil {
		checks["postgres"] = "disabled"
	} else if err := pingDB(ctx, h.db); err != nil {
		checks["postgres"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["postgres"] = "ok"
	}

	switch {
	case h.cache == nil || !h.cache.Available():
		checks["redis"] = "disabled"
	case h.cache.Ping(ctx) != nil:
		checks["redis"] = "unreachable"
	default:
		checks["redis"] = "ok"
	}

	ready := "READY"
	if status != http.StatusOK {
		ready = "NOT_READY"
	}
	c.JSON(status, gin.H{
		"status":   ready,
		"model":    h.svc.ModelName(),
		"catalogs": h.svc.CatalogCounts(),
		"checks":   checks,
	})
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
