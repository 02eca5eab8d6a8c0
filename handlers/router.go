package handlers

import (
	"leadtime-prediction-api/config"
	"leadtime-prediction-api/middleware"
	"leadtime-prediction-api/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RouterDeps wires the HTTP surface. DB and Cache are optional.
type RouterDeps struct {
	Service *services.PredictionService
	DB      *gorm.DB
	Cache   *services.CacheService
	Channel string
	CORS    config.CORSConfig
	Logger  *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		gin.Recovery(),
		middleware.SetupCORS(deps.CORS),
	)

	health := NewHealthHandler(deps.Service, deps.DB, deps.Cache)
	router.GET("/health", health.Health)
	router.GET("/ready", health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	catalogs := NewCatalogHandler(deps.Service)
	router.GET("/suppliers", catalogs.ListSuppliers)
	router.GET("/sites", catalogs.ListSites)

	prediction := NewPredictionHandler(deps.Service)
	router.POST("/predict", prediction.Predict)

	router.GET("/ws/predictions", LivePredictions(deps.Cache, deps.Channel, middleware.AllowedOrigins(deps.CORS), log))

	return router
}
