package middleware

import (
	"strings"
	"time"

	"leadtime-prediction-api/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	corsMethods = []string{"GET", "POST", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", RequestIDHeader}
	corsExpose  = []string{"Content-Length", RequestIDHeader}
)

// AllowedOrigins parses the comma-separated origin list. nil means any origin.
func AllowedOrigins(cfg config.CORSConfig) []string {
	var origins []string
	for _, o := range strings.Split(cfg.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		return nil
	}
	return origins
}

// OriginAllowed reports whether origin may connect. Requests without an
// Origin header are not cross-origin and are always allowed.
func OriginAllowed(allowed []string, origin string) bool {
	if allowed == nil || origin == "" {
		return true
	}
	for _, o := range allowed {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// SetupCORS allows every origin for "*", otherwise the comma-separated list
// with credentials.
func SetupCORS(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := AllowedOrigins(cfg)
	if allowedOrigins == nil {
		return cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		})
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     corsMethods,
		AllowHeaders:     corsHeaders,
		ExposeHeaders:    corsExpose,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
