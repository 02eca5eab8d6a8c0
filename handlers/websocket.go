package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"leadtime-prediction-api/logger"
	"leadtime-prediction-api/middleware"
	"leadtime-prediction-api/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// newUpgrader accepts the configured origins. nil accepts any origin.
func newUpgrader(origins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return middleware.OriginAllowed(origins, r.Header.Get("Origin"))
		},
	}
}

// LivePredictions streams prediction events from the Redis channel to a
// websocket client until either side goes away.
func LivePredictions(cache *services.CacheService, channel string, origins []string, log *zap.Logger) gin.HandlerFunc {
	upgrader := newUpgrader(origins)
	return func(c *gin.Context) {
		if cache == nil || !cache.Available() {
			respondError(c, http.StatusServiceUnavailable, "live predictions require redis")
			return
		}
		reqLog := logger.FromContext(c.Request.Context(), log)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			reqLog.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		// Read pump: detect client disconnect
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		pubsub := cache.Subscribe(ctx, channel)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				err := conn.WriteJSON(gin.H{
					"type": "prediction",
					"data": jsonRaw(msg.Payload),
				})
				if err != nil {
					reqLog.Debug("websocket write failed", zap.Error(err))
					return
				}
			}
		}
	}
}

// jsonRaw embeds payload as JSON when it is valid JSON, else as a string.
func jsonRaw(payload string) any {
	if json.Valid([]byte(payload)) {
		return json.RawMessage(payload)
	}
	return payload
}
