package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PingFunc comprueba la conectividad con la base de datos.
type PingFunc func(ctx context.Context) error

// HealthHandler expone los endpoints de estado del servicio.
type HealthHandler struct {
	logger *zap.Logger
	ping   PingFunc
}

func NewHealthHandler(logger *zap.Logger, ping PingFunc) *HealthHandler {
	return &HealthHandler{logger: logger, ping: ping}
}

// Root maneja GET /.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Todo API is running!"})
}

// Health maneja GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
