package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusOK        = "ok"
	statusDown      = "down"
	healthDBTimeout = 2 * time.Second
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	code, status := http.StatusOK, statusOK
	if !h.checkDatabase(c.Request.Context()) {
		code, status = http.StatusServiceUnavailable, statusDown
	}

	c.JSON(code, healthResponse{
		Status: status,
		Time:   time.Now().UTC(),
	})
}

func (h *handlerImpl) checkDatabase(ctx context.Context) bool {
	if h.health == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, healthDBTimeout)
	defer cancel()

	err := h.health.Ping(ctx)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("database ping failed")
		return false
	}
	return true
}
