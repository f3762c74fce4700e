package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/services"
)

const identityCtxKey = "identity"

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Debug().Msg("authorization header required")
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" || strings.ContainsAny(parts[1], " \t") {
		h.logger.Debug().Msg("invalid authorization header")
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	identity, err := h.auth.Authenticate(c.Request.Context(), parts[1])
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
			return
		}
		h.abortWithError(c, err)
		return
	}

	c.Set(identityCtxKey, identity)
	c.Next()
}

// identityFromContext returns the identity attached by HandleAuthMiddleware.
func identityFromContext(c *gin.Context) (*models.Identity, bool) {
	value, exists := c.Get(identityCtxKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*models.Identity)
	return identity, ok && identity != nil
}

// requireIdentity aborts with 401 when the route was mounted without the
// auth middleware.
func (h *handlerImpl) requireIdentity(c *gin.Context) (*models.Identity, bool) {
	identity, ok := identityFromContext(c)
	if !ok {
		h.logger.Error().
			Str("path", c.FullPath()).
			Msg("no identity found in context")
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return nil, false
	}
	return identity, true
}

// RequestLogger logs one line per request.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Int("status", status).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
