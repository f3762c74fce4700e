package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskflow/internal/services"
)

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	err := h.sessions.RevokeSession(c.Request.Context(), services.SessionParams{
		ID:     identity.SessionID,
		UserID: identity.ID,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleLogoutAll revokes every session of the user, the calling one
// included.
func (h *handlerImpl) HandleLogoutAll(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	revoked, err := h.sessions.RevokeAllSessions(c.Request.Context(), identity.ID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, logoutAllResponse{Revoked: revoked})
}

func (h *handlerImpl) HandleGetSessions(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	sessions, err := h.sessions.ListSessions(c.Request.Context(), identity.ID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, newSessionResponse(session, identity.SessionID))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlerImpl) HandleRevokeSession(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	err := h.sessions.RevokeSession(c.Request.Context(), services.SessionParams{
		ID:     c.Param("id"),
		UserID: identity.ID,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
