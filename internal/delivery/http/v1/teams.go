package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskflow/internal/services"
)

func (h *handlerImpl) HandleGetTeams(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	teams, err := h.teams.ListTeams(c.Request.Context(), identity.ID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	resp := make([]teamResponse, 0, len(teams))
	for _, team := range teams {
		resp = append(resp, newTeamResponse(team))
	}
	c.JSON(http.StatusOK, resp)
}

type createTeamRequest struct {
	Name    string   `json:"name" binding:"required,max=100"`
	Members []string `json:"members"`
}

func (h *handlerImpl) HandleCreateTeam(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req createTeamRequest
	if !h.bindJSON(c, &req) {
		return
	}

	team, err := h.teams.CreateTeam(c.Request.Context(), services.CreateTeamParams{
		UserID:    identity.ID,
		Name:      req.Name,
		MemberIDs: req.Members,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTeamResponse(team))
}

type updateTeamRequest struct {
	Name *string `json:"name" binding:"omitempty,max=100"`
}

func (h *handlerImpl) HandleUpdateTeam(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req updateTeamRequest
	if !h.bindJSON(c, &req) {
		return
	}

	team, err := h.teams.UpdateTeam(c.Request.Context(), services.UpdateTeamParams{
		ID:     c.Param("id"),
		UserID: identity.ID,
		Name:   req.Name,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTeamResponse(team))
}

func (h *handlerImpl) HandleDeleteTeam(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	err := h.teams.DeleteTeam(c.Request.Context(), identity.ID, c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type addTeamMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *handlerImpl) HandleAddTeamMember(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req addTeamMemberRequest
	if !h.bindJSON(c, &req) {
		return
	}

	team, err := h.teams.AddMember(c.Request.Context(), services.AddMemberParams{
		TeamID:   c.Param("id"),
		UserID:   identity.ID,
		MemberID: req.UserID,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTeamResponse(team))
}
