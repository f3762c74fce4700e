package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskflow/internal/services"
)

func (h *handlerImpl) HandleGetFolders(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	folders, err := h.folders.ListFolders(c.Request.Context(), identity.ID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	resp := make([]folderResponse, 0, len(folders))
	for _, folder := range folders {
		resp = append(resp, newFolderResponse(folder))
	}
	c.JSON(http.StatusOK, resp)
}

type createFolderRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Color     string `json:"color" binding:"max=20"`
	IsPrivate *bool  `json:"isPrivate"`
}

func (h *handlerImpl) HandleCreateFolder(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req createFolderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	folder, err := h.folders.CreateFolder(c.Request.Context(), services.CreateFolderParams{
		UserID:    identity.ID,
		Name:      req.Name,
		Color:     req.Color,
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newFolderResponse(folder))
}

type updateFolderRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	Color     *string `json:"color" binding:"omitempty,max=20"`
	IsPrivate *bool   `json:"isPrivate"`
}

func (h *handlerImpl) HandleUpdateFolder(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req updateFolderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	folder, err := h.folders.UpdateFolder(c.Request.Context(), services.UpdateFolderParams{
		ID:        c.Param("id"),
		UserID:    identity.ID,
		Name:      req.Name,
		Color:     req.Color,
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newFolderResponse(folder))
}

func (h *handlerImpl) HandleDeleteFolder(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	err := h.folders.DeleteFolder(c.Request.Context(), identity.ID, c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
