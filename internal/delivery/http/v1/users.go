package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/services"
)

const avatarFormField = "avatar"

func (h *handlerImpl) HandleGetProfile(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), identity.ID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

type updateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,max=2048"`
}

func (h *handlerImpl) HandleUpdateProfile(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), services.UpdateProfileParams{
		UserID:    identity.ID,
		Name:      req.Name,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required,max=255"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleChangePassword(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), services.ChangePasswordParams{
		UserID:          identity.ID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleUploadAvatar(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	header, err := c.FormFile(avatarFormField)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("no avatar file in request")
		h.abortWithError(c, models.NewValidationError(avatarFormField, "file is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	defer func() { _ = file.Close() }()

	user, err := h.users.UploadAvatar(c.Request.Context(), services.UploadAvatarParams{
		UserID:   identity.ID,
		FileName: header.Filename,
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *handlerImpl) HandleDeleteAccount(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	err := h.users.DeleteAccount(c.Request.Context(), identity.ID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
