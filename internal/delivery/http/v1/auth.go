package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskflow/internal/services"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Register(c.Request.Context(), services.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Client:   clientInfo(c),
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newAuthResponse(result))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=255"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), services.LoginParams{
		Email:    req.Email,
		Password: req.Password,
		Client:   clientInfo(c),
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(result))
}

type googleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

func (h *handlerImpl) HandleGoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.auth.LoginWithIdentityProvider(c.Request.Context(), services.IdentityLoginParams{
		IDToken: req.IDToken,
		Client:  clientInfo(c),
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(result))
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *handlerImpl) HandleRefresh(c *gin.Context) {
	var req refreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), services.RefreshParams{
		RefreshToken: req.RefreshToken,
		Client:       clientInfo(c),
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(result))
}

func clientInfo(c *gin.Context) services.ClientInfo {
	return services.ClientInfo{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
}
