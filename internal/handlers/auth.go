package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seth-walker/HRIS/internal/constants"
	"github.com/seth-walker/HRIS/internal/dto"
	apierrors "github.com/seth-walker/HRIS/internal/errors"
	"github.com/seth-walker/HRIS/internal/middleware"
	"github.com/seth-walker/HRIS/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		h.log.Error("failed to save session", zap.String("user_id", user.ID), zap.Error(err))
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	current, err := h.authService.GetUser(c.Request.Context(), user.ID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*current))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if userID, ok := session.Get(constants.ContextKeyUserID).(string); ok && userID != "" {
		h.authService.Logout(c.Request.Context(), userID)
	}

	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
