package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seth-walker/HRIS/internal/dto"
	apierrors "github.com/seth-walker/HRIS/internal/errors"
	"github.com/seth-walker/HRIS/internal/services"
)

// UserHandler serves the login account administration endpoints.
type UserHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		authService: authService,
		log:         log,
	}
}

// ListUsers returns every login account.
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	users, err := h.authService.ListUsers(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// GetUser returns one login account.
func (h *UserHandler) GetUser(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.authService.FindUser(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ListRoles returns the assignable roles.
func (h *UserHandler) ListRoles(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	roles, err := h.authService.ListRoles(actor)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// CreateUser creates a login account, optionally linked to an employee.
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.CreateUser(c.Request.Context(), actor, services.CreateUserInput{
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUserRole assigns a new role to a user.
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateUserRole(c.Request.Context(), actor, c.Param("id"), req.Role)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ToggleUserActive activates or deactivates a user.
func (h *UserHandler) ToggleUserActive(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.authService.ToggleUserActive(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
