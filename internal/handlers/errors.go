package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seth-walker/HRIS/internal/access"
	"github.com/seth-walker/HRIS/internal/constants"
	apierrors "github.com/seth-walker/HRIS/internal/errors"
	"github.com/seth-walker/HRIS/internal/hierarchy"
	"github.com/seth-walker/HRIS/internal/middleware"
	"github.com/seth-walker/HRIS/internal/services"
)

// respondWithError maps service errors to API responses. Anything unmapped
// is logged and reported as a 500 without leaking internals.
func respondWithError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, hierarchy.ErrInvalidHierarchy):
		apierrors.InvalidHierarchy(c, err.Error())
	case errors.Is(err, access.ErrForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrUserInactive):
		apierrors.Unauthorized(c, "Account is inactive")
	case errors.Is(err, hierarchy.ErrStructuralIntegrity):
		log.Error("hierarchy integrity violation", zap.String("path", c.FullPath()), zap.Error(err))
		apierrors.InternalError(c, "Stored hierarchy is inconsistent")
	default:
		log.Error("request failed", zap.String("method", c.Request.Method), zap.String("path", c.FullPath()), zap.Error(err))
		apierrors.InternalError(c, "")
	}
}

// principal fetches the actor set by RequireAuth, answering 401 when absent.
func principal(c *gin.Context) (access.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return access.Principal{}, false
	}
	return p, true
}
