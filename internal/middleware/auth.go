package middleware

import (
	"context"
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seth-walker/HRIS/internal/access"
	"github.com/seth-walker/HRIS/internal/constants"
	apierrors "github.com/seth-walker/HRIS/internal/errors"
	"github.com/seth-walker/HRIS/internal/services"
)

// PrincipalResolver turns a session user ID into the actor for access checks.
type PrincipalResolver interface {
	Principal(ctx context.Context, userID string) (access.Principal, error)
}

// RequireAuth checks if the user is authenticated via session and loads
// their principal. Sessions of deleted or deactivated users are cleared.
func RequireAuth(resolver PrincipalResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(constants.ContextKeyUserID).(string)
		if !ok || userID == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		principal, err := resolver.Principal(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrUserInactive) {
				session.Clear()
				_ = session.Save()
				apierrors.Unauthorized(c, "Session is no longer valid")
				return
			}
			log.Error("failed to resolve principal", zap.String("user_id", userID), zap.Error(err))
			apierrors.InternalError(c, "")
			return
		}

		// Store user ID and principal in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// GetPrincipal retrieves the current principal from context
func GetPrincipal(c *gin.Context) (access.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return access.Principal{}, false
	}
	principal, ok := value.(access.Principal)
	return principal, ok
}
