package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/seth-walker/HRIS/internal/access"
	"github.com/seth-walker/HRIS/internal/constants"
	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/services"
)

type stubResolver map[string]access.Principal

func (s stubResolver) Principal(_ context.Context, userID string) (access.Principal, error) {
	if userID == "broken" {
		return access.Principal{}, errors.New("database is down")
	}
	p, ok := s[userID]
	if !ok {
		return access.Principal{}, services.ErrUserNotFound
	}
	return p, nil
}

func newAuthRouter(resolver PrincipalResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.GET("/login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, c.Param("id"))
		_ = session.Save()
		c.Status(http.StatusNoContent)
	})
	r.GET("/private", RequireAuth(resolver, zap.NewNop()), func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": p.Role})
	})
	return r
}

func sessionFor(t *testing.T, r *gin.Engine, userID string) []*http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login/"+userID, nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	return w.Result().Cookies()
}

func requestWith(r *gin.Engine, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newAuthRouter(stubResolver{
		"u1": {UserID: "u1", Role: models.RoleHR},
	})

	w := requestWith(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = requestWith(r, sessionFor(t, r, "u1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"u1","role":"hr"}`, w.Body.String())

	w = requestWith(r, sessionFor(t, r, "gone"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = requestWith(r, sessionFor(t, r, "broken"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetPrincipal_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetPrincipal(c)
	assert.False(t, ok)
	_, ok = GetUserID(c)
	assert.False(t, ok)

	c.Set(constants.ContextKeyUserID, 42)
	_, ok = GetUserID(c)
	assert.False(t, ok)
}

func TestRequestLoggerAndAuditContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	var seenIP string
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)), AuditContext())
	r.GET("/ok", func(c *gin.Context) {
		seenIP = c.ClientIP()
		c.Status(http.StatusOK)
	})
	r.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "/ok", first["path"])
	assert.EqualValues(t, http.StatusOK, first["status"])
	assert.Equal(t, seenIP, first["client_ip"])
	assert.Equal(t, "req-123", first["request_id"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
