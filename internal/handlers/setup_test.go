package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/seth-walker/HRIS/internal/access"
	"github.com/seth-walker/HRIS/internal/constants"
	"github.com/seth-walker/HRIS/internal/database"
	"github.com/seth-walker/HRIS/internal/middleware"
	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/repository"
	"github.com/seth-walker/HRIS/internal/services"
)

const testPassword = "supersecret"

type apiTestEnv struct {
	db              *gorm.DB
	router          *gin.Engine
	authService     *services.AuthService
	employeeService *services.EmployeeService
	teamService     *services.TeamService
	authHandler     *AuthHandler
}

func setupAPITestEnv(t *testing.T) apiTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(false))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))

	log := zap.NewNop()
	employeeRepo := repository.NewEmployeeRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	auditService := services.NewAuditService(repository.NewAuditLogRepository(db), log)
	authService := services.NewAuthService(repository.NewUserRepository(db), employeeRepo, auditService)
	employeeService := services.NewEmployeeService(employeeRepo, teamRepo, auditService)
	teamService := services.NewTeamService(teamRepo, employeeRepo, auditService)

	api := API{
		Auth:        NewAuthHandler(authService, log),
		Users:       NewUserHandler(authService, log),
		Employees:   NewEmployeeHandler(employeeService, log),
		Teams:       NewTeamHandler(teamService, log),
		AuditLogs:   NewAuditLogHandler(auditService, log),
		RequireAuth: middleware.RequireAuth(authService, log),
	}

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(middleware.AuditContext())
	r.GET("/health", Health(db))
	api.Register(r)

	return apiTestEnv{
		db:              db,
		router:          r,
		authService:     authService,
		employeeService: employeeService,
		teamService:     teamService,
		authHandler:     api.Auth,
	}
}

// createUser creates a login with the given role, optionally linked to an employee.
func (env apiTestEnv) createUser(t *testing.T, email string, role models.RoleName, employeeID *string) *models.User {
	t.Helper()

	user, err := env.authService.CreateUser(context.Background(), access.System(), services.CreateUserInput{
		Email:      email,
		Password:   testPassword,
		Role:       role,
		EmployeeID: employeeID,
	})
	require.NoError(t, err)
	return user
}

func (env apiTestEnv) createEmployee(t *testing.T, first, last string, managerID *string) *models.Employee {
	t.Helper()

	salary := decimal.NewFromInt(70000)
	e, err := env.employeeService.CreateEmployee(context.Background(), access.System(), services.CreateEmployeeInput{
		FirstName: first,
		LastName:  last,
		Title:     "Engineer",
		ManagerID: managerID,
		HireDate:  time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
		Salary:    &salary,
	})
	require.NoError(t, err)
	return e
}

// login signs in through the API and returns the session cookies.
func (env apiTestEnv) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
	return cookies
}

func (env apiTestEnv) do(t *testing.T, method, url string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		var body []byte
		switch p := payload.(type) {
		case string:
			body = []byte(p)
		default:
			var err error
			body, err = json.Marshal(p)
			require.NoError(t, err)
		}
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	body := decode[map[string]interface{}](t, w)
	code, _ := body["code"].(string)
	return code
}
