package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/seth-walker/HRIS/internal/access"
	"github.com/seth-walker/HRIS/internal/database"
	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/repository"
)

type serviceTestEnv struct {
	db        *gorm.DB
	employees *EmployeeService
	teams     *TeamService
	auth      *AuthService
	audit     *AuditService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(false))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))

	employeeRepo := repository.NewEmployeeRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	auditService := NewAuditService(repository.NewAuditLogRepository(db), zap.NewNop())

	return serviceTestEnv{
		db:        db,
		employees: NewEmployeeService(employeeRepo, teamRepo, auditService),
		teams:     NewTeamService(teamRepo, employeeRepo, auditService),
		auth:      NewAuthService(repository.NewUserRepository(db), employeeRepo, auditService),
		audit:     auditService,
	}
}

var (
	adminActor = access.Principal{UserID: "admin-user", Role: models.RoleAdmin}
	hrActor    = access.Principal{UserID: "hr-user", Role: models.RoleHR}
)

func managerActor(employeeID string) access.Principal {
	return access.Principal{UserID: "manager-user", Role: models.RoleManager, EmployeeID: &employeeID}
}

func employeeActor(employeeID string) access.Principal {
	return access.Principal{UserID: "employee-user", Role: models.RoleEmployee, EmployeeID: &employeeID}
}

func (env serviceTestEnv) createEmployee(t *testing.T, first, last string, managerID *string) *models.Employee {
	t.Helper()

	salary := decimal.NewFromInt(85000)
	e, err := env.employees.CreateEmployee(context.Background(), adminActor, CreateEmployeeInput{
		FirstName: first,
		LastName:  last,
		Title:     "Engineer",
		ManagerID: managerID,
		HireDate:  time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		Salary:    &salary,
	})
	require.NoError(t, err)
	return e
}

func (env serviceTestEnv) auditCount(t *testing.T, action models.AuditAction) int64 {
	t.Helper()

	var count int64
	require.NoError(t, env.db.Model(&models.AuditLog{}).Where("action = ?", action).Count(&count).Error)
	return count
}

func ptr[T any](v T) *T {
	return &v
}
