package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/seth-walker/HRIS/internal/database"
	"github.com/seth-walker/HRIS/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(false))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every statement on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func seedEmployee(t *testing.T, db *gorm.DB, first, last string, managerID *string) *models.Employee {
	t.Helper()

	e := &models.Employee{
		FirstName: first,
		LastName:  last,
		Title:     "Engineer",
		ManagerID: managerID,
		HireDate:  time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewEmployeeRepository(db).Create(context.Background(), e))
	return e
}

func seedTeam(t *testing.T, db *gorm.DB, name string, parentID *string) *models.Team {
	t.Helper()

	team := &models.Team{Name: name, ParentTeamID: parentID}
	require.NoError(t, NewTeamRepository(db).Create(context.Background(), team))
	return team
}
