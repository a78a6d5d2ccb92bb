package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/seth-walker/HRIS/internal/config"
	"github.com/seth-walker/HRIS/internal/models"
)

// Models lists every table owned by the application in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Employee{},
		&models.Team{},
		&models.EmployeeTeamMembership{},
		&models.AuditLog{},
	}
}

// Dialector returns the GORM dialector for the configured driver.
func Dialector(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// GormConfig is shared by the server and tests. Employees and teams reference
// each other, so foreign keys are not created by AutoMigrate; deletes clean up
// references inside transactions instead.
func GormConfig(debug bool) *gorm.Config {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger:                                   logger.Default.LogMode(level),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// Connect opens the configured database.
func Connect(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DB)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, GormConfig(cfg.Log.Level == "debug"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection established",
		zap.String("driver", cfg.DB.Driver),
		zap.String("name", cfg.DB.Name),
	)
	return db, nil
}

// Migrate creates or updates every application table.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database migrations completed")
	return nil
}
