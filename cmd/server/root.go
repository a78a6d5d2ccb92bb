package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seth-walker/HRIS/internal/config"
	"github.com/seth-walker/HRIS/internal/database"
	"github.com/seth-walker/HRIS/internal/logger"
	"github.com/seth-walker/HRIS/internal/repository"
	"github.com/seth-walker/HRIS/internal/services"
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	cmd := &cobra.Command{
		Use:          "hris",
		Short:        "HRIS organization API and maintenance tools",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.AddCommand(serve, newMigrateCmd(), newUserCmd(), newImportCmd())
	return cmd
}

// app holds what every command needs: configuration, logger and database.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

type serviceSet struct {
	audit     *services.AuditService
	auth      *services.AuthService
	employees *services.EmployeeService
	teams     *services.TeamService
}

func (a *app) services() serviceSet {
	employeeRepo := repository.NewEmployeeRepository(a.db)
	teamRepo := repository.NewTeamRepository(a.db)
	audit := services.NewAuditService(repository.NewAuditLogRepository(a.db), a.log)

	return serviceSet{
		audit:     audit,
		auth:      services.NewAuthService(repository.NewUserRepository(a.db), employeeRepo, audit),
		employees: services.NewEmployeeService(employeeRepo, teamRepo, audit),
		teams:     services.NewTeamService(teamRepo, employeeRepo, audit),
	}
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
