package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seth-walker/HRIS/internal/config"
	"github.com/seth-walker/HRIS/internal/constants"
	"github.com/seth-walker/HRIS/internal/database"
	"github.com/seth-walker/HRIS/internal/handlers"
	"github.com/seth-walker/HRIS/internal/middleware"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			// Run migrations
			if err := database.MigrateDatabase(a.db, a.log); err != nil {
				return err
			}

			return serve(cmd.Context(), a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	gin.SetMode(a.cfg.Server.GinMode)

	store, err := newSessionStore(a.cfg)
	if err != nil {
		return err
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(a.log), gin.Recovery())
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(middleware.AuditContext())

	svc := a.services()
	api := handlers.API{
		Auth:        handlers.NewAuthHandler(svc.auth, a.log),
		Users:       handlers.NewUserHandler(svc.auth, a.log),
		Employees:   handlers.NewEmployeeHandler(svc.employees, a.log),
		Teams:       handlers.NewTeamHandler(svc.teams, a.log),
		AuditLogs:   handlers.NewAuditLogHandler(svc.audit, a.log),
		RequireAuth: middleware.RequireAuth(svc.auth, a.log),
	}

	// Health check endpoint
	r.GET("/health", handlers.Health(a.db))
	api.Register(r)

	srv := &http.Server{
		Addr:    a.cfg.ServerAddr(),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting", zap.String("addr", srv.Addr), zap.String("session_store", a.cfg.Session.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.Session.Store {
	case "cookie":
		store = cookie.NewStore([]byte(cfg.Session.Secret))
	default:
		rs, err := redisStore.NewStore(
			10,              // Redis pool size
			"tcp",           // network type
			cfg.RedisAddr(), // Redis address from config
			"",              // password (empty = no password)
			[]byte(cfg.Session.Secret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	}

	// Configure session options based on environment
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Server.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
