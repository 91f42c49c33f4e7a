// Package main provides the entry point for the users API server.
//
// The server is the local development backend for the admin screen: it
// serves the /users CRUD contract on :3001 and seeds a fixture dataset when
// the database is empty.
package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/festy23/useradmin/internal/config"
	"github.com/festy23/useradmin/internal/database"
	dbconfig "github.com/festy23/useradmin/internal/database/config"
	"github.com/festy23/useradmin/internal/database/migrate"
	"github.com/festy23/useradmin/internal/health"
	"github.com/festy23/useradmin/internal/middleware"
	"github.com/festy23/useradmin/internal/user/model"
	userrouter "github.com/festy23/useradmin/internal/user/router"
	"github.com/festy23/useradmin/internal/user/seed"
	"github.com/festy23/useradmin/pkg/logger"
)

func main() {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zapLogger, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		//nolint:errcheck // stdout sync errors are not actionable
		zapLogger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbCfg := dbconfig.LoadConfigFromEnv()
	db, err := database.NewWithConfig(ctx, dbCfg)
	if err != nil {
		zapLogger.Fatalw("failed to connect to database", "error", err)
	}

	switch dbCfg.Driver {
	case dbconfig.DriverPostgres:
		if err := migrate.Migrate(db); err != nil {
			zapLogger.Fatalw("failed to apply migrations", "error", err)
		}
	default:
		if err := db.AutoMigrate(&model.User{}, &model.Document{}); err != nil {
			zapLogger.Fatalw("failed to auto-migrate schema", "error", err)
		}
	}

	if err := seed.Apply(ctx, db, zapLogger); err != nil {
		zapLogger.Fatalw("failed to seed database", "error", err)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(zapLogger))
	r.Use(middleware.Recovery(zapLogger))

	healthHandler := health.New(db, zapLogger)
	r.GET("/health", healthHandler.Check)

	userrouter.RegisterRoutes(r, db, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zapLogger.Infow("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	zapLogger.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Errorw("shutdown failed", "error", err)
	}
}
