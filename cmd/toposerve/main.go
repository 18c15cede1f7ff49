// toposerve is a local development backend for topocad. It serves the
// topography REST contract over a SQLite file and seeds a demo
// project on first start.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"topocad/internal/config"
	"topocad/internal/logger"
	"topocad/internal/server"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	defer logr.Sync()

	db, err := sql.Open("sqlite3", "file:"+cfg.ServeDB)
	if err != nil {
		logr.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	store := server.NewStore(db)
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		logr.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := store.Seed(ctx); err != nil {
		logr.Fatal("failed to seed demo data", zap.Error(err))
	}

	r := server.NewRouter(store, cfg, logr.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.ServePort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("toposerve started",
			zap.String("port", cfg.ServePort),
			zap.String("db", cfg.ServeDB))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Fatal("forced shutdown", zap.Error(err))
	}
	logr.Info("server exited")
}
