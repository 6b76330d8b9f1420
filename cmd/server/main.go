package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/teeworks/internal/config"
	"github.com/Simplici0/teeworks/internal/db"
	"github.com/Simplici0/teeworks/internal/logger"
	"github.com/Simplici0/teeworks/internal/migrations"
	"github.com/Simplici0/teeworks/internal/seed"
	"github.com/Simplici0/teeworks/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	log := logger.Must(logger.New(cfg.LogLevel)).With(zap.String("env", cfg.AppEnv))
	defer func() { _ = log.Sync() }()

	for _, warning := range cfg.Warnings() {
		log.Warn("configuration warning", zap.String("detail", warning))
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.AutoMigrate {
		applied, err := migrations.Up(ctx, database)
		if err != nil {
			return err
		}
		log.Info("database migrated", zap.Int64s("applied", applied))
	}

	if cfg.SeedSample {
		stats, err := seed.Run(ctx, database)
		if err != nil {
			return err
		}
		log.Info("sample data seeded", zap.Int("inserts", stats.Inserts))
	}

	srv := newServer(store.New(database), logger.Named(log, "http"))
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
