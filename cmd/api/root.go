package main

import (
	"context"
	"fmt"
	"strings"

	"task-buddy/internal/adapters/auth/jwtauth"
	"task-buddy/internal/adapters/auth/remote"
	mg "task-buddy/internal/adapters/storage/mongodb"
	pg "task-buddy/internal/adapters/storage/postgres"
	"task-buddy/internal/config"
	"task-buddy/internal/domain/catalog"
	"task-buddy/internal/platform/logger"
	"task-buddy/internal/ports/auth"
	"task-buddy/internal/router"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "task-buddy",
	Short:        "API de tareas con mascota virtual",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "archivo TOML (default $TASKBUDDY_CONFIG)")
}

// app junta lo que comparten serve, migrate y seed.
type app struct {
	cfg  config.Config
	log  logger.Logger
	opts router.Options

	closers []func(context.Context) error
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	cat := catalog.Default()
	if p := strings.TrimSpace(cfg.Catalog.Path); p != "" {
		if cat, err = catalog.Load(p); err != nil {
			return nil, err
		}
	}

	a := &app{cfg: cfg, log: log}
	a.opts = router.Options{
		AuthVerifier: newVerifier(cfg.Auth),
		Config:       &a.cfg,
		Catalog:      cat,
		Logger:       log,
	}

	switch {
	case cfg.Storage.DSN != "":
		db, err := pg.Open(cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		a.opts.DB = db
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		log.Info("storage selected", map[string]any{"backend": "postgres"})
	case cfg.Storage.MongoURI != "":
		client, db, err := mg.Open(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		a.opts.Mongo = db
		a.closers = append(a.closers, client.Disconnect)
		log.Info("storage selected", map[string]any{"backend": "mongo", "database": cfg.Storage.MongoDatabase})
	default:
		log.Warn("storage selected", map[string]any{"backend": "memory"})
	}

	return a, nil
}

func (a *app) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn("close failed", map[string]any{"error": err})
		}
	}
}

func newVerifier(c config.AuthConfig) auth.AuthVerifier {
	switch c.Mode {
	case config.AuthModeJWT:
		return jwtauth.NewVerifier(c.JWTSecret, c.JWTIssuer)
	case config.AuthModeRemote:
		return remote.NewVerifier(remote.Config{
			VerifyURL: c.VerifyURL,
			APIKey:    c.APIKey,
			Timeout:   c.Timeout.Duration,
		})
	default:
		// dev: X-Debug-User-ID
		return nil
	}
}
