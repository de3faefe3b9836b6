package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"task-buddy/internal/router"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "levanta la API HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		h, err := router.NewRouter(a.opts)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:         a.cfg.Addr(),
			Handler:      h,
			ReadTimeout:  a.cfg.Server.ReadTimeout.Duration,
			WriteTimeout: a.cfg.Server.WriteTimeout.Duration,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			a.log.Info("starting server", map[string]any{"addr": srv.Addr, "auth_mode": a.cfg.Auth.Mode})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			a.log.Info("shutting down", nil)
			sctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration)
			defer cancel()
			return srv.Shutdown(sctx)
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
