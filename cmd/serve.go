// backend/cmd/serve.go
package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/smartagri/cropadvisor/backend/config"
	"github.com/smartagri/cropadvisor/backend/database"
	"github.com/smartagri/cropadvisor/backend/handlers"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), config.AppConfig)
		},
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	log.Infof("Starting crop advisor backend on port %s (db %s)", cfg.Server.Port, cfg.Database.DBName)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.CloseDB()

	if _, err := os.Stat(cfg.Model.FallbackPath); err != nil {
		log.Warnf("Fallback model %s not readable (%v); predictions use demo output until a model is registered",
			cfg.Model.FallbackPath, err)
	}

	e := handlers.NewServer(newAPI(store, cfg))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "error starting server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
