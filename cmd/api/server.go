package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"storefront-backend/internal/config"
	"storefront-backend/pkg/container"
)

const (
	shutdownGrace = 10 * time.Second
	// publish chạy tối đa 4 network step nối tiếp (store, locate, commit, refresh)
	publishNetworkSteps = 4
)

// Serve chạy HTTP API tới khi ctx bị cancel, sau đó drain request đang chạy
func Serve(ctx context.Context) error {
	app, err := container.NewContainer()
	if err != nil {
		return fmt.Errorf("initialize container: %w", err)
	}
	defer app.Cleanup()

	srv := newHTTPServer(app.Config, SetupRouter(app))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("addr", srv.Addr).
			Str("environment", app.Config.App.Environment).
			Bool("publish_ready", app.Backends.PublishReady()).
			Bool("checkout_ready", app.Backends.CheckoutReady()).
			Dur("write_timeout", srv.WriteTimeout).
			Msg("Storefront API listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down storefront API")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("Storefront API stopped")
	return nil
}

// newHTTPServer: WriteTimeout phủ được một lần publish đầy đủ
func newHTTPServer(cfg *config.Config, handler *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      publishNetworkSteps*cfg.Publish.StepTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
