package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/ytscribe/internal/server"
	"github.com/desertthunder/ytscribe/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the resolution HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	serverConfig := r.config.Server
	if host := cmd.String("host"); host != "" {
		serverConfig.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		serverConfig.Port = port
	}

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))

	api := server.NewAPIHandler(r.engine, server.NewJobStore(), r.logger)
	api.Register(router)

	srv := &http.Server{
		Addr:              serverConfig.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		r.logger.Info("listening", "addr", srv.Addr)
		errChan <- srv.ListenAndServe()
	}()

	if cmd.Bool("open") {
		url := fmt.Sprintf("http://%s/health", srv.Addr)
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
