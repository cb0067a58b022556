package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// serve starts the HTTP server with graceful shutdown support and
// blocks until the server stops.
func (app *application) serve(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.setupRouter(),
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error("server failed", "error", err)
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		app.logger.Info("shutting down server...")
	case <-serverCtx.Done():
		app.logger.Info("server context canceled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}
