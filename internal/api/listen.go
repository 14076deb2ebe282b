package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ShutdownTimeout bounds how long in-flight requests may run after the
// context passed to Serve is done
const ShutdownTimeout = 15 * time.Second

// ShutdownHook runs after the listener closes, before Serve returns
type ShutdownHook func(ctx context.Context) error

// Serve accepts connections on l until ctx is done, then shuts the server
// down gracefully and runs hooks in order. Hook failures are logged and do
// not stop later hooks.
func Serve(ctx context.Context, l net.Listener, handler http.Handler, logger *zap.Logger, hooks ...ShutdownHook) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", l.Addr().String()))
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("server failed: %w", err)
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		shutdownErr = fmt.Errorf("server shutdown error: %w", err)
	}
	for i, hook := range hooks {
		if err := hook(shutdownCtx); err != nil {
			logger.Warn("shutdown hook failed", zap.Int("hook", i), zap.Error(err))
		}
	}
	return shutdownErr
}

// ListenAndServe listens on addr and calls Serve
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger, hooks ...ShutdownHook) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return Serve(ctx, l, handler, logger, hooks...)
}
