package workers

import (
	"context"
	goerrors "errors"
	"fmt"
	"lanchat/errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// HTTPServerWorker serves a handler on a pre-bound listener until ctx is canceled.
type HTTPServerWorker struct {
	log      *slog.Logger
	name     string
	listener net.Listener
	handler  http.Handler
}

func NewHTTPServerWorker(log *slog.Logger, name string, listener net.Listener, handler http.Handler) *HTTPServerWorker {
	return &HTTPServerWorker{
		log:      log.With("server", name),
		name:     name,
		listener: listener,
		handler:  handler,
	}
}

func (w *HTTPServerWorker) Run(ctx context.Context) error {
	srv := &http.Server{
		Handler:           w.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	served := make(chan error, 1)
	go func() {
		served <- srv.Serve(w.listener)
	}()
	w.log.Info("HTTP server started", "addr", w.listener.Addr().String())

	select {
	case err := <-served:
		// Serve never returns nil, and the listener is gone for good.
		return fmt.Errorf("%w: %s server: %w", errors.ErrFatal, w.name, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		w.log.Warn("HTTP server shutdown", "error", err)
	}
	if err := <-served; err != nil && !goerrors.Is(err, http.ErrServerClosed) {
		w.log.Warn("HTTP server stopped", "error", err)
	}
	return nil
}
