// Package server exposes a read-only status API over the snapshot store and attempt history.
package server

import (
	"context"
	"errors"
	"net/http"
	"ytdl/internal/contracts"
	"ytdl/internal/domain/consts"
	logging "ytdl/internal/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8827"

// NewRouter returns a http Handler. history may be nil.
func NewRouter(store contracts.SnapshotStore, history contracts.HistoryStore) http.Handler {
	h := &handlers{store: store, history: history}

	// Initialize router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- API Routes ---
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", h.handleStatus)
		r.Get("/pending", h.handleListPending)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.handleListHistory)
			r.Get("/{itemID}", h.handleItemHistory)
		})
	})

	return r
}

// StartServer serves the API on addr until ctx is cancelled.
func StartServer(ctx context.Context, addr string, store contracts.SnapshotStore, history contracts.HistoryStore) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(store, history),
		ReadHeaderTimeout: consts.ServerReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.S("%s status server running on http://%s", consts.ProgramName, addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), consts.ServerShutdownTimeout)
		defer cancel()
		logging.I("Shutting down status server")
		return srv.Shutdown(shutdownCtx)
	}
}
