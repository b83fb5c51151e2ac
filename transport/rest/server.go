package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

// NewRouter mounts the HTTP routes and the WebSocket endpoint on one handler.
// staticDir is served at the root when set.
func NewRouter(h Handlers, ws http.Handler, staticDir string) http.Handler {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.Handle("/ws", ws)
	router.HandleFunc("/ping", h.PingHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/room/{roomId}", h.RoomStatusHandler).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/api/room/{roomId}/matches", h.MatchHistoryHandler).Methods(http.MethodGet, http.MethodOptions)

	if staticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	}

	return router
}

// Start serves handler on port until ctx is done, then shuts down gracefully.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")

		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
