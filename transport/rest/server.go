package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

// NewRouter - wires every route of the bot API.
func NewRouter(
	logger *slog.Logger,
	games sessionManager,
	renderer viewRenderer,
	stats statsReader,
	bans banList,
	events eventStream,
	topPlayers int,
) http.Handler {
	h := &handlers{
		logger:     logger.With("component", "rest"),
		games:      games,
		renderer:   renderer,
		stats:      stats,
		bans:       bans,
		events:     events,
		topPlayers: topPlayers,
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Route("/chats/{chatID}", func(r chi.Router) {
		r.Post("/games", h.createGame)
		r.Post("/games/agent", h.createAgentGame)
		r.Get("/games", h.getGame)
		r.Delete("/games", h.resetGame)
		r.Put("/games/message", h.bindMessage)
		r.Post("/moves", h.move)
		r.Get("/stats", h.getStats)
		r.Get("/events", h.streamEvents)
	})

	r.Route("/bans/{userID}", func(r chi.Router) {
		r.Put("/", h.ban)
		r.Delete("/", h.unban)
	})

	return r
}

// Start - serves the handler until ctx is done, then shuts down gracefully.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     handler,
		ReadTimeout: 10 * time.Second,
		// event streams stay open, so writes have no deadline
		WriteTimeout: 0,
		IdleTimeout:  30 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
