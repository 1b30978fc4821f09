package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/kittens-server/internal/dispatch"
	"github.com/DoyleJ11/kittens-server/internal/hub"
	"github.com/DoyleJ11/kittens-server/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func SetupRoutes(h *hub.Hub, d *dispatch.Dispatcher, wsOpts ws.Options, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/games", ListGames(h, log))
	r.Post("/games", CreateGame(h, log))
	r.Get("/ws", ws.Handler(d, wsOpts))
	return r
}
