package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/DoyleJ11/kittens-server/internal/hub"
	"github.com/DoyleJ11/kittens-server/internal/types"
	"go.uber.org/zap"
)

type createGameRequest struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"max_players"`
}

// CreateGame opens an empty session. The caller joins it over TCP or the
// WebSocket with the returned id.
func CreateGame(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGameRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<12)).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "missing name", http.StatusBadRequest)
			return
		}

		s, err := h.Create(r.Context(), req.Name, req.MaxPlayers)
		if err != nil {
			log.Warn("create game", zap.Error(err))
			http.Error(w, "failed to create game", http.StatusServiceUnavailable)
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			ID string `json:"id"`
		}{ID: s.ID()})
	}
}

// ListGames returns the joinable games, newest first.
func ListGames(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := h.Games(r.Context())
		if err != nil {
			log.Warn("list games", zap.Error(err))
			http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
			return
		}
		if games == nil {
			games = []types.GameInfo{}
		}
		writeJSON(w, http.StatusOK, games)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
