package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/echoscript/backend/internal/api/middleware"
	"github.com/echoscript/backend/internal/db"
)

// PlaybackHandler tracks per-user listening positions so playback resumes
// where the user left off.
type PlaybackHandler struct {
	db *db.Database
}

func NewPlaybackHandler(db *db.Database) *PlaybackHandler {
	return &PlaybackHandler{db: db}
}

type savePositionRequest struct {
	Position float64 `json:"position"`
}

func (h *PlaybackHandler) SavePosition(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	var req savePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.db.SavePlaybackPosition(claims.UserID, id, req.Position); err != nil {
		jsonError(w, "failed to save position", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *PlaybackHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	pos, err := h.db.GetPlaybackPosition(claims.UserID, id)
	if err != nil {
		jsonError(w, "failed to get position", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]float64{"position": pos}, http.StatusOK)
}
