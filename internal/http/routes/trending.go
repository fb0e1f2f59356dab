package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crazedo/trendpulse/internal/db"
	"github.com/crazedo/trendpulse/internal/models"
)

// handleListTrending returns the worker-maintained trending snapshot.
func (s *Server) handleListTrending(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ListTrending(r.Context())
	if err != nil {
		s.Logger.Error().Err(err).Msg("list trending failed")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load trending searches"})
		return
	}
	if rows == nil {
		rows = []models.TrendingSearch{}
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDParam(w, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}
	rows, err := s.Store.ListSavedTrends(r.Context(), userID)
	if err != nil {
		s.Logger.Error().Err(err).Str("user_id", userID).Msg("list saved trends failed")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load saved trends"})
		return
	}
	if rows == nil {
		rows = []models.SavedTrend{}
	}
	s.writeJSON(w, http.StatusOK, rows)
}

type saveTrendRequest struct {
	UserID       string `json:"user_id"`
	Keyword      string `json:"keyword"`
	TrendLabel   string `json:"trend_label"`
	SearchVolume int    `json:"search_volume"`
	Date         string `json:"date"`
}

func (s *Server) handleSaveTrend(w http.ResponseWriter, r *http.Request) {
	var req saveTrendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	userID, ok := s.userIDParam(w, req.UserID)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Keyword) == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "keyword is required"})
		return
	}

	saved, err := s.Store.SaveTrend(r.Context(), models.SavedTrend{
		UserID:       userID,
		Keyword:      strings.TrimSpace(req.Keyword),
		TrendLabel:   req.TrendLabel,
		SearchVolume: req.SearchVolume,
		Date:         req.Date,
	})
	if err != nil {
		s.Logger.Error().Err(err).Str("user_id", userID).Msg("save trend failed")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save trend"})
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleDeleteSaved(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	switch err := s.Store.DeleteSavedTrend(r.Context(), id); {
	case errors.Is(err, db.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "saved trend not found"})
	case err != nil:
		s.Logger.Error().Err(err).Int64("id", id).Msg("delete saved trend failed")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete saved trend"})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// userIDParam validates a user id. Ids are uuids minted by the account
// system; anything else is rejected before touching the store.
func (s *Server) userIDParam(w http.ResponseWriter, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing 'user_id' parameter"})
		return "", false
	}
	if _, err := uuid.Parse(raw); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user_id"})
		return "", false
	}
	return raw, true
}
