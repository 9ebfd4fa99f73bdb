package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"family-meal-planner/internal/app"
	"family-meal-planner/internal/planner"
	"family-meal-planner/internal/share"
)

// UserIDHeader identifies the caller for plan history.
const UserIDHeader = "X-User-ID"

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeAppError maps application errors onto HTTP statuses.
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidRequest):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, planner.ErrNoEligibleRecipes):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, share.ErrInvalidToken):
		s.writeError(w, http.StatusUnauthorized, "invalid or expired share link")
	case errors.Is(err, app.ErrPlanNotFound), errors.Is(err, app.ErrSharingDisabled):
		s.writeError(w, http.StatusNotFound, "meal plan not found")
	case errors.Is(err, app.ErrCatalogNotLoaded):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"system":    s.planner.SysHealth(),
	})
}

func (s *Server) handleListRecipes(w http.ResponseWriter, _ *http.Request) {
	recipes, err := s.planner.Recipes()
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

func (s *Server) handleCreateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req app.PlanRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if userID == "" {
		userID = "anonymous"
	}

	res, err := s.planner.GenerateMealPlan(r.Context(), userID, req)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleSharedPlan(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.SharedPlan(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	res.ShareToken = ""
	res.ShareExpiresAt = nil
	s.writeJSON(w, http.StatusOK, res)
}
