// Package handlers exposes the platform over HTTP
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	authmw "github.com/memberclass/platform/internal/auth/middleware"
	"github.com/memberclass/platform/internal/middlewares"
	"github.com/memberclass/platform/internal/models"
	"github.com/memberclass/platform/internal/player"
	"github.com/memberclass/platform/internal/services"
	"go.uber.org/zap"
)

// maxJSONBody bounds request bodies decoded as JSON
const maxJSONBody = 1 << 20

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError maps a service or player error to a status code.
// Unknown errors are logged with the request ID and answered with 500 and the fallback message.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var validationErr *services.ValidationError
	var loadErr *player.LoadError
	var enrollErr *player.EnrollmentError

	switch {
	case errors.As(err, &validationErr):
		h.RespondError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, player.ErrSessionNotFound),
		errors.Is(err, player.ErrModuleNotInCourse),
		errors.Is(err, player.ErrLessonNotInModule):
		h.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict):
		h.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, player.ErrLocked):
		h.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &enrollErr):
		h.Logger.Warn("enrollment failed", middlewares.RequestIDField(r.Context()), zap.Error(err))
		h.RespondError(w, http.StatusServiceUnavailable, "failed to enroll, please try again")
	case errors.As(err, &loadErr):
		h.Logger.Warn("content load failed", middlewares.RequestIDField(r.Context()), zap.Error(err))
		h.RespondError(w, http.StatusServiceUnavailable, "failed to load "+loadErr.What+", please try again")
	default:
		h.Logger.Error(fallback, middlewares.RequestIDField(r.Context()), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, fallback)
	}
}

// decodeJSON decodes a bounded JSON body into dst
func (h *BaseHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.Logger.Debug("failed to decode request body", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// urlParamID parses a positive integer path parameter
func (h *BaseHandler) urlParamID(w http.ResponseWriter, r *http.Request, name, entity string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		h.RespondError(w, http.StatusBadRequest, "invalid "+entity+" ID")
		return 0, false
	}
	return id, true
}

// currentUser returns the authenticated user ID set by the auth middleware
func (h *BaseHandler) currentUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := authmw.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}
