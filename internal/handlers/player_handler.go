package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/memberclass/platform/internal/player"
	"go.uber.org/zap"
)

// PlayerSessions is the interface that wraps course player session management
type PlayerSessions interface {
	// Method Create loads the course for the user and opens a session.
	//
	// Nothing is opened when loading fails; the error is a *player.NotFoundError or *player.LoadError.
	Create(ctx context.Context, userID, courseID int) (string, *player.Resolver, error)
	// Method Get returns the resolver of a session owned by the user.
	Get(id string, userID int) (*player.Resolver, error)
	// Method Delete closes a session owned by the user.
	Delete(id string, userID int) error
}

// CreateSessionRequest represents a request to open the player on a course
type CreateSessionRequest struct {
	CourseID int `json:"courseId"`
}

// SessionResponse carries a session id and its current state
type SessionResponse struct {
	SessionID string       `json:"sessionId"`
	State     player.State `json:"state"`
}

// PlayerHandler exposes the course player over HTTP
type PlayerHandler struct {
	BaseHandler
	sessions PlayerSessions
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(sessions PlayerSessions, logger *zap.Logger) *PlayerHandler {
	return &PlayerHandler{
		BaseHandler: BaseHandler{Logger: logger},
		sessions:    sessions,
	}
}

// RegisterRoutes registers all player handler routes
// Note: This assumes the router is already scoped to /api/v1 and authenticated
func (h *PlayerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/player/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{sessionId}", h.GetSession)
		r.Delete("/{sessionId}", h.DeleteSession)
		r.Post("/{sessionId}/modules/{moduleId}", h.SelectModule)
		r.Post("/{sessionId}/lessons/{lessonId}", h.SelectLesson)
		r.Post("/{sessionId}/enroll", h.Enroll)
	})
}

// CreateSession handles POST /player/sessions
// @Summary Open the course player
// @Description Loads the course, the viewer's enrollment and the ordered modules. Enrolled viewers start on the first lesson of the first module.
// @Tags player
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Course to open"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 503 {object} map[string]string "Content could not be loaded"
// @Router /player/sessions [post]
func (h *PlayerHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.CourseID <= 0 {
		h.RespondError(w, http.StatusBadRequest, "courseId is required")
		return
	}

	id, resolver, err := h.sessions.Create(r.Context(), userID, req.CourseID)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to open course")
		return
	}

	h.RespondJSON(w, http.StatusCreated, SessionResponse{SessionID: id, State: resolver.Snapshot()})
}

// GetSession handles GET /player/sessions/{sessionId}
// @Summary Get player state
// @Tags player
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]string "Session not found"
// @Router /player/sessions/{sessionId} [get]
func (h *PlayerHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, resolver, ok := h.session(w, r)
	if !ok {
		return
	}

	h.RespondJSON(w, http.StatusOK, SessionResponse{SessionID: id, State: resolver.Snapshot()})
}

// DeleteSession handles DELETE /player/sessions/{sessionId}
// @Summary Close the player
// @Tags player
// @Param sessionId path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]string "Session not found"
// @Router /player/sessions/{sessionId} [delete]
func (h *PlayerHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Delete(chi.URLParam(r, "sessionId"), userID); err != nil {
		h.RespondServiceError(w, r, err, "failed to close session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SelectModule handles POST /player/sessions/{sessionId}/modules/{moduleId}
// @Summary Open a module
// @Description Makes the module active and its first lesson the active lesson. Lessons are fetched once per session.
// @Tags player
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param moduleId path int true "Module ID"
// @Success 200 {object} SessionResponse
// @Failure 403 {object} map[string]string "Course is locked until enrollment"
// @Failure 404 {object} map[string]string "Session or module not found"
// @Failure 503 {object} map[string]string "Lessons could not be loaded"
// @Router /player/sessions/{sessionId}/modules/{moduleId} [post]
func (h *PlayerHandler) SelectModule(w http.ResponseWriter, r *http.Request) {
	id, resolver, ok := h.session(w, r)
	if !ok {
		return
	}
	moduleID, ok := h.urlParamID(w, r, "moduleId", "module")
	if !ok {
		return
	}

	if err := resolver.SelectModule(r.Context(), moduleID); err != nil {
		h.RespondServiceError(w, r, err, "failed to open module")
		return
	}

	h.RespondJSON(w, http.StatusOK, SessionResponse{SessionID: id, State: resolver.Snapshot()})
}

// SelectLesson handles POST /player/sessions/{sessionId}/lessons/{lessonId}
// @Summary Open a lesson of the active module
// @Tags player
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]string "Session not found or lesson not in the active module"
// @Router /player/sessions/{sessionId}/lessons/{lessonId} [post]
func (h *PlayerHandler) SelectLesson(w http.ResponseWriter, r *http.Request) {
	id, resolver, ok := h.session(w, r)
	if !ok {
		return
	}
	lessonID, ok := h.urlParamID(w, r, "lessonId", "lesson")
	if !ok {
		return
	}

	if err := resolver.SelectLesson(lessonID); err != nil {
		h.RespondServiceError(w, r, err, "failed to open lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, SessionResponse{SessionID: id, State: resolver.Snapshot()})
}

// Enroll handles POST /player/sessions/{sessionId}/enroll
// @Summary Enroll from the player
// @Description Creates the enrollment and opens the first module
// @Tags player
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Already enrolled, reload the session"
// @Failure 503 {object} map[string]string "Enrollment or lessons could not be saved or loaded"
// @Router /player/sessions/{sessionId}/enroll [post]
func (h *PlayerHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	id, resolver, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := resolver.Enroll(r.Context()); err != nil {
		h.RespondServiceError(w, r, err, "failed to enroll")
		return
	}

	h.RespondJSON(w, http.StatusOK, SessionResponse{SessionID: id, State: resolver.Snapshot()})
}

func (h *PlayerHandler) session(w http.ResponseWriter, r *http.Request) (string, *player.Resolver, bool) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return "", nil, false
	}

	id := chi.URLParam(r, "sessionId")
	resolver, err := h.sessions.Get(id, userID)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get session")
		return "", nil, false
	}
	return id, resolver, true
}
