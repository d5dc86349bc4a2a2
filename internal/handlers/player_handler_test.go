package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/memberclass/platform/internal/models"
	"github.com/memberclass/platform/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeContentSource serves one course with two modules
type fakeContentSource struct {
	mu        sync.Mutex
	enrolled  bool
	courseErr error
	lessonErr error
	enrollErr error
}

func (f *fakeContentSource) FetchCourse(ctx context.Context, courseID int) (*models.Course, error) {
	if f.courseErr != nil {
		return nil, f.courseErr
	}
	if courseID != 1 {
		return nil, fmt.Errorf("course %w", models.ErrNotFound)
	}
	return &models.Course{ID: 1, Title: "Go basics"}, nil
}

func (f *fakeContentSource) FetchModules(ctx context.Context, courseID int) ([]models.Module, error) {
	return []models.Module{
		{ID: 12, CourseID: 1, Title: "Second", OrderIndex: 1},
		{ID: 11, CourseID: 1, Title: "First", OrderIndex: 0},
	}, nil
}

func (f *fakeContentSource) FetchLessons(ctx context.Context, moduleID int) ([]models.Lesson, error) {
	if f.lessonErr != nil {
		return nil, f.lessonErr
	}
	videoID := "dQw4w9WgXcQ"
	return []models.Lesson{
		{ID: moduleID*10 + 2, ModuleID: moduleID, Title: "Two", OrderIndex: 1},
		{ID: moduleID*10 + 1, ModuleID: moduleID, Title: "One", OrderIndex: 0, VideoID: &videoID},
	}, nil
}

func (f *fakeContentSource) FetchEnrollment(ctx context.Context, userID, courseID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enrolled, nil
}

func (f *fakeContentSource) CreateEnrollment(ctx context.Context, userID, courseID int) error {
	if f.enrollErr != nil {
		return f.enrollErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrolled = true
	return nil
}

func setupPlayerRouter(source *fakeContentSource) chi.Router {
	sessions := player.NewSessionManager(source, time.Minute, zap.NewNop())
	h := NewPlayerHandler(sessions, zap.NewNop())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func openSession(t *testing.T, r chi.Router, userID int) SessionResponse {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodPost, "/player/sessions/", CreateSessionRequest{CourseID: 1}, userID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[SessionResponse](t, w)
}

func TestPlayerHandler_CreateSession(t *testing.T) {
	tests := []struct {
		name           string
		source         *fakeContentSource
		body           any
		userID         int
		expectedStatus int
	}{
		{name: "enrolled viewer", source: &fakeContentSource{enrolled: true}, body: CreateSessionRequest{CourseID: 1}, userID: 5, expectedStatus: http.StatusCreated},
		{name: "unknown course", source: &fakeContentSource{}, body: CreateSessionRequest{CourseID: 2}, userID: 5, expectedStatus: http.StatusNotFound},
		{name: "missing course id", source: &fakeContentSource{}, body: CreateSessionRequest{}, userID: 5, expectedStatus: http.StatusBadRequest},
		{name: "malformed body", source: &fakeContentSource{}, body: "{", userID: 5, expectedStatus: http.StatusBadRequest},
		{name: "unauthenticated", source: &fakeContentSource{}, body: CreateSessionRequest{CourseID: 1}, userID: 0, expectedStatus: http.StatusUnauthorized},
		{name: "course fetch failure", source: &fakeContentSource{courseErr: errors.New("timeout")}, body: CreateSessionRequest{CourseID: 1}, userID: 5, expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupPlayerRouter(tt.source)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, newRequest(t, http.MethodPost, "/player/sessions/", tt.body, tt.userID))

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusCreated {
				resp := decodeBody[SessionResponse](t, w)
				assert.NotEmpty(t, resp.SessionID)
				assert.True(t, resp.State.Enrolled)
				require.NotNil(t, resp.State.ActiveModuleID)
				assert.Equal(t, 11, *resp.State.ActiveModuleID)
				require.NotNil(t, resp.State.ActiveLesson)
				assert.Equal(t, 111, resp.State.ActiveLesson.ID)
				assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", resp.State.EmbedURL)
			}
		})
	}
}

func TestPlayerHandler_LockedCourseThenEnroll(t *testing.T) {
	r := setupPlayerRouter(&fakeContentSource{})
	session := openSession(t, r, 5)
	assert.False(t, session.State.Enrolled)
	assert.Nil(t, session.State.ActiveModuleID)
	assert.Len(t, session.State.Modules, 2)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodPost, "/player/sessions/"+session.SessionID+"/modules/11", nil, 5))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodPost, "/player/sessions/"+session.SessionID+"/enroll", nil, 5))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[SessionResponse](t, w)
	assert.True(t, resp.State.Enrolled)
	require.NotNil(t, resp.State.ActiveModuleID)
	assert.Equal(t, 11, *resp.State.ActiveModuleID)
	require.NotNil(t, resp.State.ActiveLesson)
	assert.Equal(t, 111, resp.State.ActiveLesson.ID)
}

func TestPlayerHandler_EnrollFailure(t *testing.T) {
	r := setupPlayerRouter(&fakeContentSource{enrollErr: errors.New("db down")})
	session := openSession(t, r, 5)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodPost, "/player/sessions/"+session.SessionID+"/enroll", nil, 5))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, "/player/sessions/"+session.SessionID, nil, 5))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeBody[SessionResponse](t, w).State.Enrolled)
}

func TestPlayerHandler_EnrollDuplicate(t *testing.T) {
	r := setupPlayerRouter(&fakeContentSource{enrollErr: fmt.Errorf("enrollment %w", models.ErrConflict)})
	session := openSession(t, r, 5)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodPost, "/player/sessions/"+session.SessionID+"/enroll", nil, 5))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, "/player/sessions/"+session.SessionID, nil, 5))
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeBody[SessionResponse](t, w).State
	assert.False(t, state.Enrolled)
	assert.Nil(t, state.ActiveModuleID)
}

func TestPlayerHandler_Navigation(t *testing.T) {
	r := setupPlayerRouter(&fakeContentSource{enrolled: true})
	session := openSession(t, r, 5)
	base := "/player/sessions/" + session.SessionID

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedModule int
		expectedLesson int
	}{
		{name: "select second lesson", path: base + "/lessons/112", expectedStatus: http.StatusOK, expectedModule: 11, expectedLesson: 112},
		{name: "lesson outside active module", path: base + "/lessons/121", expectedStatus: http.StatusNotFound},
		{name: "select second module", path: base + "/modules/12", expectedStatus: http.StatusOK, expectedModule: 12, expectedLesson: 121},
		{name: "module outside course", path: base + "/modules/99", expectedStatus: http.StatusNotFound},
		{name: "invalid module id", path: base + "/modules/x", expectedStatus: http.StatusBadRequest},
		{name: "back to cached module", path: base + "/modules/11", expectedStatus: http.StatusOK, expectedModule: 11, expectedLesson: 111},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, newRequest(t, http.MethodPost, tt.path, nil, 5))

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusOK {
				resp := decodeBody[SessionResponse](t, w)
				require.NotNil(t, resp.State.ActiveModuleID)
				assert.Equal(t, tt.expectedModule, *resp.State.ActiveModuleID)
				require.NotNil(t, resp.State.ActiveLesson)
				assert.Equal(t, tt.expectedLesson, resp.State.ActiveLesson.ID)
			}
		})
	}
}

func TestPlayerHandler_SessionOwnership(t *testing.T) {
	r := setupPlayerRouter(&fakeContentSource{enrolled: true})
	session := openSession(t, r, 5)
	path := "/player/sessions/" + session.SessionID

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, path, nil, 6))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodDelete, path, nil, 6))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodDelete, path, nil, 5))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, path, nil, 5))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
