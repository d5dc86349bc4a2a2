package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/memberclass/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupCatalogRouter(catalog *mockCatalogService, enrollments *mockEnrollmentService, materials *mockSupportMaterialService) chi.Router {
	h := NewCatalogHandler(catalog, enrollments, materials, zap.NewNop())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestCatalogHandler_ListCourses(t *testing.T) {
	tests := []struct {
		name           string
		userID         int
		catalog        *mockCatalogService
		expectedStatus int
		expectedCount  int
	}{
		{
			name:   "success",
			userID: 9,
			catalog: &mockCatalogService{listItems: []models.CourseListItem{
				{Course: models.Course{ID: 2, Title: "Newer"}, Enrolled: true},
				{Course: models.Course{ID: 1, Title: "Older"}},
			}},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "unauthenticated",
			userID:         0,
			catalog:        &mockCatalogService{},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "service error",
			userID:         9,
			catalog:        &mockCatalogService{err: errors.New("db error")},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupCatalogRouter(tt.catalog, &mockEnrollmentService{}, &mockSupportMaterialService{})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, newRequest(t, http.MethodGet, "/courses/", nil, tt.userID))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				items := decodeBody[[]models.CourseListItem](t, w)
				assert.Len(t, items, tt.expectedCount)
				assert.True(t, items[0].Enrolled)
				assert.Equal(t, tt.userID, tt.catalog.userID)
			}
		})
	}
}

func TestCatalogHandler_Enroll(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		err            error
		expectedStatus int
	}{
		{name: "success", path: "/courses/4/enroll", expectedStatus: http.StatusCreated},
		{name: "invalid id", path: "/courses/abc/enroll", expectedStatus: http.StatusBadRequest},
		{name: "course not found", path: "/courses/4/enroll", err: fmt.Errorf("course %w", models.ErrNotFound), expectedStatus: http.StatusNotFound},
		{name: "already enrolled", path: "/courses/4/enroll", err: fmt.Errorf("enrollment %w", models.ErrConflict), expectedStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enrollments := &mockEnrollmentService{err: tt.err}
			r := setupCatalogRouter(&mockCatalogService{}, enrollments, &mockSupportMaterialService{})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, newRequest(t, http.MethodPost, tt.path, nil, 9))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				enrollment := decodeBody[models.Enrollment](t, w)
				assert.Equal(t, 9, enrollment.UserID)
				assert.Equal(t, 4, enrollment.CourseID)
			}
		})
	}
}

func TestCatalogHandler_DashboardAndMaterials(t *testing.T) {
	title := "Welcome"
	catalog := &mockCatalogService{
		dashboard: &models.DashboardResponse{
			Settings:  &models.DashboardSettings{HeroTitle: &title},
			MyCourses: []models.Course{{ID: 1}},
			Courses:   []models.CourseListItem{{Course: models.Course{ID: 1}, Enrolled: true}},
		},
		mine: []models.Course{{ID: 1}},
	}
	materials := &mockSupportMaterialService{materials: []models.SupportMaterial{{ID: 1, Title: "Workbook"}}}
	r := setupCatalogRouter(catalog, &mockEnrollmentService{}, materials)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, "/dashboard", nil, 3))
	assert.Equal(t, http.StatusOK, w.Code)
	dashboard := decodeBody[models.DashboardResponse](t, w)
	assert.Equal(t, "Welcome", *dashboard.Settings.HeroTitle)
	assert.Len(t, dashboard.Courses, 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, "/courses/mine", nil, 3))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]models.Course](t, w), 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, "/support-materials", nil, 3))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Workbook", decodeBody[[]models.SupportMaterial](t, w)[0].Title)
}
