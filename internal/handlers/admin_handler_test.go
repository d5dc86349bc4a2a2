package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/memberclass/platform/internal/models"
	"github.com/memberclass/platform/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAdminContentRouter(courses *mockCourseService, modules *mockModuleService, lessons *mockLessonService) chi.Router {
	h := NewAdminContentHandler(courses, modules, lessons, zap.NewNop())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestAdminContentHandler_Courses(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           any
		err            error
		expectedStatus int
	}{
		{name: "list", method: http.MethodGet, path: "/admin/courses/", expectedStatus: http.StatusOK},
		{name: "get", method: http.MethodGet, path: "/admin/courses/3", expectedStatus: http.StatusOK},
		{name: "get missing", method: http.MethodGet, path: "/admin/courses/3", err: fmt.Errorf("course %w", models.ErrNotFound), expectedStatus: http.StatusNotFound},
		{name: "create", method: http.MethodPost, path: "/admin/courses/", body: models.CreateCourseRequest{Title: "Go"}, expectedStatus: http.StatusCreated},
		{name: "create invalid", method: http.MethodPost, path: "/admin/courses/", body: models.CreateCourseRequest{}, err: &services.ValidationError{Message: "title is required"}, expectedStatus: http.StatusBadRequest},
		{name: "create malformed", method: http.MethodPost, path: "/admin/courses/", body: "[", expectedStatus: http.StatusBadRequest},
		{name: "update", method: http.MethodPatch, path: "/admin/courses/3", body: models.UpdateCourseRequest{}, expectedStatus: http.StatusOK},
		{name: "update invalid id", method: http.MethodPatch, path: "/admin/courses/0", body: models.UpdateCourseRequest{}, expectedStatus: http.StatusBadRequest},
		{name: "delete", method: http.MethodDelete, path: "/admin/courses/3", expectedStatus: http.StatusNoContent},
		{name: "delete failure", method: http.MethodDelete, path: "/admin/courses/3", err: errors.New("db error"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := &mockCourseService{course: &models.Course{ID: 3}, courses: []models.Course{{ID: 3}}, err: tt.err}
			r := setupAdminContentRouter(courses, &mockModuleService{}, &mockLessonService{})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, newRequest(t, tt.method, tt.path, tt.body, 1))

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, 42, decodeBody[map[string]int](t, w)["id"])
				assert.Equal(t, "Go", courses.createdReq.Title)
			}
			if tt.name == "delete" {
				assert.Equal(t, 3, courses.deletedID)
			}
		})
	}
}

func TestAdminContentHandler_ModulesAndLessons(t *testing.T) {
	modules := &mockModuleService{modules: []models.Module{{ID: 11, CourseID: 3}}}
	lessons := &mockLessonService{lessons: []models.Lesson{{ID: 101, ModuleID: 11}}}
	r := setupAdminContentRouter(&mockCourseService{}, modules, lessons)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, "/admin/courses/3/modules", nil, 1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, modules.courseID)
	assert.Len(t, decodeBody[[]models.Module](t, w), 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodPost, "/admin/modules/", models.CreateModuleRequest{CourseID: 3, Title: "Intro"}, 1))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 11, decodeBody[map[string]int](t, w)["id"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, "/admin/modules/11/lessons", nil, 1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]models.Lesson](t, w), 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodPost, "/admin/lessons/", models.CreateLessonRequest{ModuleID: 11, Title: "One"}, 1))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 101, decodeBody[map[string]int](t, w)["id"])

	lessons.err = &services.ValidationError{Message: "invalid video URL"}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodPatch, "/admin/lessons/101", map[string]string{"videoUrl": "nope"}, 1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid video URL", decodeBody[map[string]string](t, w)["error"])

	modules.err = fmt.Errorf("module %w", models.ErrNotFound)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodDelete, "/admin/modules/11", nil, 1))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func setupAdminRouter(materials *mockSupportMaterialService, settings *mockSettingsService, admin *mockAdminService, media *mockMediaService) chi.Router {
	h := NewAdminHandler(materials, settings, admin, media, zap.NewNop())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func multipartRequest(t *testing.T, path, field, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAdminHandler_Upload(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		field          string
		err            error
		expectedStatus int
	}{
		{name: "success", path: "/admin/uploads/support-materials", field: "file", expectedStatus: http.StatusCreated},
		{name: "unknown bucket", path: "/admin/uploads/avatars", field: "file", expectedStatus: http.StatusBadRequest},
		{name: "missing file", path: "/admin/uploads/support-materials", field: "", expectedStatus: http.StatusBadRequest},
		{name: "rejected type", path: "/admin/uploads/hero-images", field: "file", err: &services.ValidationError{Message: "only PNG, JPEG and WEBP images are allowed"}, expectedStatus: http.StatusBadRequest},
		{name: "storage failure", path: "/admin/uploads/support-materials", field: "file", err: errors.New("disk full"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media := &mockMediaService{err: tt.err}
			r := setupAdminRouter(&mockSupportMaterialService{}, &mockSettingsService{}, &mockAdminService{}, media)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, multipartRequest(t, tt.path, tt.field, "guide.pdf", "application/pdf", []byte("%PDF-1.4")))

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusCreated {
				result := decodeBody[models.UploadResult](t, w)
				assert.Equal(t, int64(8), result.FileSize)
				assert.Equal(t, "application/pdf", media.contentType)
				assert.Equal(t, "guide.pdf", media.originalName)
				assert.Equal(t, []byte("%PDF-1.4"), media.uploaded)
			}
		})
	}
}

func TestAdminHandler_SupportMaterials(t *testing.T) {
	materials := &mockSupportMaterialService{materials: []models.SupportMaterial{{ID: 1, Title: "Workbook"}}}
	r := setupAdminRouter(materials, &mockSettingsService{}, &mockAdminService{}, &mockMediaService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, "/admin/support-materials", nil, 1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]models.SupportMaterial](t, w), 1)

	w = httptest.NewRecorder()
	req := models.CreateSupportMaterialRequest{Title: "Cheatsheet", FileURL: "http://x/a.pdf", FileName: "a.pdf"}
	r.ServeHTTP(w, newRequest(t, http.MethodPost, "/admin/support-materials", req, 1))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 3, decodeBody[map[string]int](t, w)["id"])
	assert.Equal(t, "Cheatsheet", materials.createdReq.Title)

	materials.err = fmt.Errorf("support material %w", models.ErrNotFound)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodPatch, "/admin/support-materials/9", map[string]string{"title": "x"}, 1))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodDelete, "/admin/support-materials/9", nil, 1))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminHandler_SettingsStudentsStats(t *testing.T) {
	admin := &mockAdminService{
		students: []models.Profile{{ID: 2, Email: "student@example.com", Role: models.RoleStudent}},
		stats:    &models.AdminStats{Courses: 2, Students: 1, Modules: 4, Enrollments: 1},
	}
	r := setupAdminRouter(&mockSupportMaterialService{}, &mockSettingsService{settings: &models.DashboardSettings{}}, admin, &mockMediaService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, "/admin/dashboard-settings", nil, 1))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodPatch, "/admin/dashboard-settings", map[string]string{"heroTitle": "Hi"}, 1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hi", *decodeBody[models.DashboardSettings](t, w).HeroTitle)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, "/admin/students", nil, 1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student@example.com", decodeBody[[]models.Profile](t, w)[0].Email)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, newRequest(t, http.MethodGet, "/admin/stats", nil, 1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decodeBody[models.AdminStats](t, w).Modules)
}
