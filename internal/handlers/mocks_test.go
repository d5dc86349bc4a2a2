package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	authmw "github.com/memberclass/platform/internal/auth/middleware"
	"github.com/memberclass/platform/internal/models"
	"github.com/stretchr/testify/require"
)

// newRequest builds a request for an authenticated student unless userID is 0
func newRequest(t *testing.T, method, path string, body any, userID int) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != 0 {
		req = req.WithContext(authmw.WithUser(req.Context(), userID, int(models.RoleStudent)))
	}
	return req
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// mockCatalogService is a mock implementation of CatalogService
type mockCatalogService struct {
	listItems []models.CourseListItem
	mine      []models.Course
	dashboard *models.DashboardResponse
	err       error
	userID    int
}

func (m *mockCatalogService) ListCourses(ctx context.Context, userID int) ([]models.CourseListItem, error) {
	m.userID = userID
	return m.listItems, m.err
}

func (m *mockCatalogService) MyCourses(ctx context.Context, userID int) ([]models.Course, error) {
	m.userID = userID
	return m.mine, m.err
}

func (m *mockCatalogService) Dashboard(ctx context.Context, userID int) (*models.DashboardResponse, error) {
	m.userID = userID
	return m.dashboard, m.err
}

// mockEnrollmentService is a mock implementation of EnrollmentService
type mockEnrollmentService struct {
	err      error
	userID   int
	courseID int
}

func (m *mockEnrollmentService) Enroll(ctx context.Context, userID, courseID int) (*models.Enrollment, error) {
	m.userID, m.courseID = userID, courseID
	if m.err != nil {
		return nil, m.err
	}
	return &models.Enrollment{ID: 7, UserID: userID, CourseID: courseID}, nil
}

// mockSupportMaterialService is a mock implementation of SupportMaterialService
type mockSupportMaterialService struct {
	materials  []models.SupportMaterial
	err        error
	createdReq *models.CreateSupportMaterialRequest
}

func (m *mockSupportMaterialService) GetAll(ctx context.Context) ([]models.SupportMaterial, error) {
	return m.materials, m.err
}

func (m *mockSupportMaterialService) Create(ctx context.Context, req *models.CreateSupportMaterialRequest) (int, error) {
	m.createdReq = req
	if m.err != nil {
		return 0, m.err
	}
	return 3, nil
}

func (m *mockSupportMaterialService) Update(ctx context.Context, id int, req *models.UpdateSupportMaterialRequest) error {
	return m.err
}

func (m *mockSupportMaterialService) Delete(ctx context.Context, id int) error {
	return m.err
}

// mockCourseService is a mock implementation of AdminCourseService
type mockCourseService struct {
	course     *models.Course
	courses    []models.Course
	err        error
	createdReq *models.CreateCourseRequest
	updatedID  int
	deletedID  int
}

func (m *mockCourseService) GetAll(ctx context.Context) ([]models.Course, error) {
	return m.courses, m.err
}

func (m *mockCourseService) GetByID(ctx context.Context, id int) (*models.Course, error) {
	return m.course, m.err
}

func (m *mockCourseService) Create(ctx context.Context, req *models.CreateCourseRequest) (int, error) {
	m.createdReq = req
	if m.err != nil {
		return 0, m.err
	}
	return 42, nil
}

func (m *mockCourseService) Update(ctx context.Context, id int, req *models.UpdateCourseRequest) error {
	m.updatedID = id
	return m.err
}

func (m *mockCourseService) Delete(ctx context.Context, id int) error {
	m.deletedID = id
	return m.err
}

// mockModuleService is a mock implementation of AdminModuleService
type mockModuleService struct {
	modules  []models.Module
	err      error
	courseID int
}

func (m *mockModuleService) GetByCourseID(ctx context.Context, courseID int) ([]models.Module, error) {
	m.courseID = courseID
	return m.modules, m.err
}

func (m *mockModuleService) Create(ctx context.Context, req *models.CreateModuleRequest) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return 11, nil
}

func (m *mockModuleService) Update(ctx context.Context, id int, req *models.UpdateModuleRequest) error {
	return m.err
}

func (m *mockModuleService) Delete(ctx context.Context, id int) error {
	return m.err
}

// mockLessonService is a mock implementation of AdminLessonService
type mockLessonService struct {
	lessons []models.Lesson
	err     error
}

func (m *mockLessonService) GetByModuleID(ctx context.Context, moduleID int) ([]models.Lesson, error) {
	return m.lessons, m.err
}

func (m *mockLessonService) Create(ctx context.Context, req *models.CreateLessonRequest) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return 101, nil
}

func (m *mockLessonService) Update(ctx context.Context, id int, req *models.UpdateLessonRequest) error {
	return m.err
}

func (m *mockLessonService) Delete(ctx context.Context, id int) error {
	return m.err
}

// mockSettingsService is a mock implementation of DashboardSettingsService
type mockSettingsService struct {
	settings *models.DashboardSettings
	err      error
}

func (m *mockSettingsService) GetSettings(ctx context.Context) (*models.DashboardSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) UpdateSettings(ctx context.Context, req *models.UpdateDashboardSettingsRequest) (*models.DashboardSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.DashboardSettings{HeroTitle: req.HeroTitle}, nil
}

// mockAdminService is a mock implementation of AdminService
type mockAdminService struct {
	students []models.Profile
	stats    *models.AdminStats
	err      error
}

func (m *mockAdminService) GetStudents(ctx context.Context) ([]models.Profile, error) {
	return m.students, m.err
}

func (m *mockAdminService) GetStats(ctx context.Context) (*models.AdminStats, error) {
	return m.stats, m.err
}

// mockMediaService is a mock implementation of UploadService and FileService
type mockMediaService struct {
	err          error
	uploaded     []byte
	contentType  string
	originalName string
	meta         *models.StoredFile
	path         string
}

func (m *mockMediaService) UploadFile(ctx context.Context, bucket models.Bucket, reader io.Reader, contentType, originalName string) (*models.UploadResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	m.uploaded, m.contentType, m.originalName = data, contentType, originalName
	return &models.UploadResult{
		URL:      "http://localhost:8080/api/v1/files/" + string(bucket) + "/abc.pdf",
		FileName: "abc.pdf",
		FileType: contentType,
		FileSize: int64(len(data)),
	}, nil
}

func (m *mockMediaService) DeleteFile(ctx context.Context, bucket models.Bucket, filename string) error {
	return m.err
}

func (m *mockMediaService) IsValidBucket(bucket string) bool {
	switch models.Bucket(bucket) {
	case models.BucketSupportMaterials, models.BucketCourseThumbnails, models.BucketHeroImages:
		return true
	}
	return false
}

func (m *mockMediaService) GetFile(ctx context.Context, bucket models.Bucket, filename string) (*models.StoredFile, *os.File, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	f, err := os.Open(m.path)
	if err != nil {
		return nil, nil, err
	}
	return m.meta, f, nil
}

// mockPurchaseService is a mock implementation of PurchaseService
type mockPurchaseService struct {
	approved bool
	err      error
}

func (m *mockPurchaseService) Verify(ctx context.Context, email string) (*models.PurchaseVerification, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.PurchaseVerification{Email: email, Approved: m.approved}, nil
}
