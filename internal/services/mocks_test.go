package services

import (
	"context"
	"io"
	"os"

	"github.com/memberclass/platform/internal/models"
)

// mockCourseRepository is a mock implementation of the course repository interfaces
type mockCourseRepository struct {
	course        *models.Course
	courses       []models.Course
	listItems     []models.CourseListItem
	enrolled      []models.Course
	err           error
	getErr        error
	createErr     error
	updateErr     error
	deleteErr     error
	createdCourse *models.Course
	updatedReq    *models.UpdateCourseRequest
}

func (m *mockCourseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.courses, nil
}

func (m *mockCourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.course, nil
}

func (m *mockCourseRepository) GetAllWithEnrollment(ctx context.Context, userID int) ([]models.CourseListItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.listItems, nil
}

func (m *mockCourseRepository) GetEnrolled(ctx context.Context, userID int) ([]models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.enrolled, nil
}

func (m *mockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	course.ID = 1
	m.createdCourse = course
	return nil
}

func (m *mockCourseRepository) Update(ctx context.Context, id int, req *models.UpdateCourseRequest) error {
	m.updatedReq = req
	return m.updateErr
}

func (m *mockCourseRepository) Delete(ctx context.Context, id int) error {
	return m.deleteErr
}

// mockModuleRepository is a mock implementation of AdminModuleRepository
type mockModuleRepository struct {
	module        *models.Module
	modules       []models.Module
	count         int
	exists        bool
	err           error
	getErr        error
	createErr     error
	updateErr     error
	deleteErr     error
	createdModule *models.Module
	updateCalled  bool
}

func (m *mockModuleRepository) GetByID(ctx context.Context, id int) (*models.Module, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.module, nil
}

func (m *mockModuleRepository) GetByCourseID(ctx context.Context, courseID int) ([]models.Module, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.modules, nil
}

func (m *mockModuleRepository) CountByCourseID(ctx context.Context, courseID int) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.count, nil
}

func (m *mockModuleRepository) ExistsByOrderIndex(ctx context.Context, courseID, orderIndex, excludeID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.exists, nil
}

func (m *mockModuleRepository) Create(ctx context.Context, module *models.Module) error {
	if m.createErr != nil {
		return m.createErr
	}
	module.ID = 1
	m.createdModule = module
	return nil
}

func (m *mockModuleRepository) Update(ctx context.Context, id int, req *models.UpdateModuleRequest) error {
	m.updateCalled = true
	return m.updateErr
}

func (m *mockModuleRepository) Delete(ctx context.Context, id int) error {
	return m.deleteErr
}

// mockLessonRepository is a mock implementation of AdminLessonRepository
type mockLessonRepository struct {
	lesson        *models.Lesson
	lessons       []models.Lesson
	count         int
	exists        bool
	err           error
	getErr        error
	createErr     error
	updateErr     error
	deleteErr     error
	createdLesson *models.Lesson
	patch         *models.LessonPatch
}

func (m *mockLessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.lesson, nil
}

func (m *mockLessonRepository) GetByModuleID(ctx context.Context, moduleID int) ([]models.Lesson, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lessons, nil
}

func (m *mockLessonRepository) CountByModuleID(ctx context.Context, moduleID int) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.count, nil
}

func (m *mockLessonRepository) ExistsByOrderIndex(ctx context.Context, moduleID, orderIndex, excludeID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.exists, nil
}

func (m *mockLessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if m.createErr != nil {
		return m.createErr
	}
	lesson.ID = 1
	m.createdLesson = lesson
	return nil
}

func (m *mockLessonRepository) Update(ctx context.Context, id int, patch *models.LessonPatch) error {
	m.patch = patch
	return m.updateErr
}

func (m *mockLessonRepository) Delete(ctx context.Context, id int) error {
	return m.deleteErr
}

// mockEnrollmentRepository is a mock implementation of EnrollmentRepository
type mockEnrollmentRepository struct {
	exists    bool
	err       error
	createErr error
	created   *models.Enrollment
}

func (m *mockEnrollmentRepository) Exists(ctx context.Context, userID, courseID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.exists, nil
}

func (m *mockEnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	enrollment.ID = 1
	m.created = enrollment
	return nil
}

// mockEnqueuer is a mock implementation of TaskEnqueuer
type mockEnqueuer struct {
	err    error
	called int
}

func (m *mockEnqueuer) EnqueueEnrollmentWelcome(ctx context.Context, userID, courseID int) error {
	m.called++
	return m.err
}

// mockSettingsRepository is a mock implementation of DashboardSettingsRepository
type mockSettingsRepository struct {
	settings  *models.DashboardSettings
	err       error
	updateErr error
	updated   *models.UpdateDashboardSettingsRequest
}

func (m *mockSettingsRepository) Get(ctx context.Context) (*models.DashboardSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.settings, nil
}

func (m *mockSettingsRepository) Update(ctx context.Context, req *models.UpdateDashboardSettingsRequest) error {
	m.updated = req
	return m.updateErr
}

// mockSupportMaterialRepository is a mock implementation of SupportMaterialRepository
type mockSupportMaterialRepository struct {
	materials []models.SupportMaterial
	material  *models.SupportMaterial
	err       error
	created   *models.SupportMaterial
}

func (m *mockSupportMaterialRepository) GetAll(ctx context.Context) ([]models.SupportMaterial, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.materials, nil
}

func (m *mockSupportMaterialRepository) GetByID(ctx context.Context, id int) (*models.SupportMaterial, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.material, nil
}

func (m *mockSupportMaterialRepository) Create(ctx context.Context, material *models.SupportMaterial) error {
	if m.err != nil {
		return m.err
	}
	material.ID = 1
	m.created = material
	return nil
}

func (m *mockSupportMaterialRepository) Update(ctx context.Context, id int, req *models.UpdateSupportMaterialRequest) error {
	return m.err
}

func (m *mockSupportMaterialRepository) Delete(ctx context.Context, id int) error {
	return m.err
}

// mockStoredFileRepository is a mock implementation of StoredFileRepository
type mockStoredFileRepository struct {
	file      *models.StoredFile
	err       error
	createErr error
	created   *models.StoredFile
	deleted   bool
}

func (m *mockStoredFileRepository) Create(ctx context.Context, file *models.StoredFile) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = file
	return nil
}

func (m *mockStoredFileRepository) GetByID(ctx context.Context, bucket models.Bucket, id string) (*models.StoredFile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.file, nil
}

func (m *mockStoredFileRepository) DeleteByID(ctx context.Context, bucket models.Bucket, id string) error {
	m.deleted = true
	return m.err
}

// mockStorage is a mock implementation of Storage backed by a temp directory
type mockStorage struct {
	dir       string
	createErr error
	deleted   []string
}

func (m *mockStorage) Create(bucket, name string) (io.WriteCloser, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return os.Create(m.dir + "/" + name)
}

func (m *mockStorage) OpenFile(bucket, name string) (*os.File, error) {
	return os.Open(m.dir + "/" + name)
}

func (m *mockStorage) Delete(bucket, name string) error {
	m.deleted = append(m.deleted, name)
	return os.Remove(m.dir + "/" + name)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
