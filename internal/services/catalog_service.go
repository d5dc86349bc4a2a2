package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/memberclass/platform/internal/models"
	"go.uber.org/zap"
)

// CatalogCourseRepository is the interface that wraps course retrieval for students
type CatalogCourseRepository interface {
	// Method GetAllWithEnrollment retrieve all courses, newest first, flagged with the user's enrollment.
	GetAllWithEnrollment(ctx context.Context, userID int) ([]models.CourseListItem, error)
	// Method GetEnrolled retrieve the courses the user is enrolled in, most recent enrollment first.
	GetEnrolled(ctx context.Context, userID int) ([]models.Course, error)
}

// DashboardSettingsRepository is the interface that wraps access to the single hero banner row
type DashboardSettingsRepository interface {
	// Method Get retrieve the hero banner settings.
	//
	// If the row is missing, an error wrapping models.ErrNotFound will be returned.
	Get(ctx context.Context) (*models.DashboardSettings, error)
	// Method Update applies a partial update to the hero banner settings.
	Update(ctx context.Context, req *models.UpdateDashboardSettingsRequest) error
}

type catalogService struct {
	courseRepo   CatalogCourseRepository
	settingsRepo DashboardSettingsRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(courseRepo CatalogCourseRepository, settingsRepo DashboardSettingsRepository, logger *zap.Logger) *catalogService {
	return &catalogService{
		courseRepo:   courseRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// ListCourses retrieves all courses flagged with the user's enrollment status
func (s *catalogService) ListCourses(ctx context.Context, userID int) ([]models.CourseListItem, error) {
	courses, err := s.courseRepo.GetAllWithEnrollment(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get courses", zap.Error(err))
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	if courses == nil {
		courses = []models.CourseListItem{}
	}
	return courses, nil
}

// MyCourses retrieves the courses the user is enrolled in
func (s *catalogService) MyCourses(ctx context.Context, userID int) ([]models.Course, error) {
	courses, err := s.courseRepo.GetEnrolled(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get enrolled courses", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to get enrolled courses: %w", err)
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// Dashboard builds the student landing page: hero banner, enrolled courses and the whole catalog.
// A missing banner row yields empty settings rather than an error.
func (s *catalogService) Dashboard(ctx context.Context, userID int) (*models.DashboardResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to get dashboard settings", zap.Error(err))
			return nil, fmt.Errorf("failed to get dashboard settings: %w", err)
		}
		settings = &models.DashboardSettings{}
	}

	mine, err := s.MyCourses(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.ListCourses(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.DashboardResponse{
		Settings:  settings,
		MyCourses: mine,
		Courses:   all,
	}, nil
}
