package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/memberclass/platform/internal/models"
	"go.uber.org/zap"
)

// AdminCourseRepository is the interface that wraps methods for Courses table data access
type AdminCourseRepository interface {
	// Method GetAll retrieve all courses, newest first.
	GetAll(ctx context.Context) ([]models.Course, error)
	// Method GetByID retrieve a course by its ID.
	//
	// If the course does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// Method Create inserts a course and sets its ID.
	Create(ctx context.Context, course *models.Course) error
	// Method Update applies a partial update to a course.
	//
	// If the course does not exist, an error wrapping models.ErrNotFound will be returned.
	Update(ctx context.Context, id int, req *models.UpdateCourseRequest) error
	// Method Delete deletes a course together with its modules, lessons and enrollments.
	//
	// If the course does not exist, an error wrapping models.ErrNotFound will be returned.
	Delete(ctx context.Context, id int) error
}

type adminCourseService struct {
	repo   AdminCourseRepository
	logger *zap.Logger
}

// NewAdminCourseService creates a new admin course service
func NewAdminCourseService(repo AdminCourseRepository, logger *zap.Logger) *adminCourseService {
	return &adminCourseService{
		repo:   repo,
		logger: logger,
	}
}

// GetAll retrieves all courses for the admin list
func (s *adminCourseService) GetAll(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get courses", zap.Error(err))
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// GetByID retrieves a course by ID
func (s *adminCourseService) GetByID(ctx context.Context, id int) (*models.Course, error) {
	if id <= 0 {
		return nil, newValidationError("invalid course id")
	}
	return s.repo.GetByID(ctx, id)
}

// Create creates a new course and returns its ID
func (s *adminCourseService) Create(ctx context.Context, req *models.CreateCourseRequest) (int, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return 0, newValidationError("title is required")
	}

	course := &models.Course{
		Title:        title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		s.logger.Error("failed to create course", zap.Error(err))
		return 0, fmt.Errorf("failed to create course: %w", err)
	}

	return course.ID, nil
}

// Update updates a course (partial update)
func (s *adminCourseService) Update(ctx context.Context, id int, req *models.UpdateCourseRequest) error {
	if id <= 0 {
		return newValidationError("invalid course id")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" && req.Description == nil && req.ThumbnailURL == nil {
		return newValidationError("no fields to update")
	}

	return s.repo.Update(ctx, id, req)
}

// Delete deletes a course
func (s *adminCourseService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return newValidationError("invalid course id")
	}
	return s.repo.Delete(ctx, id)
}
