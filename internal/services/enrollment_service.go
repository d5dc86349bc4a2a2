package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/memberclass/platform/internal/models"
	"go.uber.org/zap"
)

// CourseLookup is the interface that wraps single course retrieval
type CourseLookup interface {
	// Method GetByID retrieve a course by its ID.
	//
	// If the course does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Course, error)
}

// EnrollmentRepository is the interface that wraps methods for Enrollments table data access
type EnrollmentRepository interface {
	// Method Exists reports whether the user is enrolled in the course.
	Exists(ctx context.Context, userID, courseID int) (bool, error)
	// Method Create inserts a new enrollment and sets its ID.
	//
	// A duplicate enrollment returns an error wrapping models.ErrConflict.
	Create(ctx context.Context, enrollment *models.Enrollment) error
}

// TaskEnqueuer schedules background jobs
type TaskEnqueuer interface {
	EnqueueEnrollmentWelcome(ctx context.Context, userID, courseID int) error
}

type enrollmentService struct {
	courseRepo     CourseLookup
	enrollmentRepo EnrollmentRepository
	enqueuer       TaskEnqueuer
	logger         *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(courseRepo CourseLookup, enrollmentRepo EnrollmentRepository, enqueuer TaskEnqueuer, logger *zap.Logger) *enrollmentService {
	return &enrollmentService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		enqueuer:       enqueuer,
		logger:         logger,
	}
}

// Enroll enrolls the user in the course and schedules the welcome e-mail.
//
// Enrollment is open: no purchase is required.
// A missing course returns an error wrapping models.ErrNotFound, an existing enrollment one wrapping models.ErrConflict.
// Failing to schedule the e-mail is logged and does not fail the enrollment.
func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID int) (*models.Enrollment, error) {
	if courseID <= 0 {
		return nil, newValidationError("invalid course id")
	}

	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	enrollment := &models.Enrollment{UserID: userID, CourseID: courseID}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if !errors.Is(err, models.ErrConflict) {
			s.logger.Error("failed to create enrollment", zap.Error(err), zap.Int("user_id", userID), zap.Int("course_id", courseID))
		}
		return nil, err
	}

	if err := s.enqueuer.EnqueueEnrollmentWelcome(ctx, userID, courseID); err != nil {
		s.logger.Warn("failed to enqueue welcome email",
			zap.Error(err),
			zap.Int("user_id", userID),
			zap.Int("course_id", courseID),
		)
	}

	s.logger.Info("User enrolled", zap.Int("user_id", userID), zap.Int("course_id", courseID))
	return enrollment, nil
}
