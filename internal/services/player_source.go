package services

import (
	"context"

	"github.com/memberclass/platform/internal/models"
)

// ModuleLister is the interface that wraps module retrieval by course
type ModuleLister interface {
	// Method GetByCourseID retrieve the modules of a course ordered by order index.
	GetByCourseID(ctx context.Context, courseID int) ([]models.Module, error)
}

// LessonLister is the interface that wraps lesson retrieval by module
type LessonLister interface {
	// Method GetByModuleID retrieve the lessons of a module ordered by order index.
	GetByModuleID(ctx context.Context, moduleID int) ([]models.Lesson, error)
}

// EnrollmentChecker is the interface that wraps the enrollment existence check
type EnrollmentChecker interface {
	Exists(ctx context.Context, userID, courseID int) (bool, error)
}

// Enroller creates enrollments
type Enroller interface {
	Enroll(ctx context.Context, userID, courseID int) (*models.Enrollment, error)
}

// playerContentSource feeds the course player from the repositories
type playerContentSource struct {
	courses     CourseLookup
	modules     ModuleLister
	lessons     LessonLister
	enrollments EnrollmentChecker
	enroller    Enroller
}

// NewPlayerContentSource creates the data source used by player sessions
func NewPlayerContentSource(courses CourseLookup, modules ModuleLister, lessons LessonLister, enrollments EnrollmentChecker, enroller Enroller) *playerContentSource {
	return &playerContentSource{
		courses:     courses,
		modules:     modules,
		lessons:     lessons,
		enrollments: enrollments,
		enroller:    enroller,
	}
}

func (s *playerContentSource) FetchCourse(ctx context.Context, courseID int) (*models.Course, error) {
	return s.courses.GetByID(ctx, courseID)
}

func (s *playerContentSource) FetchModules(ctx context.Context, courseID int) ([]models.Module, error) {
	return s.modules.GetByCourseID(ctx, courseID)
}

func (s *playerContentSource) FetchLessons(ctx context.Context, moduleID int) ([]models.Lesson, error) {
	return s.lessons.GetByModuleID(ctx, moduleID)
}

func (s *playerContentSource) FetchEnrollment(ctx context.Context, userID, courseID int) (bool, error) {
	return s.enrollments.Exists(ctx, userID, courseID)
}

// CreateEnrollment goes through the enrollment service so the welcome e-mail is sent.
// A duplicate enrollment is returned as models.ErrConflict; the player reloads to pick it up.
func (s *playerContentSource) CreateEnrollment(ctx context.Context, userID, courseID int) error {
	_, err := s.enroller.Enroll(ctx, userID, courseID)
	return err
}
