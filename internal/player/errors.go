package player

import (
	"errors"
	"fmt"

	"github.com/memberclass/platform/internal/models"
)

var (
	// ErrNotLoaded is returned by operations that need a course before Load succeeded
	ErrNotLoaded = errors.New("no course loaded")
	// ErrLocked is returned when lesson content is requested without an enrollment
	ErrLocked = errors.New("course is locked until enrollment")
	// ErrModuleNotInCourse is returned for module ids outside the loaded course
	ErrModuleNotInCourse = errors.New("module does not belong to the course")
	// ErrLessonNotInModule is returned for lesson ids outside the active module's list
	ErrLessonNotInModule = errors.New("lesson is not in the active module")
	// ErrStateReplaced is returned when a reload replaced the state during an operation
	ErrStateReplaced = errors.New("course was reloaded during the operation")
)

// NotFoundError reports that the requested course does not exist
type NotFoundError struct {
	CourseID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("course %d not found", e.CourseID)
}

// Is lets callers match with errors.Is(err, models.ErrNotFound)
func (e *NotFoundError) Is(target error) bool {
	return target == models.ErrNotFound
}

// LoadError reports a transient failure fetching course, module or lesson data.
// The resolver state is left as it was before the failed call.
type LoadError struct {
	What string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.What, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// EnrollmentError reports that the enrollment write failed; the viewer stays not enrolled
type EnrollmentError struct {
	Err error
}

func (e *EnrollmentError) Error() string {
	return fmt.Sprintf("failed to enroll: %v", e.Err)
}

func (e *EnrollmentError) Unwrap() error {
	return e.Err
}
