package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"

	"github.com/hibiken/asynq"
	"github.com/memberclass/platform/internal/models"
	"go.uber.org/zap"
)

// ProfileRepository defines the profile lookup used by the welcome e-mail
type ProfileRepository interface {
	// GetByID retrieves a profile by its ID
	//
	// If the profile does not exist, an error wrapping models.ErrNotFound is returned.
	GetByID(ctx context.Context, id int) (*models.Profile, error)
}

// CourseRepository defines the course lookup used by the welcome e-mail
type CourseRepository interface {
	// GetByID retrieves a course by its ID
	//
	// If the course does not exist, an error wrapping models.ErrNotFound is returned.
	GetByID(ctx context.Context, id int) (*models.Course, error)
}

// Mailer sends e-mails
type Mailer interface {
	Send(to, subject, body string) error
}

// WelcomeHandler processes TypeEnrollmentWelcome tasks
type WelcomeHandler struct {
	logger   *zap.Logger
	profiles ProfileRepository
	courses  CourseRepository
	mailer   Mailer
}

// NewWelcomeHandler creates a new welcome e-mail handler
func NewWelcomeHandler(logger *zap.Logger, profiles ProfileRepository, courses CourseRepository, mailer Mailer) *WelcomeHandler {
	return &WelcomeHandler{
		logger:   logger,
		profiles: profiles,
		courses:  courses,
		mailer:   mailer,
	}
}

// ProcessTask implements asynq.Handler
func (h *WelcomeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload EnrollmentWelcomePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to parse payload: %v: %w", err, asynq.SkipRetry)
	}

	profile, err := h.profiles.GetByID(ctx, payload.UserID)
	if err != nil {
		// the account was removed before the job ran
		if errors.Is(err, models.ErrNotFound) {
			h.logger.Warn("welcome email skipped, profile not found", zap.Int("user_id", payload.UserID))
			return nil
		}
		return err
	}

	course, err := h.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.logger.Warn("welcome email skipped, course not found", zap.Int("course_id", payload.CourseID))
			return nil
		}
		return err
	}

	subject, body := welcomeEmail(profile, course)
	if err := h.mailer.Send(profile.Email, subject, body); err != nil {
		return err
	}

	h.logger.Info("Welcome email sent",
		zap.Int("user_id", payload.UserID),
		zap.Int("course_id", payload.CourseID),
	)
	return nil
}

func welcomeEmail(profile *models.Profile, course *models.Course) (string, string) {
	name := profile.Email
	if profile.FullName != nil && *profile.FullName != "" {
		name = *profile.FullName
	}
	subject := fmt.Sprintf("Welcome to %s", course.Title)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>You are now enrolled in <strong>%s</strong>. All of its lessons are unlocked.</p>",
		html.EscapeString(name),
		html.EscapeString(course.Title),
	)
	return subject, body
}
