// Package tasks defines background jobs processed by the worker through asynq
package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TypeEnrollmentWelcome sends the welcome e-mail after a user enrolls in a course
	TypeEnrollmentWelcome = "enrollment:welcome"

	// QueueNotifications is the asynq queue used for e-mail jobs
	QueueNotifications = "notifications"

	maxRetry = 5
)

// EnrollmentWelcomePayload is the payload of TypeEnrollmentWelcome tasks
type EnrollmentWelcomePayload struct {
	UserID   int `json:"userId"`
	CourseID int `json:"courseId"`
}

// NewEnrollmentWelcomeTask builds a welcome e-mail task for the given enrollment
func NewEnrollmentWelcomeTask(userID, courseID int) (*asynq.Task, error) {
	payload, err := json.Marshal(EnrollmentWelcomePayload{UserID: userID, CourseID: courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeEnrollmentWelcome, payload, asynq.Queue(QueueNotifications), asynq.MaxRetry(maxRetry)), nil
}

// TaskClient is the part of *asynq.Client used to enqueue tasks
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer puts platform jobs on the queue
type Enqueuer struct {
	client TaskClient
}

// NewEnqueuer creates a new enqueuer over an asynq client
func NewEnqueuer(client TaskClient) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueEnrollmentWelcome schedules the welcome e-mail for a new enrollment
func (e *Enqueuer) EnqueueEnrollmentWelcome(ctx context.Context, userID, courseID int) error {
	task, err := NewEnrollmentWelcomeTask(userID, courseID)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TypeEnrollmentWelcome, err)
	}
	return nil
}
