package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/memberclass/platform/internal/models"
	"github.com/memberclass/platform/internal/video"
)

// AdminLessonRepository is the interface that wraps methods for Lessons table data access
type AdminLessonRepository interface {
	// Method GetByID retrieve a lesson by its ID.
	//
	// If the lesson does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Lesson, error)
	// Method GetByModuleID retrieve the lessons of a module ordered by order index.
	GetByModuleID(ctx context.Context, moduleID int) ([]models.Lesson, error)
	// Method CountByModuleID returns how many lessons the module has.
	CountByModuleID(ctx context.Context, moduleID int) (int, error)
	// Method ExistsByOrderIndex checks whether another lesson of the module uses the order index.
	ExistsByOrderIndex(ctx context.Context, moduleID, orderIndex, excludeID int) (bool, error)
	// Method Create inserts a lesson and sets its ID.
	Create(ctx context.Context, lesson *models.Lesson) error
	// Method Update applies a validated partial update to a lesson.
	Update(ctx context.Context, id int, patch *models.LessonPatch) error
	// Method Delete deletes a lesson.
	Delete(ctx context.Context, id int) error
}

// ModuleLookup is the interface that wraps single module retrieval
type ModuleLookup interface {
	GetByID(ctx context.Context, id int) (*models.Module, error)
}

type adminLessonService struct {
	lessonRepo AdminLessonRepository
	moduleRepo ModuleLookup
}

// NewAdminLessonService creates a new admin lesson service
func NewAdminLessonService(lessonRepo AdminLessonRepository, moduleRepo ModuleLookup) *adminLessonService {
	return &adminLessonService{
		lessonRepo: lessonRepo,
		moduleRepo: moduleRepo,
	}
}

// GetByModuleID retrieves the lessons of a module in display order
func (s *adminLessonService) GetByModuleID(ctx context.Context, moduleID int) ([]models.Lesson, error) {
	if moduleID <= 0 {
		return nil, newValidationError("invalid module id")
	}
	if _, err := s.moduleRepo.GetByID(ctx, moduleID); err != nil {
		return nil, err
	}

	lessons, err := s.lessonRepo.GetByModuleID(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lessons: %w", err)
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	return lessons, nil
}

// Create creates a new lesson and returns its ID.
//
// "VideoURL" may be any supported YouTube link or a bare video id; only the id is stored.
func (s *adminLessonService) Create(ctx context.Context, req *models.CreateLessonRequest) (int, error) {
	if req.ModuleID <= 0 {
		return 0, newValidationError("moduleId is required")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return 0, newValidationError("title is required")
	}
	if req.DurationMinutes != nil && *req.DurationMinutes < 0 {
		return 0, newValidationError("durationMinutes must not be negative")
	}

	videoID, err := parseVideo(req.VideoURL)
	if err != nil {
		return 0, err
	}
	// an empty link on create simply means no video
	if videoID != nil && *videoID == "" {
		videoID = nil
	}

	if _, err := s.moduleRepo.GetByID(ctx, req.ModuleID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return 0, newValidationError("module %d does not exist", req.ModuleID)
		}
		return 0, fmt.Errorf("failed to get module: %w", err)
	}

	orderIndex, err := s.resolveOrderIndex(ctx, req.ModuleID, req.OrderIndex, 0)
	if err != nil {
		return 0, err
	}

	lesson := &models.Lesson{
		ModuleID:        req.ModuleID,
		Title:           title,
		Content:         req.Content,
		VideoID:         videoID,
		OrderIndex:      orderIndex,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return 0, fmt.Errorf("failed to create lesson: %w", err)
	}

	return lesson.ID, nil
}

// Update updates a lesson (partial update). An empty "VideoURL" removes the video.
func (s *adminLessonService) Update(ctx context.Context, id int, req *models.UpdateLessonRequest) error {
	if id <= 0 {
		return newValidationError("invalid lesson id")
	}

	patch := &models.LessonPatch{
		Title:           strings.TrimSpace(req.Title),
		Content:         req.Content,
		OrderIndex:      req.OrderIndex,
		DurationMinutes: req.DurationMinutes,
	}
	if patch.Title == "" && patch.Content == nil && req.VideoURL == nil && patch.OrderIndex == nil && patch.DurationMinutes == nil {
		return newValidationError("no fields to update")
	}
	if patch.DurationMinutes != nil && *patch.DurationMinutes < 0 {
		return newValidationError("durationMinutes must not be negative")
	}

	videoID, err := parseVideo(req.VideoURL)
	if err != nil {
		return err
	}
	patch.VideoID = videoID

	if patch.OrderIndex != nil {
		current, err := s.lessonRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.resolveOrderIndex(ctx, current.ModuleID, patch.OrderIndex, id); err != nil {
			return err
		}
	}

	return s.lessonRepo.Update(ctx, id, patch)
}

// Delete deletes a lesson
func (s *adminLessonService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return newValidationError("invalid lesson id")
	}
	return s.lessonRepo.Delete(ctx, id)
}

func (s *adminLessonService) resolveOrderIndex(ctx context.Context, moduleID int, requested *int, excludeID int) (int, error) {
	if requested == nil {
		count, err := s.lessonRepo.CountByModuleID(ctx, moduleID)
		if err != nil {
			return 0, fmt.Errorf("failed to count lessons: %w", err)
		}
		return count, nil
	}

	if *requested < 0 {
		return 0, newValidationError("orderIndex must not be negative")
	}
	exists, err := s.lessonRepo.ExistsByOrderIndex(ctx, moduleID, *requested, excludeID)
	if err != nil {
		return 0, fmt.Errorf("failed to check lesson order: %w", err)
	}
	if exists {
		return 0, newValidationError("a lesson with order index %d already exists in this module", *requested)
	}
	return *requested, nil
}

// parseVideo turns a pasted link into a video id.
// nil stays nil and a blank link becomes an empty id.
func parseVideo(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		empty := ""
		return &empty, nil
	}
	id, err := video.ExtractID(trimmed)
	if err != nil {
		return nil, newValidationError("invalid YouTube URL: %s", trimmed)
	}
	return &id, nil
}
