package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/memberclass/platform/internal/models"
)

// AdminModuleRepository is the interface that wraps methods for Modules table data access
type AdminModuleRepository interface {
	// Method GetByID retrieve a module by its ID.
	//
	// If the module does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Module, error)
	// Method GetByCourseID retrieve the modules of a course ordered by order index.
	GetByCourseID(ctx context.Context, courseID int) ([]models.Module, error)
	// Method CountByCourseID returns how many modules the course has.
	CountByCourseID(ctx context.Context, courseID int) (int, error)
	// Method ExistsByOrderIndex checks whether another module of the course uses the order index.
	//
	// "excludeID" skips the module being updated; 0 checks all modules.
	ExistsByOrderIndex(ctx context.Context, courseID, orderIndex, excludeID int) (bool, error)
	// Method Create inserts a module and sets its ID.
	Create(ctx context.Context, module *models.Module) error
	// Method Update applies a partial update to a module.
	Update(ctx context.Context, id int, req *models.UpdateModuleRequest) error
	// Method Delete deletes a module together with its lessons.
	Delete(ctx context.Context, id int) error
}

type adminModuleService struct {
	moduleRepo AdminModuleRepository
	courseRepo CourseLookup
}

// NewAdminModuleService creates a new admin module service
func NewAdminModuleService(moduleRepo AdminModuleRepository, courseRepo CourseLookup) *adminModuleService {
	return &adminModuleService{
		moduleRepo: moduleRepo,
		courseRepo: courseRepo,
	}
}

// GetByCourseID retrieves the modules of a course in display order
func (s *adminModuleService) GetByCourseID(ctx context.Context, courseID int) ([]models.Module, error) {
	if courseID <= 0 {
		return nil, newValidationError("invalid course id")
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	modules, err := s.moduleRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get modules: %w", err)
	}
	if modules == nil {
		modules = []models.Module{}
	}
	return modules, nil
}

// Create creates a new module and returns its ID.
//
// Without an order index the module is appended after the existing ones.
func (s *adminModuleService) Create(ctx context.Context, req *models.CreateModuleRequest) (int, error) {
	if req.CourseID <= 0 {
		return 0, newValidationError("courseId is required")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return 0, newValidationError("title is required")
	}

	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return 0, newValidationError("course %d does not exist", req.CourseID)
		}
		return 0, fmt.Errorf("failed to get course: %w", err)
	}

	orderIndex, err := s.resolveOrderIndex(ctx, req.CourseID, req.OrderIndex, 0)
	if err != nil {
		return 0, err
	}

	module := &models.Module{
		CourseID:    req.CourseID,
		Title:       title,
		Description: req.Description,
		OrderIndex:  orderIndex,
	}
	if err := s.moduleRepo.Create(ctx, module); err != nil {
		return 0, fmt.Errorf("failed to create module: %w", err)
	}

	return module.ID, nil
}

// Update updates a module (partial update)
func (s *adminModuleService) Update(ctx context.Context, id int, req *models.UpdateModuleRequest) error {
	if id <= 0 {
		return newValidationError("invalid module id")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" && req.Description == nil && req.OrderIndex == nil {
		return newValidationError("no fields to update")
	}

	if req.OrderIndex != nil {
		current, err := s.moduleRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.resolveOrderIndex(ctx, current.CourseID, req.OrderIndex, id); err != nil {
			return err
		}
	}

	return s.moduleRepo.Update(ctx, id, req)
}

// Delete deletes a module
func (s *adminModuleService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return newValidationError("invalid module id")
	}
	return s.moduleRepo.Delete(ctx, id)
}

// resolveOrderIndex validates a requested order index, or picks the next free position when none is given
func (s *adminModuleService) resolveOrderIndex(ctx context.Context, courseID int, requested *int, excludeID int) (int, error) {
	if requested == nil {
		count, err := s.moduleRepo.CountByCourseID(ctx, courseID)
		if err != nil {
			return 0, fmt.Errorf("failed to count modules: %w", err)
		}
		return count, nil
	}

	if *requested < 0 {
		return 0, newValidationError("orderIndex must not be negative")
	}
	exists, err := s.moduleRepo.ExistsByOrderIndex(ctx, courseID, *requested, excludeID)
	if err != nil {
		return 0, fmt.Errorf("failed to check module order: %w", err)
	}
	if exists {
		return 0, newValidationError("a module with order index %d already exists in this course", *requested)
	}
	return *requested, nil
}
