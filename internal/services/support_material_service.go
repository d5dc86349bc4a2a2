package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/memberclass/platform/internal/models"
	"go.uber.org/zap"
)

// SupportMaterialRepository is the interface that wraps methods for Support Materials table data access
type SupportMaterialRepository interface {
	// Method GetAll retrieve all support materials, newest first.
	GetAll(ctx context.Context) ([]models.SupportMaterial, error)
	// Method GetByID retrieve a support material by its ID.
	//
	// If the material does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.SupportMaterial, error)
	// Method Create inserts a support material and sets its ID.
	Create(ctx context.Context, material *models.SupportMaterial) error
	// Method Update applies a partial update to a support material.
	Update(ctx context.Context, id int, req *models.UpdateSupportMaterialRequest) error
	// Method Delete deletes a support material.
	Delete(ctx context.Context, id int) error
}

type supportMaterialService struct {
	repo   SupportMaterialRepository
	logger *zap.Logger
}

// NewSupportMaterialService creates a new support material service
func NewSupportMaterialService(repo SupportMaterialRepository, logger *zap.Logger) *supportMaterialService {
	return &supportMaterialService{
		repo:   repo,
		logger: logger,
	}
}

// GetAll retrieves all support materials
func (s *supportMaterialService) GetAll(ctx context.Context) ([]models.SupportMaterial, error) {
	materials, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get support materials", zap.Error(err))
		return nil, fmt.Errorf("failed to get support materials: %w", err)
	}
	if materials == nil {
		materials = []models.SupportMaterial{}
	}
	return materials, nil
}

// Create creates a support material and returns its ID.
//
// The file is uploaded beforehand; the request carries its URL, name, type and size.
func (s *supportMaterialService) Create(ctx context.Context, req *models.CreateSupportMaterialRequest) (int, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return 0, newValidationError("title is required")
	}
	if strings.TrimSpace(req.FileURL) == "" || strings.TrimSpace(req.FileName) == "" {
		return 0, newValidationError("a file is required")
	}
	if req.FileSize != nil && *req.FileSize < 0 {
		return 0, newValidationError("fileSize must not be negative")
	}

	material := &models.SupportMaterial{
		Title:       title,
		Description: req.Description,
		FileURL:     req.FileURL,
		FileName:    req.FileName,
		FileType:    req.FileType,
		FileSize:    req.FileSize,
	}
	if err := s.repo.Create(ctx, material); err != nil {
		s.logger.Error("failed to create support material", zap.Error(err))
		return 0, fmt.Errorf("failed to create support material: %w", err)
	}

	return material.ID, nil
}

// Update updates a support material (partial update)
func (s *supportMaterialService) Update(ctx context.Context, id int, req *models.UpdateSupportMaterialRequest) error {
	if id <= 0 {
		return newValidationError("invalid support material id")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" && req.Description == nil && req.FileURL == "" && req.FileName == "" &&
		req.FileType == nil && req.FileSize == nil {
		return newValidationError("no fields to update")
	}
	if req.FileSize != nil && *req.FileSize < 0 {
		return newValidationError("fileSize must not be negative")
	}

	return s.repo.Update(ctx, id, req)
}

// Delete deletes a support material
func (s *supportMaterialService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return newValidationError("invalid support material id")
	}
	return s.repo.Delete(ctx, id)
}
