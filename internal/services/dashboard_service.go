package services

import (
	"context"
	"fmt"

	"github.com/memberclass/platform/internal/models"
)

type dashboardService struct {
	settingsRepo DashboardSettingsRepository
}

// NewDashboardService creates a new service for the admin hero banner settings
func NewDashboardService(settingsRepo DashboardSettingsRepository) *dashboardService {
	return &dashboardService{settingsRepo: settingsRepo}
}

// GetSettings retrieves the hero banner settings
func (s *dashboardService) GetSettings(ctx context.Context) (*models.DashboardSettings, error) {
	return s.settingsRepo.Get(ctx)
}

// UpdateSettings applies a partial update and returns the stored settings
func (s *dashboardService) UpdateSettings(ctx context.Context, req *models.UpdateDashboardSettingsRequest) (*models.DashboardSettings, error) {
	if req.HeroImageURL == nil && req.HeroTitle == nil && req.HeroParagraph1 == nil &&
		req.HeroParagraph2 == nil && req.HeroParagraph3 == nil && req.HeroCTA == nil {
		return nil, newValidationError("no fields to update")
	}

	if err := s.settingsRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to update dashboard settings: %w", err)
	}

	return s.settingsRepo.Get(ctx)
}
