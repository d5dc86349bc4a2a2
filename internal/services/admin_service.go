package services

import (
	"context"
	"fmt"

	"github.com/memberclass/platform/internal/models"
)

// ProfileRepository is the interface that wraps profile retrieval by role
type ProfileRepository interface {
	// Method GetByRole retrieve the profiles with the given role, newest first.
	GetByRole(ctx context.Context, role models.Role) ([]models.Profile, error)
}

// StatsRepository is the interface that wraps the admin overview counters
type StatsRepository interface {
	Get(ctx context.Context) (*models.AdminStats, error)
}

type adminService struct {
	profileRepo ProfileRepository
	statsRepo   StatsRepository
}

// NewAdminService creates a new admin overview service
func NewAdminService(profileRepo ProfileRepository, statsRepo StatsRepository) *adminService {
	return &adminService{
		profileRepo: profileRepo,
		statsRepo:   statsRepo,
	}
}

// GetStudents retrieves all student profiles
func (s *adminService) GetStudents(ctx context.Context) ([]models.Profile, error) {
	students, err := s.profileRepo.GetByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to get students: %w", err)
	}
	if students == nil {
		students = []models.Profile{}
	}
	return students, nil
}

// GetStats retrieves the platform counters
func (s *adminService) GetStats(ctx context.Context) (*models.AdminStats, error) {
	stats, err := s.statsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}
