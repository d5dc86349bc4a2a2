package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/memberclass/platform/internal/models"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *sql.DB) *statsRepository {
	return &statsRepository{
		db: db,
	}
}

// Get counts courses, students, modules and enrollments in one round trip
func (r *statsRepository) Get(ctx context.Context) (*models.AdminStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM profiles WHERE role = ?),
			(SELECT COUNT(*) FROM modules),
			(SELECT COUNT(*) FROM enrollments)
	`

	var stats models.AdminStats
	err := r.db.QueryRowContext(ctx, query, models.RoleStudent).Scan(
		&stats.Courses,
		&stats.Students,
		&stats.Modules,
		&stats.Enrollments,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return &stats, nil
}
