package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/memberclass/platform/internal/models"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *profileRepository {
	return &profileRepository{
		db: db,
	}
}

// GetByID retrieves a profile by its ID
func (r *profileRepository) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	query := `
		SELECT id, email, full_name, role, created_at
		FROM profiles
		WHERE id = ?
		LIMIT 1
	`

	var profile models.Profile
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.Role,
		&profile.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by id: %w", err)
	}

	return &profile, nil
}

// GetByRole retrieves all profiles with the given role, newest first
func (r *profileRepository) GetByRole(ctx context.Context, role models.Role) ([]models.Profile, error) {
	query := `
		SELECT id, email, full_name, role, created_at
		FROM profiles
		WHERE role = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		var profile models.Profile
		err := rows.Scan(
			&profile.ID,
			&profile.Email,
			&profile.FullName,
			&profile.Role,
			&profile.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return profiles, nil
}
