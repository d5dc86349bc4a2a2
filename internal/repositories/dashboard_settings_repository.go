package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/memberclass/platform/internal/models"
)

// dashboardSettingsID is the primary key of the single settings row seeded by migrations
const dashboardSettingsID = 1

type dashboardSettingsRepository struct {
	db *sql.DB
}

// NewDashboardSettingsRepository creates a new dashboard settings repository
func NewDashboardSettingsRepository(db *sql.DB) *dashboardSettingsRepository {
	return &dashboardSettingsRepository{
		db: db,
	}
}

// Get retrieves the dashboard hero banner settings
func (r *dashboardSettingsRepository) Get(ctx context.Context) (*models.DashboardSettings, error) {
	query := `
		SELECT hero_image_url, hero_title, hero_paragraph1, hero_paragraph2, hero_paragraph3, hero_cta, updated_at
		FROM dashboard_settings
		WHERE id = ?
		LIMIT 1
	`

	var s models.DashboardSettings
	err := r.db.QueryRowContext(ctx, query, dashboardSettingsID).Scan(
		&s.HeroImageURL,
		&s.HeroTitle,
		&s.HeroParagraph1,
		&s.HeroParagraph2,
		&s.HeroParagraph3,
		&s.HeroCTA,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dashboard settings %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard settings: %w", err)
	}

	return &s, nil
}

// Update writes the non-nil fields of req; empty strings become NULL
func (r *dashboardSettingsRepository) Update(ctx context.Context, req *models.UpdateDashboardSettingsRequest) error {
	var setParts []string
	var args []any

	fields := []struct {
		column string
		value  *string
	}{
		{"hero_image_url", req.HeroImageURL},
		{"hero_title", req.HeroTitle},
		{"hero_paragraph1", req.HeroParagraph1},
		{"hero_paragraph2", req.HeroParagraph2},
		{"hero_paragraph3", req.HeroParagraph3},
		{"hero_cta", req.HeroCTA},
	}
	for _, f := range fields {
		if f.value != nil {
			setParts = append(setParts, f.column+" = ?")
			args = append(args, nullableString(f.value))
		}
	}

	if len(setParts) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := fmt.Sprintf(`
		UPDATE dashboard_settings
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, dashboardSettingsID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update dashboard settings: %w", err)
	}

	return nil
}
