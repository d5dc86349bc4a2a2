package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/memberclass/platform/internal/models"
)

type supportMaterialRepository struct {
	db *sql.DB
}

// NewSupportMaterialRepository creates a new support material repository
func NewSupportMaterialRepository(db *sql.DB) *supportMaterialRepository {
	return &supportMaterialRepository{
		db: db,
	}
}

func scanSupportMaterial(s rowScanner) (models.SupportMaterial, error) {
	var m models.SupportMaterial
	err := s.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.FileURL,
		&m.FileName,
		&m.FileType,
		&m.FileSize,
		&m.CreatedAt,
	)
	return m, err
}

// GetAll retrieves every support material, newest first
func (r *supportMaterialRepository) GetAll(ctx context.Context) ([]models.SupportMaterial, error) {
	query := `
		SELECT id, title, description, file_url, file_name, file_type, file_size, created_at
		FROM support_materials
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query support materials: %w", err)
	}
	defer rows.Close()

	materials := []models.SupportMaterial{}
	for rows.Next() {
		m, err := scanSupportMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan support material: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return materials, nil
}

// GetByID retrieves a support material by its ID
func (r *supportMaterialRepository) GetByID(ctx context.Context, id int) (*models.SupportMaterial, error) {
	query := `
		SELECT id, title, description, file_url, file_name, file_type, file_size, created_at
		FROM support_materials
		WHERE id = ?
		LIMIT 1
	`

	m, err := scanSupportMaterial(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("support material %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get support material by id: %w", err)
	}

	return &m, nil
}

// Create creates a new support material
func (r *supportMaterialRepository) Create(ctx context.Context, m *models.SupportMaterial) error {
	query := `
		INSERT INTO support_materials (title, description, file_url, file_name, file_type, file_size)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		m.Title,
		nullableString(m.Description),
		m.FileURL,
		m.FileName,
		nullableString(m.FileType),
		nullableInt(m.FileSize),
	)
	if err != nil {
		return fmt.Errorf("failed to create support material: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	m.ID = int(id)
	return nil
}

// Update updates a support material (partial update)
func (r *supportMaterialRepository) Update(ctx context.Context, id int, req *models.UpdateSupportMaterialRequest) error {
	var setParts []string
	var args []any

	if req.Title != "" {
		setParts = append(setParts, "title = ?")
		args = append(args, req.Title)
	}
	if req.Description != nil {
		setParts = append(setParts, "description = ?")
		args = append(args, nullableString(req.Description))
	}
	if req.FileURL != "" {
		setParts = append(setParts, "file_url = ?")
		args = append(args, req.FileURL)
	}
	if req.FileName != "" {
		setParts = append(setParts, "file_name = ?")
		args = append(args, req.FileName)
	}
	if req.FileType != nil {
		setParts = append(setParts, "file_type = ?")
		args = append(args, nullableString(req.FileType))
	}
	if req.FileSize != nil {
		setParts = append(setParts, "file_size = ?")
		args = append(args, *req.FileSize)
	}

	if len(setParts) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := fmt.Sprintf(`
		UPDATE support_materials
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update support material: %w", err)
	}

	return expectAffected(result, "support material")
}

// Delete deletes a support material by ID
func (r *supportMaterialRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM support_materials WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete support material: %w", err)
	}

	return expectAffected(result, "support material")
}
