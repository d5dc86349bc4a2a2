package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/memberclass/platform/internal/models"
)

type moduleRepository struct {
	db *sql.DB
}

// NewModuleRepository creates a new module repository
func NewModuleRepository(db *sql.DB) *moduleRepository {
	return &moduleRepository{
		db: db,
	}
}

// GetByID retrieves a module by its ID
func (r *moduleRepository) GetByID(ctx context.Context, id int) (*models.Module, error) {
	query := `
		SELECT id, course_id, title, description, order_index
		FROM modules
		WHERE id = ?
		LIMIT 1
	`

	var module models.Module
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&module.ID,
		&module.CourseID,
		&module.Title,
		&module.Description,
		&module.OrderIndex,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("module %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module by id: %w", err)
	}

	return &module, nil
}

// GetByCourseID retrieves the modules of a course in ascending order index
func (r *moduleRepository) GetByCourseID(ctx context.Context, courseID int) ([]models.Module, error) {
	query := `
		SELECT id, course_id, title, description, order_index
		FROM modules
		WHERE course_id = ?
		ORDER BY order_index ASC
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	modules := []models.Module{}
	for rows.Next() {
		var module models.Module
		err := rows.Scan(
			&module.ID,
			&module.CourseID,
			&module.Title,
			&module.Description,
			&module.OrderIndex,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		modules = append(modules, module)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return modules, nil
}

// CountByCourseID returns the number of modules in a course
func (r *moduleRepository) CountByCourseID(ctx context.Context, courseID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM modules WHERE course_id = ?", courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count modules: %w", err)
	}
	return count, nil
}

// ExistsByOrderIndex checks if another module of the course already uses the order index.
// excludeID skips the module being updated; pass 0 on create.
func (r *moduleRepository) ExistsByOrderIndex(ctx context.Context, courseID, orderIndex, excludeID int) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM modules WHERE course_id = ? AND order_index = ? AND id <> ?)"
	var exists bool
	err := r.db.QueryRowContext(ctx, query, courseID, orderIndex, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check module order: %w", err)
	}
	return exists, nil
}

// Create creates a new module
func (r *moduleRepository) Create(ctx context.Context, module *models.Module) error {
	query := `
		INSERT INTO modules (course_id, title, description, order_index)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		module.CourseID,
		module.Title,
		nullableString(module.Description),
		module.OrderIndex,
	)
	if err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	module.ID = int(id)
	return nil
}

// Update updates a module (partial update)
func (r *moduleRepository) Update(ctx context.Context, id int, req *models.UpdateModuleRequest) error {
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
	if req.OrderIndex != nil {
		setParts = append(setParts, "order_index = ?")
		args = append(args, *req.OrderIndex)
	}

	if len(setParts) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := fmt.Sprintf(`
		UPDATE modules
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}

	return expectAffected(result, "module")
}

// Delete deletes a module by ID together with its lessons
func (r *moduleRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM modules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}

	return expectAffected(result, "module")
}
