package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/memberclass/platform/internal/models"
)

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *sql.DB) *lessonRepository {
	return &lessonRepository{
		db: db,
	}
}

func scanLesson(s rowScanner) (models.Lesson, error) {
	var lesson models.Lesson
	err := s.Scan(
		&lesson.ID,
		&lesson.ModuleID,
		&lesson.Title,
		&lesson.Content,
		&lesson.VideoID,
		&lesson.OrderIndex,
		&lesson.DurationMinutes,
	)
	return lesson, err
}

// GetByID retrieves a lesson by its ID
func (r *lessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	query := `
		SELECT id, module_id, title, content, video_id, order_index, duration_minutes
		FROM lessons
		WHERE id = ?
		LIMIT 1
	`

	lesson, err := scanLesson(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lesson %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by id: %w", err)
	}

	return &lesson, nil
}

// GetByModuleID retrieves the lessons of a module in ascending order index
func (r *lessonRepository) GetByModuleID(ctx context.Context, moduleID int) ([]models.Lesson, error) {
	query := `
		SELECT id, module_id, title, content, video_id, order_index, duration_minutes
		FROM lessons
		WHERE module_id = ?
		ORDER BY order_index ASC
	`

	rows, err := r.db.QueryContext(ctx, query, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}

// CountByModuleID returns the number of lessons in a module
func (r *lessonRepository) CountByModuleID(ctx context.Context, moduleID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lessons WHERE module_id = ?", moduleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return count, nil
}

// ExistsByOrderIndex checks if another lesson of the module already uses the order index.
// excludeID skips the lesson being updated; pass 0 on create.
func (r *lessonRepository) ExistsByOrderIndex(ctx context.Context, moduleID, orderIndex, excludeID int) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM lessons WHERE module_id = ? AND order_index = ? AND id <> ?)"
	var exists bool
	err := r.db.QueryRowContext(ctx, query, moduleID, orderIndex, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check lesson order: %w", err)
	}
	return exists, nil
}

// Create creates a new lesson
func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	query := `
		INSERT INTO lessons (module_id, title, content, video_id, order_index, duration_minutes)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		lesson.ModuleID,
		lesson.Title,
		nullableString(lesson.Content),
		nullableString(lesson.VideoID),
		lesson.OrderIndex,
		nullableInt(lesson.DurationMinutes),
	)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	lesson.ID = int(id)
	return nil
}

// Update updates a lesson (partial update)
func (r *lessonRepository) Update(ctx context.Context, id int, patch *models.LessonPatch) error {
	var setParts []string
	var args []any

	if patch.Title != "" {
		setParts = append(setParts, "title = ?")
		args = append(args, patch.Title)
	}
	if patch.Content != nil {
		setParts = append(setParts, "content = ?")
		args = append(args, nullableString(patch.Content))
	}
	if patch.VideoID != nil {
		setParts = append(setParts, "video_id = ?")
		args = append(args, nullableString(patch.VideoID))
	}
	if patch.OrderIndex != nil {
		setParts = append(setParts, "order_index = ?")
		args = append(args, *patch.OrderIndex)
	}
	if patch.DurationMinutes != nil {
		setParts = append(setParts, "duration_minutes = ?")
		args = append(args, *patch.DurationMinutes)
	}

	if len(setParts) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := fmt.Sprintf(`
		UPDATE lessons
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}

	return expectAffected(result, "lesson")
}

// Delete deletes a lesson by ID
func (r *lessonRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM lessons WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	return expectAffected(result, "lesson")
}
