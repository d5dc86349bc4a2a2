package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/memberclass/platform/internal/models"
)

const courseColumns = "c.id, c.title, c.description, c.thumbnail_url, c.created_at"

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

func scanCourse(s rowScanner, extra ...any) (models.Course, error) {
	var course models.Course
	dest := append([]any{
		&course.ID,
		&course.Title,
		&course.Description,
		&course.ThumbnailURL,
		&course.CreatedAt,
	}, extra...)
	err := s.Scan(dest...)
	return course, err
}

// GetByID retrieves a course by its ID
func (r *courseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses c WHERE c.id = ? LIMIT 1`

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("course %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}

	return &course, nil
}

// GetAll retrieves every course, newest first
func (r *courseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses c ORDER BY c.created_at DESC, c.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// GetAllWithEnrollment retrieves every course, newest first, flagged with the user's enrollment
func (r *courseRepository) GetAllWithEnrollment(ctx context.Context, userID int) ([]models.CourseListItem, error) {
	query := `
		SELECT ` + courseColumns + `,
			EXISTS(SELECT 1 FROM enrollments e WHERE e.course_id = c.id AND e.user_id = ?) AS enrolled
		FROM courses c
		ORDER BY c.created_at DESC, c.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	items := []models.CourseListItem{}
	for rows.Next() {
		var enrolled bool
		course, err := scanCourse(rows, &enrolled)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		items = append(items, models.CourseListItem{Course: course, Enrolled: enrolled})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

// GetEnrolled retrieves the courses a user is enrolled in, most recent enrollment first
func (r *courseRepository) GetEnrolled(ctx context.Context, userID int) ([]models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses c
		INNER JOIN enrollments e ON e.course_id = c.id
		WHERE e.user_id = ?
		ORDER BY e.enrolled_at DESC, c.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrolled courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// Create creates a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, description, thumbnail_url)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		course.Title,
		nullableString(course.Description),
		nullableString(course.ThumbnailURL),
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	course.ID = int(id)
	return nil
}

// Update updates a course (partial update).
// Empty title is left unchanged; non-nil optional fields are written, empty strings become NULL.
func (r *courseRepository) Update(ctx context.Context, id int, req *models.UpdateCourseRequest) error {
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
	if req.ThumbnailURL != nil {
		setParts = append(setParts, "thumbnail_url = ?")
		args = append(args, nullableString(req.ThumbnailURL))
	}

	if len(setParts) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := fmt.Sprintf(`
		UPDATE courses
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	return expectAffected(result, "course")
}

// Delete deletes a course by ID, cascading to its modules, lessons and enrollments
func (r *courseRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	return expectAffected(result, "course")
}
