package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/memberclass/platform/internal/models"
)

// storedFileRepository keeps metadata of files written to storage
type storedFileRepository struct {
	db *sql.DB
}

// NewStoredFileRepository creates a new stored file repository
func NewStoredFileRepository(db *sql.DB) *storedFileRepository {
	return &storedFileRepository{
		db: db,
	}
}

// Create inserts a new file metadata record
func (r *storedFileRepository) Create(ctx context.Context, file *models.StoredFile) error {
	query := `
		INSERT INTO stored_files (id, bucket, content_type, size, url, original_name)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.Bucket,
		file.ContentType,
		file.Size,
		file.URL,
		nullableString(&file.OriginalName),
	)
	if err != nil {
		return fmt.Errorf("failed to create file metadata: %w", err)
	}

	return nil
}

// GetByID retrieves file metadata by ID within a bucket
func (r *storedFileRepository) GetByID(ctx context.Context, bucket models.Bucket, id string) (*models.StoredFile, error) {
	query := `
		SELECT content_type, size, url, COALESCE(original_name, '')
		FROM stored_files
		WHERE id = ? AND bucket = ?
		LIMIT 1
	`

	file := &models.StoredFile{ID: id, Bucket: bucket}
	err := r.db.QueryRowContext(ctx, query, id, bucket).Scan(
		&file.ContentType,
		&file.Size,
		&file.URL,
		&file.OriginalName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file metadata by id: %w", err)
	}

	return file, nil
}

// DeleteByID deletes file metadata by ID within a bucket
func (r *storedFileRepository) DeleteByID(ctx context.Context, bucket models.Bucket, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM stored_files WHERE id = ? AND bucket = ?", id, bucket)
	if err != nil {
		return fmt.Errorf("failed to delete file metadata: %w", err)
	}

	return expectAffected(result, "file")
}
