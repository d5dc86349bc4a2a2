package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/memberclass/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMediaService(t *testing.T, repo *mockStoredFileRepository) (*MediaService, *mockStorage) {
	t.Helper()
	store := &mockStorage{dir: t.TempDir()}
	return NewMediaService(repo, store, "http://localhost:8080/", zap.NewNop()), store
}

func TestMediaService_UploadFile(t *testing.T) {
	t.Run("support material keeps any type", func(t *testing.T) {
		repo := &mockStoredFileRepository{}
		svc, store := newTestMediaService(t, repo)

		result, err := svc.UploadFile(context.Background(), models.BucketSupportMaterials, strings.NewReader("pdf content"), "application/pdf", "workbook.pdf")

		require.NoError(t, err)
		assert.Equal(t, "workbook.pdf", result.FileName)
		assert.Equal(t, "application/pdf", result.FileType)
		assert.Equal(t, int64(len("pdf content")), result.FileSize)
		assert.True(t, strings.HasPrefix(result.URL, "http://localhost:8080/api/v1/files/support-materials/"))
		assert.True(t, strings.HasSuffix(result.URL, ".pdf"))

		require.NotNil(t, repo.created)
		assert.Equal(t, models.BucketSupportMaterials, repo.created.Bucket)
		data, err := os.ReadFile(filepath.Join(store.dir, repo.created.ID))
		require.NoError(t, err)
		assert.Equal(t, "pdf content", string(data))
	})

	t.Run("unknown content type falls back to file extension", func(t *testing.T) {
		repo := &mockStoredFileRepository{}
		svc, _ := newTestMediaService(t, repo)

		result, err := svc.UploadFile(context.Background(), models.BucketSupportMaterials, strings.NewReader("x"), "", "Notes.MD")

		require.NoError(t, err)
		assert.Equal(t, "md", result.FileType)
		assert.True(t, strings.HasSuffix(repo.created.ID, ".md"))
	})

	t.Run("image bucket rejects other types", func(t *testing.T) {
		repo := &mockStoredFileRepository{}
		svc, _ := newTestMediaService(t, repo)

		_, err := svc.UploadFile(context.Background(), models.BucketHeroImages, strings.NewReader("gif"), "image/gif", "a.gif")

		assertValidation(t, err, "invalid image type")
		assert.Nil(t, repo.created)
	})

	t.Run("image too large is removed", func(t *testing.T) {
		repo := &mockStoredFileRepository{}
		svc, store := newTestMediaService(t, repo)
		big := bytes.Repeat([]byte("a"), MaxImageSize+10)

		_, err := svc.UploadFile(context.Background(), models.BucketCourseThumbnails, bytes.NewReader(big), "image/png", "a.png")

		assertValidation(t, err, "too large")
		assert.Nil(t, repo.created)
		require.Len(t, store.deleted, 1)
		entries, _ := os.ReadDir(store.dir)
		assert.Empty(t, entries)
	})

	t.Run("metadata failure removes file", func(t *testing.T) {
		repo := &mockStoredFileRepository{createErr: errors.New("db error")}
		svc, store := newTestMediaService(t, repo)

		_, err := svc.UploadFile(context.Background(), models.BucketCourseThumbnails, strings.NewReader("png"), "image/png; charset=binary", "a.png")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create metadata")
		assert.Len(t, store.deleted, 1)
	})

	t.Run("invalid bucket", func(t *testing.T) {
		svc, _ := newTestMediaService(t, &mockStoredFileRepository{})

		_, err := svc.UploadFile(context.Background(), models.Bucket("avatars"), strings.NewReader("x"), "image/png", "a.png")

		assertValidation(t, err, "invalid bucket")
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := &mockStoredFileRepository{}
		store := &mockStorage{dir: t.TempDir(), createErr: errors.New("disk full")}
		svc := NewMediaService(repo, store, "http://localhost:8080", zap.NewNop())

		_, err := svc.UploadFile(context.Background(), models.BucketSupportMaterials, strings.NewReader("x"), "text/plain", "a.txt")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create file")
	})
}

func TestMediaService_GetFile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &mockStoredFileRepository{}
		svc, _ := newTestMediaService(t, repo)
		_, err := svc.UploadFile(context.Background(), models.BucketSupportMaterials, strings.NewReader("hello"), "text/plain", "a.txt")
		require.NoError(t, err)
		repo.file = repo.created

		meta, f, err := svc.GetFile(context.Background(), models.BucketSupportMaterials, repo.created.ID)

		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "text/plain", meta.ContentType)
	})

	t.Run("missing metadata", func(t *testing.T) {
		svc, _ := newTestMediaService(t, &mockStoredFileRepository{err: fmt.Errorf("file %w", models.ErrNotFound)})

		_, _, err := svc.GetFile(context.Background(), models.BucketSupportMaterials, "nope.txt")

		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("missing file on disk", func(t *testing.T) {
		svc, _ := newTestMediaService(t, &mockStoredFileRepository{file: &models.StoredFile{ID: "gone.txt"}})

		_, _, err := svc.GetFile(context.Background(), models.BucketSupportMaterials, "gone.txt")

		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("unknown bucket", func(t *testing.T) {
		svc, _ := newTestMediaService(t, &mockStoredFileRepository{})

		_, _, err := svc.GetFile(context.Background(), models.Bucket("secret"), "a.txt")

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestMediaService_DeleteFile(t *testing.T) {
	repo := &mockStoredFileRepository{}
	svc, _ := newTestMediaService(t, repo)
	_, err := svc.UploadFile(context.Background(), models.BucketSupportMaterials, strings.NewReader("hello"), "text/plain", "a.txt")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFile(context.Background(), models.BucketSupportMaterials, repo.created.ID))
	assert.True(t, repo.deleted)

	err = svc.DeleteFile(context.Background(), models.BucketSupportMaterials, repo.created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMediaService_InferExtensionFromContentType(t *testing.T) {
	svc, _ := newTestMediaService(t, &mockStoredFileRepository{})

	assert.Equal(t, ".jpg", svc.InferExtensionFromContentType("image/jpeg"))
	assert.Equal(t, ".pdf", svc.InferExtensionFromContentType("application/pdf"))
	assert.Equal(t, "", svc.InferExtensionFromContentType("application/x-unknown"))
}
