package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/memberclass/platform/internal/models"
	"github.com/memberclass/platform/internal/storage"
	"go.uber.org/zap"
)

// MaxImageSize is the upload limit for thumbnails and hero images
const MaxImageSize = 5 << 20

var (
	imageContentTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}

	safeExtension = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
)

// Storage defines the interface for file storage operations
type Storage interface {
	// Create creates a new file in the bucket and returns a WriteCloser
	Create(bucket, name string) (io.WriteCloser, error)

	// OpenFile opens a file and returns *os.File for use with http.ServeContent
	OpenFile(bucket, name string) (*os.File, error)

	// Delete removes a file
	Delete(bucket, name string) error
}

// StoredFileRepository defines the interface for file metadata data access
type StoredFileRepository interface {
	Create(ctx context.Context, file *models.StoredFile) error
	GetByID(ctx context.Context, bucket models.Bucket, id string) (*models.StoredFile, error)
	DeleteByID(ctx context.Context, bucket models.Bucket, id string) error
}

// MediaService handles business logic for uploaded files
type MediaService struct {
	fileRepo StoredFileRepository
	storage  Storage
	baseURL  string
	logger   *zap.Logger
}

// NewMediaService creates a new media service.
// "baseURL" is the public origin used to build download URLs.
func NewMediaService(fileRepo StoredFileRepository, storage Storage, baseURL string, logger *zap.Logger) *MediaService {
	return &MediaService{
		fileRepo: fileRepo,
		storage:  storage,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

// UploadFile stores a file in the bucket together with its metadata record.
//
// Image buckets only accept PNG, JPEG and WEBP up to MaxImageSize.
// The file is removed again if anything after the write fails.
func (s *MediaService) UploadFile(ctx context.Context, bucket models.Bucket, reader io.Reader, contentType, originalName string) (*models.UploadResult, error) {
	if !s.IsValidBucket(string(bucket)) {
		return nil, newValidationError("invalid bucket: %s", bucket)
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))

	imageOnly := bucket.IsPublic()
	if imageOnly && !imageContentTypes[contentType] {
		return nil, newValidationError("invalid image type, use PNG, JPG or WEBP")
	}

	extension := s.InferExtensionFromContentType(contentType)
	if extension == "" {
		extension = strings.ToLower(filepath.Ext(originalName))
		if !safeExtension.MatchString(extension) {
			extension = ""
		}
	}

	filename := storage.GenerateFileName(extension)
	sizeWriter := storage.NewSizeWriter()
	if imageOnly {
		// one byte over the limit is enough to reject the file
		reader = io.LimitReader(reader, MaxImageSize+1)
	}
	teeReader := io.TeeReader(reader, sizeWriter)

	writeCloser, err := s.storage.Create(string(bucket), filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	_, err = io.Copy(writeCloser, teeReader)
	closeErr := writeCloser.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		s.cleanup(bucket, filename)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if imageOnly && sizeWriter.Size() > MaxImageSize {
		s.cleanup(bucket, filename)
		return nil, newValidationError("file is too large, maximum size is 5MB")
	}

	downloadURL := fmt.Sprintf("%s/api/v1/files/%s/%s", s.baseURL, bucket, filename)
	file := &models.StoredFile{
		ID:           filename,
		Bucket:       bucket,
		ContentType:  contentType,
		Size:         sizeWriter.Size(),
		URL:          downloadURL,
		OriginalName: originalName,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		s.cleanup(bucket, filename)
		return nil, fmt.Errorf("failed to create metadata: %w", err)
	}

	fileType := contentType
	if fileType == "" {
		fileType = strings.TrimPrefix(extension, ".")
	}
	if fileType == "" {
		fileType = "unknown"
	}
	fileName := originalName
	if fileName == "" {
		fileName = filename
	}

	return &models.UploadResult{
		URL:      downloadURL,
		FileName: fileName,
		FileType: fileType,
		FileSize: file.Size,
	}, nil
}

// GetFile returns the file metadata and an *os.File for use with http.ServeContent.
// The caller closes the file.
func (s *MediaService) GetFile(ctx context.Context, bucket models.Bucket, filename string) (*models.StoredFile, *os.File, error) {
	if !s.IsValidBucket(string(bucket)) {
		return nil, nil, fmt.Errorf("bucket %w", models.ErrNotFound)
	}

	meta, err := s.fileRepo.GetByID(ctx, bucket, filename)
	if err != nil {
		return nil, nil, err
	}

	f, err := s.storage.OpenFile(string(bucket), filename)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, storage.ErrInvalidName) {
			return nil, nil, fmt.Errorf("file %w", models.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return meta, f, nil
}

// DeleteFile removes both the file and its metadata record
func (s *MediaService) DeleteFile(ctx context.Context, bucket models.Bucket, filename string) error {
	err := s.storage.Delete(string(bucket), filename)
	if err != nil && (os.IsNotExist(err) || errors.Is(err, storage.ErrInvalidName)) {
		return fmt.Errorf("file %w", models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := s.fileRepo.DeleteByID(ctx, bucket, filename); err != nil {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}

	return nil
}

func (s *MediaService) cleanup(bucket models.Bucket, filename string) {
	if err := s.storage.Delete(string(bucket), filename); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove partial upload", zap.Error(err), zap.String("file", filename))
	}
}

// InferExtensionFromContentType infers the extension from the content type
//
// Returns the inferred extension, or empty string if the extension cannot be inferred.
func (s *MediaService) InferExtensionFromContentType(contentType string) string {
	contentTypeMap := map[string]string{
		"image/jpeg":         ".jpg",
		"image/png":          ".png",
		"image/gif":          ".gif",
		"image/webp":         ".webp",
		"audio/mpeg":         ".mp3",
		"video/mp4":          ".mp4",
		"application/pdf":    ".pdf",
		"application/zip":    ".zip",
		"application/msword": ".doc",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   ".docx",
		"application/vnd.ms-excel":                                                  ".xls",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         ".xlsx",
		"application/vnd.ms-powerpoint":                                             ".ppt",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
		"text/plain": ".txt",
	}

	if ext, ok := contentTypeMap[contentType]; ok {
		return ext
	}
	return ""
}

// IsValidBucket checks if the bucket is known
func (s *MediaService) IsValidBucket(bucket string) bool {
	switch models.Bucket(bucket) {
	case models.BucketSupportMaterials,
		models.BucketCourseThumbnails,
		models.BucketHeroImages:
		return true
	default:
		return false
	}
}
