package models

// Bucket names a storage area for uploaded files
type Bucket string

const (
	BucketSupportMaterials Bucket = "support-materials"
	BucketCourseThumbnails Bucket = "course-thumbnails"
	BucketHeroImages       Bucket = "hero-images"
)

// IsPublic reports whether files in the bucket can be downloaded without authentication
func (b Bucket) IsPublic() bool {
	return b == BucketCourseThumbnails || b == BucketHeroImages
}

// StoredFile represents uploaded file metadata in the database
type StoredFile struct {
	ID           string `json:"id"`
	Bucket       Bucket `json:"bucket"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
	OriginalName string `json:"originalName,omitempty"`
}

// UploadResult is returned to clients after a successful upload
type UploadResult struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}
