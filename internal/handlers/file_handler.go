package handlers

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/memberclass/platform/internal/models"
	"go.uber.org/zap"
)

// FileService is the interface that wraps stored file downloads
type FileService interface {
	// Method GetFile retrieve the file metadata and an open file ready for http.ServeContent.
	//
	// Unknown buckets and files return an error wrapping models.ErrNotFound. The caller closes the file.
	GetFile(ctx context.Context, bucket models.Bucket, filename string) (*models.StoredFile, *os.File, error)
}

// FileHandler serves uploaded files
type FileHandler struct {
	BaseHandler
	files  FileService
	authMw func(http.Handler) http.Handler
}

// NewFileHandler creates a new file handler.
// Files outside public buckets are served through authMw.
func NewFileHandler(files FileService, logger *zap.Logger, authMw func(http.Handler) http.Handler) *FileHandler {
	return &FileHandler{
		BaseHandler: BaseHandler{Logger: logger},
		files:       files,
		authMw:      authMw,
	}
}

// RegisterRoutes registers all file handler routes
func (h *FileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/files/{bucket}/{filename}", h.Download)
}

// Download handles GET /files/{bucket}/{filename}
// @Summary Download an uploaded file
// @Description Course thumbnails and hero images are public, support materials require authentication. Range requests are supported.
// @Tags files
// @Produce application/octet-stream
// @Param bucket path string true "Bucket"
// @Param filename path string true "File name"
// @Param Range header string false "Range"
// @Success 200 "File content"
// @Success 206 "Partial file content"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 404 {object} map[string]string "File not found"
// @Router /files/{bucket}/{filename} [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	bucket := models.Bucket(chi.URLParam(r, "bucket"))

	if !bucket.IsPublic() && h.authMw != nil {
		h.authMw(http.HandlerFunc(h.serveFile)).ServeHTTP(w, r)
		return
	}

	h.serveFile(w, r)
}

func (h *FileHandler) serveFile(w http.ResponseWriter, r *http.Request) {
	bucket := models.Bucket(chi.URLParam(r, "bucket"))
	filename := chi.URLParam(r, "filename")

	meta, file, err := h.files.GetFile(r.Context(), bucket, filename)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to open file")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		h.Logger.Error("failed to get file info", zap.Error(err), zap.String("file", filename))
		h.RespondError(w, http.StatusInternalServerError, "failed to get file info")
		return
	}

	if meta.ContentType != "" {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	if bucket.IsPublic() {
		w.Header().Set("Cache-Control", "public, max-age=86400")
	}
	http.ServeContent(w, r, filename, info.ModTime(), file)
}
